package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownKind    = errors.New("unknown entry type")
	ErrMissingPayload = errors.New("missing required field")
	ErrMissingLabel   = errors.New("label is required")
)

// Colors accepted at the presentation boundary.
var Colors = []string{"red", "orange", "yellow", "green", "blue", "purple"}

// ValidColor reports whether c is empty (no color) or a known color label.
func ValidColor(c string) bool {
	if c == "" {
		return true
	}
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// Validate checks the kind-specific required fields of an entry.
func Validate(e Entry) error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}

	switch e.Kind {
	case KindFile:
		if strings.TrimSpace(e.Path) == "" {
			return fmt.Errorf("%w: path", ErrMissingPayload)
		}
	case KindCommand:
		if strings.TrimSpace(e.CommandID) == "" {
			return fmt.Errorf("%w: commandId", ErrMissingPayload)
		}
	case KindMacro:
		steps := e.Steps()
		if len(steps) == 0 {
			return fmt.Errorf("%w: macroSteps", ErrMissingPayload)
		}
		for i, s := range steps {
			if !s.Valid() {
				return fmt.Errorf("%w: macroSteps[%d]", ErrMissingPayload, i)
			}
		}
	case KindWorkspace:
		if strings.TrimSpace(e.WorkspacePath) == "" {
			return fmt.Errorf("%w: workspacePath", ErrMissingPayload)
		}
	}

	if e.Kind != KindSeparator && strings.TrimSpace(e.Label) == "" {
		return ErrMissingLabel
	}
	return nil
}
