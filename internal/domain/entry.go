package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Kind tags the polymorphic favorite entry.
type Kind string

const (
	KindFile      Kind = "file"
	KindCommand   Kind = "command"
	KindMacro     Kind = "macro"
	KindSeparator Kind = "separator"
	KindGroup     Kind = "group"
	KindWorkspace Kind = "workspace"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFile, KindCommand, KindMacro, KindSeparator, KindGroup, KindWorkspace:
		return true
	}
	return false
}

// Entry is one record of the favorites collection.
//
// The JSON layout is the persisted format: storage slots, the team file,
// exports and imports all use it verbatim.
type Entry struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned at creation and never reused.
	ID string `json:"id"`

	// Kind selects which payload fields are meaningful.
	Kind Kind `json:"type"`

	// ─────────────────────────────
	// Placement
	// ─────────────────────────────

	// Label is the display name. Empty only for separators.
	Label string `json:"label"`

	// Pinned entries sort before unpinned ones under every sort mode.
	Pinned bool `json:"pinned,omitempty"`

	// GroupID references a group entry. Empty means root level.
	GroupID string `json:"groupId,omitempty"`

	// Order is dense and unique within the GroupID scope.
	Order int `json:"order"`

	// ─────────────────────────────
	// Styling & annotation
	// ─────────────────────────────

	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
	Note  string `json:"note,omitempty"`

	// LastUsed is a unix timestamp in milliseconds, zero when never activated.
	LastUsed int64 `json:"lastUsed,omitempty"`

	// ─────────────────────────────
	// Kind-specific payload
	// ─────────────────────────────

	Path string `json:"path,omitempty"`

	CommandID string `json:"commandId,omitempty"`
	Args      []any  `json:"args,omitempty"`

	// MacroCommands is the legacy macro form (plain command ids).
	// Normalize folds it into MacroSteps on read; it is never written back.
	MacroCommands []string    `json:"macroCommands,omitempty"`
	MacroSteps    []MacroStep `json:"macroSteps,omitempty"`

	SeparatorLabel string `json:"separatorLabel,omitempty"`

	WorkspacePath string `json:"workspacePath,omitempty"`
}

// IsRoot reports whether the entry sits in the root ordering scope.
func (e Entry) IsRoot() bool { return e.GroupID == "" }

// Launchable reports whether activating the entry does something.
func (e Entry) Launchable() bool {
	return e.Kind != KindGroup && e.Kind != KindSeparator
}

// LastUsedAt converts LastUsed to a time, zero when unset.
func (e Entry) LastUsedAt() time.Time {
	if e.LastUsed == 0 {
		return time.Time{}
	}
	return time.UnixMilli(e.LastUsed)
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := e
	if e.Args != nil {
		out.Args = append([]any(nil), e.Args...)
	}
	if e.MacroCommands != nil {
		out.MacroCommands = append([]string(nil), e.MacroCommands...)
	}
	if e.MacroSteps != nil {
		out.MacroSteps = append([]MacroStep(nil), e.MacroSteps...)
	}
	return out
}

// CloneAll deep-copies a slice of entries.
func CloneAll(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i := range entries {
		out[i] = entries[i].Clone()
	}
	return out
}

// Normalize applies read-time schema upgrades and fills derived defaults.
// It must run on every path that reads entries from outside the process.
func Normalize(e Entry) Entry {
	e.Kind = Kind(strings.ToLower(strings.TrimSpace(string(e.Kind))))

	if e.Kind == KindMacro && len(e.MacroSteps) == 0 && len(e.MacroCommands) > 0 {
		steps := make([]MacroStep, 0, len(e.MacroCommands))
		for _, c := range e.MacroCommands {
			if c = strings.TrimSpace(c); c != "" {
				steps = append(steps, CommandStep(c))
			}
		}
		e.MacroSteps = steps
	}
	e.MacroCommands = nil

	// Groups are flat.
	if e.Kind == KindGroup {
		e.GroupID = ""
	}

	if strings.TrimSpace(e.Label) == "" {
		e.Label = DefaultLabel(e)
	}
	return e
}

// NormalizeAll normalizes every entry of a slice in place and returns it.
func NormalizeAll(entries []Entry) []Entry {
	for i := range entries {
		entries[i] = Normalize(entries[i])
	}
	return entries
}

// DefaultLabel derives a label from the payload when the user gave none.
func DefaultLabel(e Entry) string {
	switch e.Kind {
	case KindFile:
		return baseName(e.Path)
	case KindWorkspace:
		return baseName(e.WorkspacePath)
	case KindCommand:
		return e.CommandID
	case KindSeparator:
		return "---"
	}
	return ""
}

func baseName(p string) string {
	if p == "" {
		return ""
	}
	p = strings.TrimRight(strings.ReplaceAll(p, `\`, "/"), "/")
	if p == "" {
		return "/"
	}
	return filepath.Base(p)
}
