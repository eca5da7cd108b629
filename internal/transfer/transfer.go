package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
)

var (
	// ErrFormat is returned for malformed JSON or a wrong top-level shape.
	ErrFormat = errors.New("invalid favorites document")
	// ErrNothingToImport is returned when a valid document yields no entries to apply.
	ErrNothingToImport = errors.New("nothing to import")
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Mode selects how an import is applied.
type Mode string

const (
	ModePreview Mode = "preview"
	ModeMerge   Mode = "merge"
	ModeReplace Mode = "replace"
)

// ParseMode maps a user-supplied mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePreview:
		return ModePreview, nil
	case "", ModeMerge:
		return ModeMerge, nil
	case ModeReplace:
		return ModeReplace, nil
	}
	return "", fmt.Errorf("unknown import mode %q", s)
}

// Export writes the collection verbatim as an indented JSON array.
func Export(w io.Writer, entries []domain.Entry) error {
	if entries == nil {
		entries = []domain.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to export favorites: %w", err)
	}
	return nil
}

// Parse decodes a bare array of entries or an object with an "items"
// array. Entries are normalized; invalid ones are dropped.
func Parse(data []byte) ([]domain.Entry, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, bom))
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrFormat)
	}

	var raw []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	case '{':
		var doc struct {
			Items *[]json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		if doc.Items == nil {
			return nil, fmt.Errorf("%w: object must contain an items array", ErrFormat)
		}
		raw = *doc.Items
	default:
		return nil, fmt.Errorf("%w: document must contain a JSON array of favorites", ErrFormat)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: document contains no items", ErrNothingToImport)
	}

	entries := make([]domain.Entry, 0, len(raw))
	for i, msg := range raw {
		var e domain.Entry
		if err := json.Unmarshal(msg, &e); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrFormat, i, err)
		}
		e = domain.Normalize(e)
		if domain.Validate(e) != nil {
			continue
		}
		entries = append(entries, e)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no valid items", ErrNothingToImport)
	}
	return entries, nil
}
