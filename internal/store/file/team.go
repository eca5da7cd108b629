package file

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/storage"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// TeamStore persists the team collection as an indented JSON array
// in a file meant to be committed with the workspace.
type TeamStore struct {
	fs   afero.Fs
	path string
}

func NewTeamStore(fs afero.Fs, path string) *TeamStore {
	return &TeamStore{fs: fs, path: path}
}

// Path returns the location of the team file.
func (s *TeamStore) Path() string { return s.path }

func (s *TeamStore) read() ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read team file: %w", err)
	}
	return data, nil
}

func (s *TeamStore) Load(_ context.Context, scope storage.Scope) ([]domain.Entry, error) {
	if scope != storage.ScopeTeam {
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownScope, scope)
	}

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, bom)
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Entry{}, nil
	}

	var entries []domain.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode team file %s: %w", s.path, err)
	}
	return entries, nil
}

// Save writes the file through a temporary sibling and a rename so
// watchers never observe a truncated document.
func (s *TeamStore) Save(_ context.Context, scope storage.Scope, entries []domain.Entry) error {
	if scope != storage.ScopeTeam {
		return fmt.Errorf("%w: %q", storage.ErrUnknownScope, scope)
	}
	if entries == nil {
		entries = []domain.Entry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode team file: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create team dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write team file: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to replace team file: %w", err)
	}
	return nil
}

// Version hashes the raw file content. A missing file has an empty version.
func (s *TeamStore) Version(_ context.Context, scope storage.Scope) (string, error) {
	if scope != storage.ScopeTeam {
		return "", fmt.Errorf("%w: %q", storage.ErrUnknownScope, scope)
	}

	data, err := s.read()
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", nil
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
