package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
)

// Scope selects one of the independent persisted collections.
type Scope string

const (
	ScopeWorkspace Scope = "workspace"
	ScopeGlobal    Scope = "global"
	ScopeTeam      Scope = "team"
)

// Scopes lists every scope in display order.
var Scopes = []Scope{ScopeWorkspace, ScopeGlobal, ScopeTeam}

var (
	// ErrUnknownScope is returned for a scope name outside Scopes.
	ErrUnknownScope = errors.New("unknown storage scope")
	// ErrConflict is returned when a versioned slot changed since it was last read.
	ErrConflict = errors.New("storage changed since last read")
)

// ParseScope converts a user-supplied scope name.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeWorkspace:
		return ScopeWorkspace, nil
	case ScopeGlobal:
		return ScopeGlobal, nil
	case ScopeTeam:
		return ScopeTeam, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
}

// Label is the human name of the scope.
func (s Scope) Label() string {
	switch s {
	case ScopeGlobal:
		return "Global"
	case ScopeTeam:
		return "Team"
	}
	return "Workspace"
}

// Backend persists whole collections per scope.
// A missing collection loads as empty without error.
type Backend interface {
	Load(ctx context.Context, scope Scope) ([]domain.Entry, error)
	Save(ctx context.Context, scope Scope, entries []domain.Entry) error
}

// Versioned is implemented by backends that can tell whether
// a collection changed outside this process.
type Versioned interface {
	// Version returns an opaque content version, empty when nothing is stored.
	Version(ctx context.Context, scope Scope) (string, error)
}

// KV is a flat key/value slot store holding serialized collections.
type KV interface {
	// Get returns ok=false when the key does not exist.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Put(ctx context.Context, key string, data []byte) error
	Keys(ctx context.Context) ([]string, error)
}

// SlotKey is the fixed key of the persisted collection.
const SlotKey = "favlauncher.items.v2"

// GlobalSlot returns the key of the per-user collection.
func GlobalSlot() string { return SlotKey }

// WorkspaceSlot returns the key of the collection bound to a workspace directory.
func WorkspaceSlot(workspaceDir string) string {
	abs, err := filepath.Abs(workspaceDir)
	if err != nil {
		abs = workspaceDir
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return SlotKey + "@" + hex.EncodeToString(sum[:])[:16]
}
