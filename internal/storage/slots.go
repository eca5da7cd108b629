package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
)

// SlotBackend stores the workspace and global collections as JSON
// documents in a KV store.
type SlotBackend struct {
	kv        KV
	workspace string
}

func NewSlotBackend(kv KV, workspaceDir string) *SlotBackend {
	return &SlotBackend{kv: kv, workspace: WorkspaceSlot(workspaceDir)}
}

func (b *SlotBackend) key(scope Scope) (string, error) {
	switch scope {
	case ScopeWorkspace:
		return b.workspace, nil
	case ScopeGlobal:
		return GlobalSlot(), nil
	}
	return "", fmt.Errorf("%w: %q has no kv slot", ErrUnknownScope, scope)
}

func (b *SlotBackend) Load(ctx context.Context, scope Scope) ([]domain.Entry, error) {
	key, err := b.key(scope)
	if err != nil {
		return nil, err
	}

	data, ok, err := b.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return []domain.Entry{}, nil
	}

	var entries []domain.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode slot %s: %w", key, err)
	}
	return entries, nil
}

func (b *SlotBackend) Save(ctx context.Context, scope Scope, entries []domain.Entry) error {
	key, err := b.key(scope)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.Entry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode slot %s: %w", key, err)
	}
	if err := b.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

// Slots lists every collection key present in the KV store.
func (b *SlotBackend) Slots(ctx context.Context) ([]string, error) {
	return b.kv.Keys(ctx)
}
