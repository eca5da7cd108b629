package favorites

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/storage"
)

// Flag names a styling or annotation field set through SetFlag.
type Flag string

const (
	FlagIcon  Flag = "icon"
	FlagColor Flag = "color"
	FlagNote  Flag = "note"
)

// Listener is called after every persisted change of the collection.
type Listener func(scope storage.Scope)

// Store owns the canonical collection of the active scope.
//
// Mutations hold the lock across read, compute and persist, so they
// apply strictly one at a time. Missing ids and invalid input are
// silent no-ops reported through the boolean or empty results.
type Store struct {
	mu sync.Mutex

	backend storage.Backend
	scope   storage.Scope
	log     logger.Logger

	items   []domain.Entry
	undo    []domain.Entry
	version string

	now   func() time.Time
	newID func() string

	lmu       sync.RWMutex
	listeners []Listener
}

type Option func(*Store)

// WithClock overrides the time source used for lastUsed.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs overrides the id generator.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func New(backend storage.Backend, scope storage.Scope, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		scope:   scope,
		log:     log,
		items:   []domain.Entry{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a fresh entry id from the store generator.
func (s *Store) NewID() string { return s.newID() }

// OnChange registers a listener for the invalidation signal.
func (s *Store) OnChange(fn Listener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(scope storage.Scope) {
	s.lmu.RLock()
	fns := append([]Listener(nil), s.listeners...)
	s.lmu.RUnlock()

	for _, fn := range fns {
		fn(scope)
	}
}

// ─────────────────────────────
// Lifecycle
// ─────────────────────────────

// Load replaces the in-memory collection with the persisted one.
// Read failures are logged and leave an empty collection.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	err := s.loadLocked(ctx)
	scope := s.scope
	s.mu.Unlock()

	s.notify(scope)
	return err
}

func (s *Store) loadLocked(ctx context.Context) error {
	s.undo = nil

	entries, err := s.backend.Load(ctx, s.scope)
	if err != nil {
		s.log.Warn("failed to load favorites, starting empty",
			logger.String("scope", string(s.scope)),
			logger.Error(err))
		s.items = []domain.Entry{}
		s.version = s.currentVersion(ctx)
		return err
	}

	s.items = domain.NormalizeAll(entries)
	s.version = s.currentVersion(ctx)

	s.log.Debug("favorites loaded",
		logger.String("scope", string(s.scope)),
		logger.Int("count", len(s.items)))
	return nil
}

// Flush persists the current collection.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx)
}

func (s *Store) currentVersion(ctx context.Context) string {
	v, ok := s.backend.(storage.Versioned)
	if !ok {
		return ""
	}
	version, err := v.Version(ctx, s.scope)
	if err != nil {
		return ""
	}
	return version
}

func (s *Store) save(ctx context.Context) error {
	if err := s.backend.Save(ctx, s.scope, s.items); err != nil {
		return fmt.Errorf("failed to save %s favorites: %w", s.scope, err)
	}
	s.version = s.currentVersion(ctx)
	return nil
}

// commit persists an ordinary mutation. Save failures are logged and
// swallowed, the in-memory state stays authoritative.
func (s *Store) commit(ctx context.Context, op string, clearUndo bool) {
	if clearUndo {
		s.undo = nil
	}
	if err := s.save(ctx); err != nil {
		s.log.Warn("failed to persist favorites",
			logger.String("op", op),
			logger.Error(err))
	}
}

// mutate runs fn under the lock and persists when it reports a change.
func (s *Store) mutate(ctx context.Context, op string, fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	if changed {
		s.commit(ctx, op, op != "remove")
	}
	scope := s.scope
	s.mu.Unlock()

	if changed {
		s.notify(scope)
	}
	return changed
}

// ─────────────────────────────
// Reads
// ─────────────────────────────

// Scope returns the active storage scope.
func (s *Store) Scope() storage.Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

// Snapshot returns a deep copy of the collection.
func (s *Store) Snapshot() []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneAll(s.items)
}

// Get returns a copy of one entry.
func (s *Store) Get(id string) (domain.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := find(s.items, id)
	return e.Clone(), ok
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// CanUndo reports whether an undo buffer is held.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// ─────────────────────────────
// Mutations
// ─────────────────────────────

// Add inserts a new entry with a fresh id at the end of its scope.
// Group entries always land at root. A groupId that does not point at
// a group is coerced to root.
func (s *Store) Add(ctx context.Context, e domain.Entry) (domain.Entry, bool) {
	var added domain.Entry
	ok := s.mutate(ctx, "add", func() bool {
		e = domain.Normalize(e.Clone())
		if err := domain.Validate(e); err != nil {
			s.log.Debug("add rejected", logger.Error(err))
			return false
		}

		e.ID = s.newID()
		// only an activation sets lastUsed
		e.LastUsed = 0
		e.GroupID = resolveGroup(s.items, e.GroupID)
		if e.Kind == domain.KindGroup {
			e.GroupID = ""
		}
		e.Order = nextOrder(s.items, e.GroupID)

		s.items = append(s.items, e)
		added = e.Clone()

		s.log.Debug("entry added",
			logger.String("id", e.ID),
			logger.String("type", string(e.Kind)))
		return true
	})
	return added, ok
}

// Update merges a patch into an entry. The result must stay valid.
func (s *Store) Update(ctx context.Context, id string, p domain.Patch) bool {
	if p.Empty() {
		return false
	}
	return s.mutate(ctx, "update", func() bool {
		i := indexOf(s.items, id)
		if i < 0 {
			return false
		}
		next := p.Apply(s.items[i].Clone())
		if err := domain.Validate(next); err != nil {
			s.log.Debug("update rejected", logger.String("id", id), logger.Error(err))
			return false
		}
		s.items[i] = next
		s.log.Debug("entry updated", logger.String("id", id))
		return true
	})
}

// Remove deletes an entry, and for a group every child of it. The
// removed set is returned and kept as the undo buffer.
func (s *Store) Remove(ctx context.Context, id string) []domain.Entry {
	var removed []domain.Entry
	s.mutate(ctx, "remove", func() bool {
		i := indexOf(s.items, id)
		if i < 0 {
			return false
		}
		target := s.items[i]

		kept := make([]domain.Entry, 0, len(s.items))
		for _, e := range s.items {
			if e.ID == id || (target.Kind == domain.KindGroup && e.GroupID == id) {
				removed = append(removed, e)
				continue
			}
			kept = append(kept, e)
		}
		s.items = kept
		renumber(s.items, target.GroupID, nil)
		s.undo = domain.CloneAll(removed)

		s.log.Debug("entry removed",
			logger.String("id", id),
			logger.Int("count", len(removed)))
		return true
	})
	return removed
}

// Restore re-inserts previously removed entries with their ids and
// recorded orders. Ids already present are skipped. Affected scopes are
// renumbered with the restored entries keeping their recorded slots.
func (s *Store) Restore(ctx context.Context, entries []domain.Entry) bool {
	return s.mutate(ctx, "restore", func() bool {
		return s.restoreLocked(entries)
	})
}

func (s *Store) restoreLocked(entries []domain.Entry) bool {
	restored := make(map[string]bool, len(entries))
	groups := make(map[string]bool)
	for _, e := range entries {
		if e.Kind == domain.KindGroup {
			groups[e.ID] = true
		}
	}

	scopes := make(map[string]bool)
	for _, e := range entries {
		if e.ID == "" || indexOf(s.items, e.ID) >= 0 || restored[e.ID] {
			continue
		}
		e = domain.Normalize(e.Clone())
		if e.GroupID != "" && !groups[e.GroupID] && !isGroup(s.items, e.GroupID) {
			e.GroupID = ""
		}
		s.items = append(s.items, e)
		restored[e.ID] = true
		scopes[e.GroupID] = true
	}
	if len(restored) == 0 {
		return false
	}

	for scope := range scopes {
		renumber(s.items, scope, restored)
	}
	s.log.Debug("entries restored", logger.Int("count", len(restored)))
	return true
}

// Undo restores the last removed set. The buffer survives only until
// the next mutation or refresh.
func (s *Store) Undo(ctx context.Context) []domain.Entry {
	var restored []domain.Entry
	s.mutate(ctx, "undo", func() bool {
		if len(s.undo) == 0 {
			return false
		}
		buf := s.undo
		s.undo = nil
		if !s.restoreLocked(buf) {
			return false
		}
		restored = domain.CloneAll(buf)
		return true
	})
	return restored
}

// SetPinned toggles the pinned flag.
func (s *Store) SetPinned(ctx context.Context, id string, pinned bool) bool {
	return s.mutate(ctx, "pin", func() bool {
		i := indexOf(s.items, id)
		if i < 0 || s.items[i].Pinned == pinned {
			return false
		}
		s.items[i].Pinned = pinned
		return true
	})
}

// SetFlag sets or, with an empty value, clears icon, color or note.
func (s *Store) SetFlag(ctx context.Context, id string, f Flag, value string) bool {
	return s.mutate(ctx, "flag", func() bool {
		i := indexOf(s.items, id)
		if i < 0 {
			return false
		}
		e := &s.items[i]
		var field *string
		switch f {
		case FlagIcon:
			field = &e.Icon
		case FlagColor:
			field = &e.Color
		case FlagNote:
			field = &e.Note
		default:
			return false
		}
		value = strings.TrimSpace(value)
		if *field == value {
			return false
		}
		*field = value
		return true
	})
}

// MoveToGroup moves an entry into another scope, appended at its end.
// Groups cannot be nested; moving one into a group is a no-op.
func (s *Store) MoveToGroup(ctx context.Context, id, groupID string) bool {
	return s.mutate(ctx, "move", func() bool {
		i := indexOf(s.items, id)
		if i < 0 {
			return false
		}
		if groupID != "" && (!isGroup(s.items, groupID) || s.items[i].Kind == domain.KindGroup) {
			return false
		}
		old := s.items[i].GroupID
		if old == groupID {
			return false
		}

		s.items[i].Order = nextOrder(s.items, groupID)
		s.items[i].GroupID = groupID
		renumber(s.items, old, nil)

		s.log.Debug("entry moved",
			logger.String("id", id),
			logger.String("group", groupID))
		return true
	})
}

// Reorder applies a drag-and-drop gesture.
func (s *Store) Reorder(ctx context.Context, d Drop) bool {
	return s.mutate(ctx, "reorder", func() bool {
		next, ok := Reorder(s.items, d)
		if !ok {
			return false
		}
		s.items = next
		return true
	})
}

// Touch records an activation of the entry.
func (s *Store) Touch(ctx context.Context, id string) bool {
	return s.mutate(ctx, "touch", func() bool {
		i := indexOf(s.items, id)
		if i < 0 {
			return false
		}
		s.items[i].LastUsed = s.now().UnixMilli()
		return true
	})
}

// Duplicate copies an entry as "<label> (copy)", unpinned, at the end of its scope.
// Groups are copied without their children.
func (s *Store) Duplicate(ctx context.Context, id string) (domain.Entry, bool) {
	var dup domain.Entry
	ok := s.mutate(ctx, "duplicate", func() bool {
		src, found := find(s.items, id)
		if !found {
			return false
		}
		dup = src.Clone()
		dup.ID = s.newID()
		dup.Label = src.Label + " (copy)"
		dup.Pinned = false
		dup.LastUsed = 0
		dup.Order = nextOrder(s.items, dup.GroupID)
		s.items = append(s.items, dup)
		return true
	})
	return dup.Clone(), ok
}

// RemoveDeadLinks drops file entries whose path no longer exists.
func (s *Store) RemoveDeadLinks(ctx context.Context, exists func(path string) bool) []domain.Entry {
	return s.removeWhere(ctx, "dead-links", func(e domain.Entry, _ map[string]bool) bool {
		return e.Kind == domain.KindFile && e.Path != "" && !exists(e.Path)
	})
}

// RemoveDuplicates keeps the first entry of each identity and drops the rest.
func (s *Store) RemoveDuplicates(ctx context.Context) []domain.Entry {
	return s.removeWhere(ctx, "duplicates", func(e domain.Entry, seen map[string]bool) bool {
		key := domain.IdentityKey(e)
		if seen[key] {
			return true
		}
		seen[key] = true
		return false
	})
}

func (s *Store) removeWhere(ctx context.Context, op string, drop func(e domain.Entry, seen map[string]bool) bool) []domain.Entry {
	var removed []domain.Entry
	s.mutate(ctx, op, func() bool {
		seen := make(map[string]bool)
		kept := make([]domain.Entry, 0, len(s.items))
		scopes := make(map[string]bool)
		for _, e := range s.items {
			if drop(e, seen) {
				removed = append(removed, e)
				scopes[e.GroupID] = true
				continue
			}
			kept = append(kept, e)
		}
		if len(removed) == 0 {
			return false
		}

		// orphaned children of removed groups move to root
		gone := make(map[string]bool)
		for _, e := range removed {
			if e.Kind == domain.KindGroup {
				gone[e.ID] = true
			}
		}
		for i := range kept {
			if gone[kept[i].GroupID] {
				kept[i].GroupID = ""
				kept[i].Order = nextOrder(kept, "")
				scopes[""] = true
			}
		}

		s.items = kept
		for scope := range scopes {
			renumber(s.items, scope, nil)
		}
		s.log.Info("favorites cleaned",
			logger.String("op", op),
			logger.Int("removed", len(removed)))
		return true
	})
	return removed
}

// Clear removes every entry and returns how many were dropped.
func (s *Store) Clear(ctx context.Context) int {
	var n int
	s.mutate(ctx, "clear", func() bool {
		n = len(s.items)
		if n == 0 {
			return false
		}
		s.items = []domain.Entry{}
		return true
	})
	return n
}

// ResetStyles clears icon and color of one entry, or of all entries when id is empty.
func (s *Store) ResetStyles(ctx context.Context, id string) int {
	var n int
	s.mutate(ctx, "reset-styles", func() bool {
		for i := range s.items {
			if id != "" && s.items[i].ID != id {
				continue
			}
			if s.items[i].Icon != "" || s.items[i].Color != "" {
				s.items[i].Icon = ""
				s.items[i].Color = ""
				n++
			}
		}
		return n > 0
	})
	return n
}

// ─────────────────────────────
// Bulk operations
// ─────────────────────────────

// Transform replaces the collection with the result of fn computed from
// the current one. Unlike ordinary mutations it surfaces save failures.
func (s *Store) Transform(ctx context.Context, op string, fn func(live []domain.Entry) ([]domain.Entry, error)) error {
	return s.bulk(ctx, op, false, fn)
}

// ReplaceAll adopts entries as the whole collection. On a versioned
// backend it fails with storage.ErrConflict when the persisted
// collection changed since it was last read or written here.
func (s *Store) ReplaceAll(ctx context.Context, entries []domain.Entry) error {
	return s.bulk(ctx, "replace", true, func([]domain.Entry) ([]domain.Entry, error) {
		return entries, nil
	})
}

func (s *Store) bulk(ctx context.Context, op string, checkVersion bool, fn func([]domain.Entry) ([]domain.Entry, error)) error {
	s.mu.Lock()

	if checkVersion {
		if current := s.currentVersion(ctx); current != s.version {
			s.mu.Unlock()
			return fmt.Errorf("%s %s favorites: %w", op, s.scope, storage.ErrConflict)
		}
	}

	next, err := fn(domain.CloneAll(s.items))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if next == nil {
		next = []domain.Entry{}
	}

	prev := s.items
	s.items = next
	if err := s.save(ctx); err != nil {
		s.items = prev
		s.mu.Unlock()
		return err
	}
	s.undo = nil
	scope := s.scope
	s.mu.Unlock()

	s.log.Info("favorites replaced",
		logger.String("op", op),
		logger.Int("count", len(next)))
	s.notify(scope)
	return nil
}

// ─────────────────────────────
// Scope & external changes
// ─────────────────────────────

// SwitchScope makes another scope active and loads its collection.
func (s *Store) SwitchScope(ctx context.Context, scope storage.Scope) error {
	if _, err := storage.ParseScope(string(scope)); err != nil {
		return err
	}

	s.mu.Lock()
	if s.scope == scope {
		s.mu.Unlock()
		return nil
	}
	s.scope = scope
	// load failures are logged and leave the new scope empty
	_ = s.loadLocked(ctx)
	s.mu.Unlock()

	s.log.Info("storage scope switched", logger.String("scope", string(scope)))
	s.notify(scope)
	return nil
}

// Reload re-reads the persisted collection after an external change.
// A versioned collection whose version did not move is skipped. The
// reload overwrites in-memory state: last writer wins.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if v := s.currentVersion(ctx); v != "" && v == s.version {
		s.mu.Unlock()
		return false, nil
	}
	err := s.loadLocked(ctx)
	scope := s.scope
	s.mu.Unlock()

	s.notify(scope)
	return true, err
}

// Refresh drops the undo buffer and fires the invalidation signal.
func (s *Store) Refresh() {
	s.mu.Lock()
	s.undo = nil
	scope := s.scope
	s.mu.Unlock()

	s.notify(scope)
}
