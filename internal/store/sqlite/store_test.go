package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/storage"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestGetPutKeys(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "b", []byte("one")))
	require.NoError(t, s.Put(ctx, "a", []byte("x")))
	require.NoError(t, s.Put(ctx, "b", []byte("two")))

	data, ok, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", string(data))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	backend := storage.NewSlotBackend(s, "/repo")
	want := []domain.Entry{{ID: "a", Kind: domain.KindCommand, Label: "build", CommandID: "task.build"}}
	require.NoError(t, backend.Save(ctx, storage.ScopeWorkspace, want))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := storage.NewSlotBackend(s, "/repo").Load(ctx, storage.ScopeWorkspace)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
