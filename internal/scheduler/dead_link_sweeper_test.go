package scheduler

import (
	"context"
	"testing"

	"github.com/spf13/afero"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/favorites"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/storage"
	"github.com/MrSnakeDoc/favlauncher/internal/view"
)

type countingPruner struct {
	calls int
}

func (p *countingPruner) Prune(context.Context) (int, error) {
	p.calls++
	return 1, nil
}

func newSweepStore(t *testing.T) *favorites.Store {
	t.Helper()
	ctx := context.Background()
	backend := storage.NewSlotBackend(storage.NewMemoryKV(), "/repo")
	seed := []domain.Entry{
		{ID: "live", Kind: domain.KindFile, Label: "live", Path: "/repo/live.go", Order: 0},
		{ID: "dead", Kind: domain.KindFile, Label: "dead", Path: "/repo/dead.go", Order: 1},
		{ID: "cmd", Kind: domain.KindCommand, Label: "cmd", CommandID: "x", Order: 2},
	}
	if err := backend.Save(ctx, storage.ScopeWorkspace, seed); err != nil {
		t.Fatal(err)
	}
	s := favorites.New(backend, storage.ScopeWorkspace, logger.New("error", false))
	if err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}
	return s
}

func newProbe(t *testing.T) view.Probe {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/repo/live.go", []byte("package x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return view.NewFSProbe(fs)
}

func TestDeadLinkSweeper_ReportOnly(t *testing.T) {
	store := newSweepStore(t)
	pruner := &countingPruner{}
	s := NewDeadLinkSweeper(store, newProbe(t), pruner, logger.New("error", false), 0, false)

	res := s.Sweep(context.Background())

	if len(res.Dead) != 1 || res.Dead[0].ID != "dead" {
		t.Fatalf("Dead = %+v, want only 'dead'", res.Dead)
	}
	if res.Removed != 0 || store.Len() != 3 {
		t.Errorf("report-only sweep removed entries: removed=%d len=%d", res.Removed, store.Len())
	}
	if res.Summary.Favorites != 3 || res.Summary.Missing != 1 {
		t.Errorf("Summary = %+v", res.Summary)
	}
	if pruner.calls != 1 {
		t.Errorf("slot pruner calls = %d, want 1", pruner.calls)
	}
}

func TestDeadLinkSweeper_Prune(t *testing.T) {
	store := newSweepStore(t)
	s := NewDeadLinkSweeper(store, newProbe(t), nil, logger.New("error", false), 0, true)

	res := s.Sweep(context.Background())

	if res.Removed != 1 {
		t.Errorf("Removed = %d, want 1", res.Removed)
	}
	if _, ok := store.Get("dead"); ok {
		t.Error("dead entry should be pruned")
	}
	cmd, ok := store.Get("cmd")
	if !ok || cmd.Order != 1 {
		t.Errorf("cmd = %+v, want renumbered to 1", cmd)
	}
}

func TestDeadLinkSweeper_StartStop(t *testing.T) {
	store := newSweepStore(t)
	s := NewDeadLinkSweeper(store, newProbe(t), nil, logger.New("error", false), 0, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()
	s.Stop()
}
