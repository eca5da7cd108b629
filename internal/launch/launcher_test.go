package launch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/MrSnakeDoc/favlauncher/internal/command"
	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/favorites"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/storage"
	"github.com/MrSnakeDoc/favlauncher/internal/view"
)

type macroRecorder struct {
	ran []string
	err error
}

func (m *macroRecorder) Run(_ context.Context, e domain.Entry) error {
	m.ran = append(m.ran, e.ID)
	return m.err
}

type fixture struct {
	store    *favorites.Store
	reg      *command.Registry
	macros   *macroRecorder
	launcher *Launcher
	invoked  [][]any
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/repo/README.md", []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fs.MkdirAll("/repo/docs", 0o755); err != nil {
		t.Fatal(err)
	}

	backend := storage.NewSlotBackend(storage.NewMemoryKV(), "/repo")
	seed := []domain.Entry{
		{ID: "f1", Kind: domain.KindFile, Label: "readme", Path: "/repo/README.md", Order: 0, Pinned: true},
		{ID: "d1", Kind: domain.KindFile, Label: "docs", Path: "/repo/docs", Order: 1},
		{ID: "gone", Kind: domain.KindFile, Label: "gone", Path: "/repo/gone.txt", Order: 2},
		{ID: "c1", Kind: domain.KindCommand, Label: "fmt", CommandID: "editor.format", Args: []any{"x"}, Order: 3, Pinned: true},
		{ID: "g1", Kind: domain.KindGroup, Label: "G", Order: 4, Pinned: true},
		{ID: "m1", Kind: domain.KindMacro, Label: "m", MacroSteps: []domain.MacroStep{domain.CommandStep("a")}, Order: 5, Pinned: true},
		{ID: "w1", Kind: domain.KindWorkspace, Label: "ws", WorkspacePath: "/repo", Order: 6},
		{ID: "s1", Kind: domain.KindSeparator, Order: 7},
	}
	if err := backend.Save(ctx, storage.ScopeWorkspace, seed); err != nil {
		t.Fatal(err)
	}

	f := &fixture{reg: command.NewRegistry(), macros: &macroRecorder{}}
	f.store = favorites.New(backend, storage.ScopeWorkspace, logger.New("error", false),
		favorites.WithClock(func() time.Time { return time.UnixMilli(42) }))
	if err := f.store.Load(ctx); err != nil {
		t.Fatal(err)
	}
	f.reg.Register("editor.format", func(_ context.Context, args ...any) error {
		f.invoked = append(f.invoked, args)
		return nil
	})
	f.launcher = New(f.store, f.reg, f.macros, view.NewFSProbe(fs), logger.New("error", false))
	return f
}

func TestLaunchKinds(t *testing.T) {
	tests := []struct {
		id      string
		want    Action
		touched bool
	}{
		{id: "f1", want: Action{Kind: ActionOpen, EntryID: "f1", Label: "readme", Path: "/repo/README.md"}, touched: true},
		{id: "d1", want: Action{Kind: ActionOpen, EntryID: "d1", Label: "docs", Path: "/repo/docs", IsDir: true}, touched: true},
		{id: "gone", want: Action{Kind: ActionOpen, EntryID: "gone", Label: "gone", Path: "/repo/gone.txt", Missing: true}, touched: true},
		{id: "w1", want: Action{Kind: ActionWorkspace, EntryID: "w1", Label: "ws", Path: "/repo"}, touched: true},
		{id: "c1", want: Action{Kind: ActionCommand, EntryID: "c1", Label: "fmt"}, touched: true},
		{id: "m1", want: Action{Kind: ActionMacro, EntryID: "m1", Label: "m"}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			f := newFixture(t)
			got, err := f.launcher.Launch(context.Background(), tt.id)
			if err != nil {
				t.Fatalf("Launch() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Launch() = %+v, want %+v", got, tt.want)
			}
			e, _ := f.store.Get(tt.id)
			if tt.touched && e.LastUsed != 42 {
				t.Errorf("lastUsed = %d, want 42", e.LastUsed)
			}
		})
	}
}

func TestLaunchCommandPassesArgs(t *testing.T) {
	f := newFixture(t)
	if _, err := f.launcher.Launch(context.Background(), "c1"); err != nil {
		t.Fatal(err)
	}
	if len(f.invoked) != 1 || len(f.invoked[0]) != 1 || f.invoked[0][0] != "x" {
		t.Errorf("invoked = %v", f.invoked)
	}
}

func TestLaunchErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.launcher.Launch(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Launch(missing) = %v, want ErrNotFound", err)
	}
	for _, id := range []string{"g1", "s1"} {
		if _, err := f.launcher.Launch(ctx, id); !errors.Is(err, ErrNotLaunchable) {
			t.Errorf("Launch(%s) = %v, want ErrNotLaunchable", id, err)
		}
	}

	f.macros.err = errors.New("step failed")
	if _, err := f.launcher.Launch(ctx, "m1"); err == nil {
		t.Error("macro failure should propagate")
	}
}

func TestLaunchPinned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// pinned launchable in order: f1, c1, m1 (g1 is a group)
	for n, want := range map[int]string{1: "f1", 2: "c1", 3: "m1"} {
		a, err := f.launcher.LaunchPinned(ctx, n)
		if err != nil {
			t.Fatalf("LaunchPinned(%d) error = %v", n, err)
		}
		if a.EntryID != want {
			t.Errorf("LaunchPinned(%d) = %s, want %s", n, a.EntryID, want)
		}
	}
	for _, n := range []int{0, 4, 10} {
		if _, err := f.launcher.LaunchPinned(ctx, n); !errors.Is(err, ErrNoPinned) {
			t.Errorf("LaunchPinned(%d) = %v, want ErrNoPinned", n, err)
		}
	}
}

func TestRunStartup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.launcher.RunStartup(ctx, "", time.Millisecond); err != nil {
		t.Errorf("empty id: %v", err)
	}
	if err := f.launcher.RunStartup(ctx, "missing", time.Millisecond); err != nil {
		t.Errorf("missing id: %v", err)
	}
	if err := f.launcher.RunStartup(ctx, "m1", time.Millisecond); err != nil {
		t.Fatalf("RunStartup() error = %v", err)
	}
	if len(f.macros.ran) != 1 {
		t.Errorf("macro runs = %v", f.macros.ran)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := f.launcher.RunStartup(cancelled, "m1", time.Hour); err != nil {
		t.Errorf("cancelled startup: %v", err)
	}
	if len(f.macros.ran) != 1 {
		t.Error("cancelled startup should not launch")
	}
}

func TestOpenGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	readme, _ := f.store.Add(ctx, domain.Entry{Kind: domain.KindFile, Path: "/repo/README.md", GroupID: "g1"})
	f.store.Add(ctx, domain.Entry{Kind: domain.KindCommand, CommandID: "editor.format", GroupID: "g1"})
	f.store.Add(ctx, domain.Entry{Kind: domain.KindSeparator, GroupID: "g1"})
	lost, _ := f.store.Add(ctx, domain.Entry{Kind: domain.KindFile, Path: "/repo/lost.md", GroupID: "g1"})
	empty, _ := f.store.Add(ctx, domain.Entry{Kind: domain.KindGroup, Label: "Empty"})

	got, err := f.launcher.OpenGroup("g1")
	if err != nil {
		t.Fatalf("OpenGroup() error = %v", err)
	}
	want := []Action{
		{Kind: ActionOpen, EntryID: readme.ID, Label: readme.Label, Path: "/repo/README.md"},
		{Kind: ActionOpen, EntryID: lost.ID, Label: lost.Label, Path: "/repo/lost.md", Missing: true},
	}
	if len(got) != len(want) {
		t.Fatalf("OpenGroup() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OpenGroup()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if e, _ := f.store.Get(readme.ID); e.LastUsed != 0 {
		t.Errorf("opening a group should not touch its files, lastUsed = %d", e.LastUsed)
	}

	errs := map[string]error{
		"missing": ErrNotFound,
		"f1":      ErrNotLaunchable,
		empty.ID:  ErrNoFiles,
	}
	for id, want := range errs {
		if _, err := f.launcher.OpenGroup(id); !errors.Is(err, want) {
			t.Errorf("OpenGroup(%s) = %v, want %v", id, err, want)
		}
	}
}
