package macro

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/favlauncher/internal/command"
	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
)

type fakeTerminal struct {
	log   *[]string
	alive bool
}

func (f *fakeTerminal) Send(text string) error {
	*f.log = append(*f.log, "term:"+text)
	return nil
}

func (f *fakeTerminal) Alive() bool { return f.alive }

type touchRecorder struct {
	log *[]string
}

func (t touchRecorder) Touch(_ context.Context, id string) bool {
	*t.log = append(*t.log, "touch:"+id)
	return true
}

type fixture struct {
	calls     []string
	opened    int
	terminals []*fakeTerminal
	reg       *command.Registry
	runner    *Runner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{reg: command.NewRegistry()}

	for _, id := range []string{"a", "b", "c"} {
		id := id
		f.reg.Register(id, func(context.Context, ...any) error {
			f.calls = append(f.calls, "cmd:"+id)
			return nil
		})
	}
	f.reg.Register("boom", func(context.Context, ...any) error {
		f.calls = append(f.calls, "cmd:boom")
		return errors.New("boom")
	})

	factory := func() (Terminal, error) {
		f.opened++
		term := &fakeTerminal{log: &f.calls, alive: true}
		f.terminals = append(f.terminals, term)
		return term, nil
	}
	sleep := func(d time.Duration) { f.calls = append(f.calls, "sleep:"+d.String()) }

	f.runner = NewRunner(f.reg, factory, touchRecorder{log: &f.calls}, logger.New("error", false),
		WithDelay(300*time.Millisecond), WithSleep(sleep))
	return f
}

func macroEntry(steps ...domain.MacroStep) domain.Entry {
	return domain.Entry{ID: "m1", Kind: domain.KindMacro, Label: "m", MacroSteps: steps}
}

func TestRunSequencesSteps(t *testing.T) {
	f := newFixture(t)

	e := macroEntry(
		domain.CommandStep("a"),
		domain.TerminalStep("echo hi"),
		domain.CommandStep("b"),
	)
	if err := f.runner.Run(context.Background(), e); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"touch:m1", "cmd:a", "term:echo hi", "sleep:300ms", "cmd:b"}
	if strings.Join(f.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", f.calls, want)
	}
	if st := f.runner.State(); st.Phase != PhaseIdle {
		t.Errorf("state = %+v, want idle", st)
	}
}

func TestRunFailsFast(t *testing.T) {
	f := newFixture(t)

	e := macroEntry(domain.CommandStep("a"), domain.CommandStep("boom"), domain.CommandStep("c"))
	err := f.runner.Run(context.Background(), e)
	if err == nil || !strings.Contains(err.Error(), "macro step 1") {
		t.Fatalf("Run() error = %v, want failure at step 1", err)
	}

	want := []string{"touch:m1", "cmd:a", "cmd:boom"}
	if strings.Join(f.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", f.calls, want)
	}
	st := f.runner.State()
	if st.Phase != PhaseFailed || st.Step != 1 || st.EntryID != "m1" {
		t.Errorf("state = %+v, want failed at 1", st)
	}
}

func TestRunUnknownCommandPropagates(t *testing.T) {
	f := newFixture(t)

	err := f.runner.Run(context.Background(), macroEntry(domain.CommandStep("nope")))
	if !errors.Is(err, command.ErrUnknownCommand) {
		t.Errorf("Run() error = %v, want ErrUnknownCommand", err)
	}
}

func TestRunReusesLiveTerminal(t *testing.T) {
	f := newFixture(t)

	e := macroEntry(domain.TerminalStep("one"), domain.TerminalStep("two"))
	if err := f.runner.Run(context.Background(), e); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := f.runner.Run(context.Background(), e); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if f.opened != 1 {
		t.Errorf("terminals opened = %d, want 1", f.opened)
	}

	f.terminals[0].alive = false
	if err := f.runner.Run(context.Background(), e); err != nil {
		t.Fatalf("Run() after exit error = %v", err)
	}
	if f.opened != 2 {
		t.Errorf("terminals opened = %d, want 2 after the first exited", f.opened)
	}
}

func TestRunLegacyCommands(t *testing.T) {
	f := newFixture(t)

	e := domain.Entry{ID: "m1", Kind: domain.KindMacro, Label: "m", MacroCommands: []string{"a", "b"}}
	if err := f.runner.Run(context.Background(), e); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(f.calls) != 3 || f.calls[2] != "cmd:b" {
		t.Errorf("calls = %v", f.calls)
	}
}

func TestRunRejectsNonMacro(t *testing.T) {
	f := newFixture(t)

	err := f.runner.Run(context.Background(), domain.Entry{ID: "x", Kind: domain.KindFile, Path: "/x"})
	if !errors.Is(err, ErrNotMacro) {
		t.Errorf("Run() error = %v, want ErrNotMacro", err)
	}
	if err := f.runner.Run(context.Background(), domain.Entry{ID: "m", Kind: domain.KindMacro}); !errors.Is(err, ErrNoSteps) {
		t.Errorf("Run(empty) error = %v, want ErrNoSteps", err)
	}
	if len(f.calls) != 0 {
		t.Errorf("rejected runs should not touch: %v", f.calls)
	}
}

func TestRunIgnoresCancellation(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	f.reg.Register("cancel", func(ctx context.Context, _ ...any) error {
		cancel()
		return nil
	})
	f.reg.Register("check", func(ctx context.Context, _ ...any) error {
		return ctx.Err()
	})

	if err := f.runner.Run(ctx, macroEntry(domain.CommandStep("cancel"), domain.CommandStep("check"))); err != nil {
		t.Errorf("Run() error = %v, want run to ignore cancellation", err)
	}
}

func TestRunReportsStateTransitions(t *testing.T) {
	var seen []string
	reg := command.NewRegistry()
	reg.Register("a", func(context.Context, ...any) error { return nil })
	r := NewRunner(reg, nil, nil, logger.New("error", false),
		WithStateListener(func(s State) {
			seen = append(seen, string(s.Phase)+":"+s.EntryID)
		}))

	if err := r.Run(context.Background(), macroEntry(domain.CommandStep("a"), domain.CommandStep("a"))); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := "running:m1,running:m1,idle:"
	if got := strings.Join(seen, ","); got != want {
		t.Errorf("transitions = %s, want %s", got, want)
	}
}
