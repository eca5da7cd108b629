package macro

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/favlauncher/internal/command"
	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
)

// DefaultStepDelay is the pause after each terminal step. The shell
// gives no completion signal, so this is a heuristic.
const DefaultStepDelay = 300 * time.Millisecond

var (
	ErrNotMacro = errors.New("entry is not a macro")
	ErrNoSteps  = errors.New("macro has no steps")
)

// Terminal is an interactive shell fed one line at a time.
type Terminal interface {
	Send(text string) error
	Alive() bool
}

// TerminalFactory opens a new terminal session.
type TerminalFactory func() (Terminal, error)

// Toucher records an activation of an entry.
type Toucher interface {
	Touch(ctx context.Context, id string) bool
}

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhaseFailed  Phase = "failed"
)

// State is a snapshot of the runner state machine.
type State struct {
	Phase   Phase  `json:"phase"`
	EntryID string `json:"entryId,omitempty"`
	Step    int    `json:"step"`
	Error   string `json:"error,omitempty"`
}

// Runner executes macro entries step by step, one run at a time.
type Runner struct {
	dispatcher  command.Dispatcher
	newTerminal TerminalFactory
	toucher     Toucher
	log         logger.Logger

	delay time.Duration
	sleep func(time.Duration)

	run sync.Mutex

	tmu  sync.Mutex
	term Terminal

	smu      sync.RWMutex
	state    State
	onChange func(State)
}

type Option func(*Runner)

// WithDelay overrides the pause after terminal steps.
func WithDelay(d time.Duration) Option {
	return func(r *Runner) { r.delay = d }
}

// WithStateListener registers fn to receive every state transition.
// fn runs on the macro goroutine and must not block.
func WithStateListener(fn func(State)) Option {
	return func(r *Runner) { r.onChange = fn }
}

// WithSleep overrides how the runner waits between steps.
func WithSleep(sleep func(time.Duration)) Option {
	return func(r *Runner) { r.sleep = sleep }
}

func NewRunner(d command.Dispatcher, terminals TerminalFactory, t Toucher, log logger.Logger, opts ...Option) *Runner {
	r := &Runner{
		dispatcher:  d,
		newTerminal: terminals,
		toucher:     t,
		log:         log,
		delay:       DefaultStepDelay,
		sleep:       time.Sleep,
		state:       State{Phase: PhaseIdle},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current state.
func (r *Runner) State() State {
	r.smu.RLock()
	defer r.smu.RUnlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.smu.Lock()
	r.state = s
	fn := r.onChange
	r.smu.Unlock()

	if fn != nil {
		fn(s)
	}
}

// Run executes the steps of a macro entry in order. lastUsed is
// recorded before the first step. The first failing step stops the
// run and its error is returned wrapped with the step index.
// A started run is never cancelled by ctx.
func (r *Runner) Run(ctx context.Context, e domain.Entry) error {
	if e.Kind != domain.KindMacro {
		return fmt.Errorf("%w: %s", ErrNotMacro, e.ID)
	}
	steps := e.Steps()
	if len(steps) == 0 {
		return fmt.Errorf("%w: %s", ErrNoSteps, e.ID)
	}

	ctx = context.WithoutCancel(ctx)

	r.run.Lock()
	defer r.run.Unlock()

	if r.toucher != nil {
		r.toucher.Touch(ctx, e.ID)
	}

	r.log.Info("macro started",
		logger.String("id", e.ID),
		logger.String("label", e.Label),
		logger.Int("steps", len(steps)))
	start := time.Now()

	for i, step := range steps {
		r.setState(State{Phase: PhaseRunning, EntryID: e.ID, Step: i})

		if err := r.exec(ctx, step); err != nil {
			err = fmt.Errorf("macro step %d (%s): %w", i, step.Summary(), err)
			r.setState(State{Phase: PhaseFailed, EntryID: e.ID, Step: i, Error: err.Error()})
			r.log.Warn("macro failed",
				logger.String("id", e.ID),
				logger.Int("step", i),
				logger.Error(err))
			return err
		}
	}

	r.setState(State{Phase: PhaseIdle})
	r.log.Info("macro finished",
		logger.String("id", e.ID),
		logger.Duration("duration", time.Since(start)))
	return nil
}

func (r *Runner) exec(ctx context.Context, step domain.MacroStep) error {
	switch step.Kind {
	case domain.StepCommand:
		return r.dispatcher.Invoke(ctx, step.CommandID)
	case domain.StepTerminal:
		term, err := r.terminal()
		if err != nil {
			return err
		}
		if err := term.Send(step.Text); err != nil {
			return err
		}
		r.sleep(r.delay)
		return nil
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

// terminal returns the live session, opening a new one when none is
// open or the previous one exited.
func (r *Runner) terminal() (Terminal, error) {
	r.tmu.Lock()
	defer r.tmu.Unlock()

	if r.term != nil && r.term.Alive() {
		return r.term, nil
	}
	if r.newTerminal == nil {
		return nil, errors.New("no terminal available")
	}
	t, err := r.newTerminal()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	r.term = t
	return t, nil
}

// Close releases the terminal session when it supports closing.
func (r *Runner) Close() error {
	r.tmu.Lock()
	defer r.tmu.Unlock()

	if r.term == nil {
		return nil
	}
	t := r.term
	r.term = nil
	if c, ok := t.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
