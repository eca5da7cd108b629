package launch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/MrSnakeDoc/favlauncher/internal/command"
	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/view"
)

var (
	ErrNotFound      = errors.New("entry not found")
	ErrNotLaunchable = errors.New("entry cannot be launched")
	ErrNoPinned      = errors.New("no pinned favorite in slot")
	ErrNoFiles       = errors.New("group has no file entries")
)

// MaxPinnedSlot is the highest quick-launch slot.
const MaxPinnedSlot = 9

// Entries is the slice of the item store the launcher needs.
type Entries interface {
	Get(id string) (domain.Entry, bool)
	Snapshot() []domain.Entry
	Touch(ctx context.Context, id string) bool
}

// MacroRunner executes macro entries.
type MacroRunner interface {
	Run(ctx context.Context, e domain.Entry) error
}

type ActionKind string

const (
	ActionOpen      ActionKind = "open"
	ActionWorkspace ActionKind = "openWorkspace"
	ActionCommand   ActionKind = "command"
	ActionMacro     ActionKind = "macro"
)

// Action describes what an activation did. Open actions are carried out
// by the caller, which owns the editor surface.
type Action struct {
	Kind    ActionKind `json:"kind"`
	EntryID string     `json:"entryId"`
	Label   string     `json:"label"`
	Path    string     `json:"path,omitempty"`
	IsDir   bool       `json:"isDirectory,omitempty"`
	Missing bool       `json:"missing,omitempty"`
}

type Launcher struct {
	entries    Entries
	dispatcher command.Dispatcher
	macros     MacroRunner
	probe      view.Probe
	log        logger.Logger
}

func New(entries Entries, d command.Dispatcher, macros MacroRunner, probe view.Probe, log logger.Logger) *Launcher {
	return &Launcher{
		entries:    entries,
		dispatcher: d,
		macros:     macros,
		probe:      probe,
		log:        log,
	}
}

// Launch activates the entry with the given id.
func (l *Launcher) Launch(ctx context.Context, id string) (Action, error) {
	e, ok := l.entries.Get(id)
	if !ok {
		return Action{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return l.activate(ctx, e)
}

// LaunchPinned activates the n-th pinned favorite, 1-based, in manual order.
func (l *Launcher) LaunchPinned(ctx context.Context, n int) (Action, error) {
	if n < 1 || n > MaxPinnedSlot {
		return Action{}, fmt.Errorf("%w: %d", ErrNoPinned, n)
	}
	pinned := view.PinnedTargets(l.entries.Snapshot())
	if n > len(pinned) {
		return Action{}, fmt.Errorf("%w: %d", ErrNoPinned, n)
	}
	return l.activate(ctx, pinned[n-1])
}

// OpenGroup returns one open action per file child of a group, in
// manual order. Nothing is touched: the caller opens the files.
func (l *Launcher) OpenGroup(id string) ([]Action, error) {
	g, ok := l.entries.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if g.Kind != domain.KindGroup {
		return nil, fmt.Errorf("%w: %s is a %s, not a group", ErrNotLaunchable, id, g.Kind)
	}

	var files []domain.Entry
	for _, e := range l.entries.Snapshot() {
		if e.GroupID == g.ID && e.Kind == domain.KindFile && e.Path != "" {
			files = append(files, e)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoFiles, g.Label)
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].Order < files[j].Order })

	actions := make([]Action, 0, len(files))
	for _, e := range files {
		st, ok := l.probe.Stat(e.Path)
		actions = append(actions, Action{
			Kind:    ActionOpen,
			EntryID: e.ID,
			Label:   e.Label,
			Path:    e.Path,
			IsDir:   st.IsDir,
			Missing: !ok,
		})
	}

	l.log.Info("group opened",
		logger.String("id", g.ID),
		logger.String("label", g.Label),
		logger.Int("files", len(actions)))
	return actions, nil
}

// RunStartup activates the startup entry after delay. A missing id is
// skipped silently. Blocks until done or ctx ends during the delay.
func (l *Launcher) RunStartup(ctx context.Context, id string, delay time.Duration) error {
	if id == "" {
		return nil
	}
	if _, ok := l.entries.Get(id); !ok {
		l.log.Warn("startup entry not found", logger.String("id", id))
		return nil
	}

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return nil
	case <-t.C:
	}

	a, err := l.Launch(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("startup entry: %w", err)
	}
	l.log.Info("startup entry launched",
		logger.String("id", id),
		logger.String("kind", string(a.Kind)))
	return nil
}

func (l *Launcher) activate(ctx context.Context, e domain.Entry) (Action, error) {
	a := Action{EntryID: e.ID, Label: e.Label}

	switch e.Kind {
	case domain.KindFile:
		l.entries.Touch(ctx, e.ID)
		st, ok := l.probe.Stat(e.Path)
		a.Kind = ActionOpen
		a.Path = e.Path
		a.IsDir = st.IsDir
		a.Missing = !ok

	case domain.KindWorkspace:
		l.entries.Touch(ctx, e.ID)
		a.Kind = ActionWorkspace
		a.Path = e.WorkspacePath
		a.Missing = !l.probe.Exists(e.WorkspacePath)

	case domain.KindCommand:
		l.entries.Touch(ctx, e.ID)
		a.Kind = ActionCommand
		if err := l.dispatcher.Invoke(ctx, e.CommandID, e.Args...); err != nil {
			return a, fmt.Errorf("command %s: %w", e.CommandID, err)
		}

	case domain.KindMacro:
		a.Kind = ActionMacro
		if err := l.macros.Run(ctx, e); err != nil {
			return a, err
		}

	default:
		return Action{}, fmt.Errorf("%w: %s is a %s", ErrNotLaunchable, e.ID, e.Kind)
	}

	l.log.Debug("entry launched",
		logger.String("id", e.ID),
		logger.String("kind", string(a.Kind)))
	return a, nil
}
