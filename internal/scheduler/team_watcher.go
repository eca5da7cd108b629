package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/storage"
)

// DefaultWatchDebounce is the quiet period before a team file change is applied.
const DefaultWatchDebounce = 200 * time.Millisecond

// Reloader re-reads the active collection after an external change.
type Reloader interface {
	Scope() storage.Scope
	Reload(ctx context.Context) (bool, error)
}

// TeamWatcher reloads the team collection when its file changes on disk.
// The reload overwrites in-memory state: last writer wins.
type TeamWatcher struct {
	path          string
	store         Reloader
	logger        logger.Logger
	debounce      time.Duration
	manualTrigger chan struct{}
	stopCh        chan struct{}
	stopOnce      sync.Once

	fsw *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// NewTeamWatcher creates a watcher for the team file at path
func NewTeamWatcher(
	path string,
	store Reloader,
	log logger.Logger,
	debounce time.Duration,
	manualTrigger chan struct{},
) *TeamWatcher {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &TeamWatcher{
		path:          filepath.Clean(path),
		store:         store,
		logger:        log,
		debounce:      debounce,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
	}
}

// Start begins watching. The file's directory is watched so atomic
// renames are seen; when it does not exist yet its parent is watched
// until it appears.
func (tw *TeamWatcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	tw.fsw = fsw

	dir := filepath.Dir(tw.path)
	target := dir
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		target = filepath.Dir(dir)
		tw.logger.Debug("team directory missing, watching parent",
			logger.String("dir", dir))
	}
	if err := fsw.Add(target); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", target, err)
	}

	tw.logger.Info("team file watcher started", logger.String("path", tw.path))

	go func() {
		defer fsw.Close()
		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				tw.handle(ctx, ev)
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				tw.logger.Error("fsnotify error", logger.Error(err))
			case <-tw.manualTrigger:
				tw.logger.Info("manual team reload triggered")
				tw.reload(ctx)
			case <-tw.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the watcher
func (tw *TeamWatcher) Stop() {
	tw.stopOnce.Do(func() {
		close(tw.stopCh)
		tw.mu.Lock()
		if tw.timer != nil {
			tw.timer.Stop()
		}
		tw.mu.Unlock()
	})
}

func (tw *TeamWatcher) handle(ctx context.Context, ev fsnotify.Event) {
	name := filepath.Clean(ev.Name)

	// the team directory appeared under the watched parent
	if ev.Has(fsnotify.Create) && name == filepath.Dir(tw.path) {
		if err := tw.fsw.Add(name); err != nil {
			tw.logger.Warn("failed to watch team directory", logger.Error(err))
		}
		return
	}
	if name != tw.path {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return
	}

	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timer != nil {
		tw.timer.Stop()
	}
	tw.timer = time.AfterFunc(tw.debounce, func() { tw.reload(ctx) })
}

func (tw *TeamWatcher) reload(ctx context.Context) {
	select {
	case <-tw.stopCh:
		return
	default:
	}
	if tw.store.Scope() != storage.ScopeTeam {
		return
	}

	changed, err := tw.store.Reload(ctx)
	if err != nil {
		tw.logger.Warn("failed to reload team favorites", logger.Error(err))
		return
	}
	if changed {
		tw.logger.Info("team favorites reloaded", logger.String("path", tw.path))
	}
}
