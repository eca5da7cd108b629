package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/view"
)

const (
	// DefaultSweepInterval is how often dead links are checked
	DefaultSweepInterval = time.Hour
)

// Collection is the part of the item store the sweeper reads and prunes.
type Collection interface {
	Snapshot() []domain.Entry
	RemoveDeadLinks(ctx context.Context, exists func(path string) bool) []domain.Entry
}

// SlotPruner drops stale slot index entries from a KV backend.
type SlotPruner interface {
	Prune(ctx context.Context) (int, error)
}

// SweepResult reports one sweep
type SweepResult struct {
	Summary view.Summary
	Dead    []domain.Entry
	Removed int
}

// DeadLinkSweeper periodically checks file entries against the file
// system, logs the collection summary and optionally prunes dead links.
type DeadLinkSweeper struct {
	store    Collection
	probe    view.Probe
	slots    SlotPruner
	logger   logger.Logger
	interval time.Duration
	prune    bool
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewDeadLinkSweeper creates a new sweeper. slots may be nil.
func NewDeadLinkSweeper(
	store Collection,
	probe view.Probe,
	slots SlotPruner,
	log logger.Logger,
	interval time.Duration,
	prune bool,
) *DeadLinkSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &DeadLinkSweeper{
		store:    store,
		probe:    probe,
		slots:    slots,
		logger:   log,
		interval: interval,
		prune:    prune,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (s *DeadLinkSweeper) Start(ctx context.Context) error {
	// Run immediately on start
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep(ctx)
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the sweeper
func (s *DeadLinkSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Sweep runs one pass
func (s *DeadLinkSweeper) Sweep(ctx context.Context) SweepResult {
	entries := s.store.Snapshot()

	res := SweepResult{
		Summary: view.Summarize(entries, s.probe),
		Dead:    view.DeadLinks(entries, s.probe),
	}

	for _, e := range res.Dead {
		s.logger.Debug("dead link",
			logger.String("id", e.ID),
			logger.String("path", e.Path))
	}

	if s.prune && len(res.Dead) > 0 {
		removed := s.store.RemoveDeadLinks(ctx, s.probe.Exists)
		res.Removed = len(removed)
	}

	if s.slots != nil {
		n, err := s.slots.Prune(ctx)
		if err != nil {
			s.logger.Warn("failed to prune slot index", logger.Error(err))
		} else if n > 0 {
			s.logger.Info("pruned stale slot index entries", logger.Int("count", n))
		}
	}

	if len(res.Dead) > 0 {
		s.logger.Info("dead link sweep completed",
			logger.Int("favorites", res.Summary.Favorites),
			logger.Int("missing", len(res.Dead)),
			logger.Int("removed", res.Removed))
	} else {
		s.logger.Debug("no dead links",
			logger.Int("favorites", res.Summary.Favorites))
	}

	return res
}
