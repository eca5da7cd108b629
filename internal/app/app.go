package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/favlauncher/internal/command"
	"github.com/MrSnakeDoc/favlauncher/internal/config"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/events"
	"github.com/MrSnakeDoc/favlauncher/internal/launch"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/macro"
	"github.com/MrSnakeDoc/favlauncher/internal/scheduler"
	"github.com/MrSnakeDoc/favlauncher/internal/shell"
	"github.com/MrSnakeDoc/favlauncher/internal/sources/preset"
	"github.com/MrSnakeDoc/favlauncher/internal/storage"
	"github.com/MrSnakeDoc/favlauncher/internal/utils"
	"github.com/MrSnakeDoc/favlauncher/internal/version"
	"github.com/MrSnakeDoc/favlauncher/internal/view"
)

// App is the long-running launcher service.
type App struct {
	cfg      *config.Config
	logger   logger.Logger
	core     *Core
	server   *httpserver.Server
	hub      *events.Hub
	runner   *macro.Runner
	launcher *launch.Launcher
	watcher  *scheduler.TeamWatcher
	sweeper  *scheduler.DeadLinkSweeper
}

// New opens the core and wires the service around it.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	core, err := OpenCore(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	if cfg.PresetFile != "" {
		applyPreset(ctx, core)
	}

	hub := events.NewHub(loggerClient.Named("events"))
	core.Store.OnChange(func(scope storage.Scope) {
		hub.Publish(events.Event{Type: events.TypeInvalidate, Scope: string(scope)})
	})

	// Create manual reload trigger channel
	teamTrigger := make(chan struct{}, 1)

	registry := command.NewRegistry()
	registerBuiltins(registry, core, teamTrigger)

	terminals := func() (macro.Terminal, error) {
		s, err := shell.Start(shell.Options{Shell: cfg.Shell, Dir: cfg.WorkspaceDir}, loggerClient.Named("shell"))
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	runner := macro.NewRunner(registry, terminals, core.Store, loggerClient.Named("macro"),
		macro.WithDelay(cfg.MacroStepDelay),
		macro.WithStateListener(func(s macro.State) {
			hub.Publish(events.Event{Type: events.TypeMacro, Data: s})
		}))

	launcher := launch.New(core.Store, registry, runner, core.Probe, loggerClient.Named("launch"))

	schedLog := loggerClient.Named("scheduler")
	watcher := scheduler.NewTeamWatcher(cfg.TeamFile(), core.Store, schedLog, cfg.WatchDebounce, teamTrigger)
	sweeper := scheduler.NewDeadLinkSweeper(core.Store, core.Probe, core.pruner, schedLog,
		cfg.DeadLinkInterval, cfg.PruneDeadLinks)

	sortMode, _ := view.ParseSort(cfg.SortOrder)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:             loggerClient,
		StartTime:          time.Now(),
		Version:            version.Version,
		Commit:             version.Commit,
		BuildDate:          version.BuildDate,
		GoVersion:          version.GoVersion,
		TimeNow:            time.Now,
		AllowedHosts:       cfg.AllowedHosts,
		AllowedCIDRS:       cfg.AllowedCIDRS,
		TrustProxy:         cfg.TrustProxy,
		LaunchBurst:        cfg.LaunchBurst,
		LaunchRefillPerMin: cfg.LaunchRefillPerMin,
		Store:              core.Store,
		Projector:          view.NewProjector(core.Probe),
		Probe:              core.Probe,
		Launcher:           launcher,
		Macros:             runner,
		Commands:           registry,
		Hub:                hub,
		ViewDefaults: view.Options{
			Sort:        sortMode,
			ShowRecent:  cfg.ShowRecent,
			RecentLimit: cfg.RecentLimit,
		},
		TeamReloadTrigger: teamTrigger,
		Ping:              core.Ping,
	}

	if !utils.IsLoopback(cfg.ListenPort) && len(cfg.AllowedCIDRS) == 0 {
		loggerClient.Warn("API reachable beyond loopback without FAV_ALLOWED_CIDRS",
			logger.String("listen", cfg.ListenPort))
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		core:     core,
		server:   httpserver.New(cfg, loggerClient.Named("http"), d),
		hub:      hub,
		runner:   runner,
		launcher: launcher,
		watcher:  watcher,
		sweeper:  sweeper,
	}, nil
}

// applyPreset merges the configured preset. Failures are logged, the
// service starts with the collection it has.
func applyPreset(ctx context.Context, core *Core) {
	cfg := core.Config
	vars := map[string]string{"WORKSPACE": cfg.WorkspaceDir}
	if home, err := os.UserHomeDir(); err == nil {
		vars["HOME"] = home
	}

	p, err := preset.NewLoader(core.Fs, cfg.PresetFile, vars).Load()
	if err != nil {
		core.Logger.Warn("failed to load preset", logger.String("file", cfg.PresetFile), logger.Error(err))
		return
	}
	entries, err := preset.NewMapper(cfg.WorkspaceDir).Map(p)
	if err != nil {
		core.Logger.Warn("failed to map preset", logger.String("file", cfg.PresetFile), logger.Error(err))
		return
	}
	n, err := preset.Apply(ctx, core.Store, entries)
	if err != nil {
		core.Logger.Warn("failed to apply preset", logger.Error(err))
		return
	}
	core.Logger.Info("preset applied",
		logger.String("file", cfg.PresetFile),
		logger.Int("added", n))
}

// Run serves until SIGINT/SIGTERM or a fatal server error, then stops
// every component.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting favlauncher %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("favlauncher %s", version.String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.watcher.Start(ctx); err != nil {
		// the API still works, team edits just need a manual reload
		a.logger.Warn("team file watcher not started", logger.Error(err))
	}

	if err := a.sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start dead link sweeper: %w", err)
	}
	a.logger.Info("dead link sweeper started",
		logger.Duration("interval", a.cfg.DeadLinkInterval),
		logger.Bool("prune", a.cfg.PruneDeadLinks))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	if a.cfg.StartupItemID != "" {
		g.Go(func() error {
			if err := a.launcher.RunStartup(gctx, a.cfg.StartupItemID, a.cfg.StartupDelay); err != nil {
				a.logger.Warn("startup entry failed", logger.Error(err))
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")
		return a.shutdown()
	})

	return g.Wait()
}

func (a *App) shutdown() error {
	a.watcher.Stop()
	a.sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var stopErr error
	if err := a.server.Stop(shutdownCtx); err != nil {
		stopErr = fmt.Errorf("failed to stop server: %w", err)
	}
	a.hub.Close()

	if err := a.runner.Close(); err != nil {
		a.logger.Warn("failed to close terminal session", logger.Error(err))
	}

	// the team file may hold an external edit not reloaded yet
	if a.core.Store.Scope() != storage.ScopeTeam {
		if err := a.core.Store.Flush(shutdownCtx); err != nil {
			a.logger.Warn("failed to flush favorites", logger.Error(err))
		}
	}
	a.core.Close()

	if stopErr == nil {
		a.logger.Info("✅ favlauncher stopped cleanly")
	}
	return stopErr
}
