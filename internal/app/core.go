package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/MrSnakeDoc/favlauncher/internal/config"
	"github.com/MrSnakeDoc/favlauncher/internal/favorites"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/redis"
	"github.com/MrSnakeDoc/favlauncher/internal/scheduler"
	"github.com/MrSnakeDoc/favlauncher/internal/storage"
	filestore "github.com/MrSnakeDoc/favlauncher/internal/store/file"
	redisstore "github.com/MrSnakeDoc/favlauncher/internal/store/redis"
	"github.com/MrSnakeDoc/favlauncher/internal/store/sqlite"
	"github.com/MrSnakeDoc/favlauncher/internal/utils"
	"github.com/MrSnakeDoc/favlauncher/internal/view"
)

// Core is the storage side of the launcher: the KV slot store, the team
// file and the loaded collection. Every CLI command opens one.
type Core struct {
	Config *config.Config
	Logger logger.Logger
	Fs     afero.Fs
	Store  *favorites.Store
	Probe  view.Probe

	backend storage.Backend
	ping    func(ctx context.Context) error
	pruner  scheduler.SlotPruner
	closers []namedCloser
}

type namedCloser struct {
	name string
	c    io.Closer
}

// OpenCore connects the configured KV backend and loads the collection
// of the configured scope.
func OpenCore(ctx context.Context, cfg *config.Config, log logger.Logger) (*Core, error) {
	scope, err := storage.ParseScope(cfg.StorageScope)
	if err != nil {
		return nil, err
	}

	c := &Core{
		Config: cfg,
		Logger: log,
		Fs:     afero.NewOsFs(),
	}
	c.Probe = view.NewFSProbe(c.Fs)

	kv, err := c.openKV(ctx)
	if err != nil {
		return nil, err
	}

	c.backend = storage.NewRouter(
		storage.NewSlotBackend(kv, cfg.WorkspaceDir),
		filestore.NewTeamStore(c.Fs, cfg.TeamFile()),
	)
	c.Store = favorites.New(c.backend, scope, log.Named("store"))
	if err := c.Store.Load(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	log.Info("favorites loaded",
		logger.String("scope", string(scope)),
		logger.String("backend", cfg.KVBackend),
		logger.Int("entries", c.Store.Len()))
	return c, nil
}

func (c *Core) openKV(ctx context.Context) (storage.KV, error) {
	switch c.Config.KVBackend {
	case config.BackendRedis:
		client, err := redis.New(ctx, redis.OptionsFromConfig(c.Config), c.Logger)
		if err != nil {
			return nil, err
		}
		rs := redisstore.NewStore(client)
		c.ping = rs.Ping
		c.pruner = rs
		c.closers = append(c.closers, namedCloser{"redis", client})
		return rs, nil

	default:
		db, err := sqlite.Open(c.Config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open slot store: %w", err)
		}
		c.ping = db.Ping
		c.closers = append(c.closers, namedCloser{"sqlite", db})
		c.Logger.Debug("sqlite slot store opened", logger.String("path", db.Path()))
		return db, nil
	}
}

// CountScopes returns how many entries each scope holds on disk.
// Unreadable scopes report -1.
func (c *Core) CountScopes(ctx context.Context) map[storage.Scope]int {
	counts := make(map[storage.Scope]int, len(storage.Scopes))
	for _, scope := range storage.Scopes {
		entries, err := c.backend.Load(ctx, scope)
		if err != nil {
			c.Logger.Warn("failed to read scope", logger.String("scope", string(scope)), logger.Error(err))
			counts[scope] = -1
			continue
		}
		counts[scope] = len(entries)
	}
	return counts
}

// Ping reports whether the KV backend answers.
func (c *Core) Ping(ctx context.Context) error {
	if c.ping == nil {
		return nil
	}
	return c.ping(ctx)
}

// Close releases the KV backend.
func (c *Core) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		utils.CloseLogged(c.closers[i].c, c.closers[i].name, c.Logger)
	}
	c.closers = nil
}
