package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/favlauncher/internal/command"
	"github.com/MrSnakeDoc/favlauncher/internal/favorites"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/events"
	"github.com/MrSnakeDoc/favlauncher/internal/launch"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/macro"
	"github.com/MrSnakeDoc/favlauncher/internal/view"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to access the API
	AllowedCIDRS []string         // IPs allowed to access the API
	TrustProxy   bool             // true if running behind a trusted reverse proxy

	LaunchBurst        int // rate limit of launch endpoints, per client
	LaunchRefillPerMin int

	Store     *favorites.Store  // canonical collection of the active scope
	Projector *view.Projector   // tree projection for renderers
	Probe     view.Probe        // file existence checks
	Launcher  *launch.Launcher  // entry activation
	Macros    *macro.Runner     // macro state
	Commands  *command.Registry // registered command ids
	Hub       *events.Hub       // invalidation push

	ViewDefaults view.Options // sort and recent settings from config

	TeamReloadTrigger chan struct{}                   // manual reload of the team file (nil without watcher)
	Ping              func(ctx context.Context) error // readiness of the kv backend
}
