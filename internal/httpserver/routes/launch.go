package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/mw"
)

func init() { Register("launch", registerLaunch) }

func registerLaunch(r chi.Router, d deps.Deps) {
	limited := guard(r, d).With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.LaunchBurst,
		RefillPerIPPerMin: d.LaunchRefillPerMin,
		MaxEntries:        1024,
		TrustProxy:        d.TrustProxy,
	}))
	limited.Post("/api/entries/{id}/launch", handlers.Launch(d))
	limited.Post("/api/pinned/{n}/launch", handlers.LaunchPinned(d))
	limited.Post("/api/groups/{id}/open", handlers.OpenGroup(d))

	api := guard(r, d)
	api.Get("/api/macro", handlers.MacroState(d))
	api.Get("/api/commands", handlers.Commands(d))
}
