package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/handlers"
)

func init() { Register("scope", registerScope) }

func registerScope(r chi.Router, d deps.Deps) {
	api := guard(r, d)
	api.Get("/api/scope", handlers.GetScope(d))
	api.Put("/api/scope", handlers.SetScope(d))
	api.Post("/api/scope/team/reload", handlers.ReloadTeam(d))
}
