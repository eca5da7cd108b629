package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/handlers"
)

func init() { Register("maintenance", registerMaintenance) }

func registerMaintenance(r chi.Router, d deps.Deps) {
	api := guard(r, d)
	api.Get("/api/maintenance/dead-links", handlers.DeadLinks(d))
	api.Post("/api/maintenance/dead-links", handlers.RemoveDeadLinks(d))
	api.Post("/api/maintenance/duplicates", handlers.RemoveDuplicates(d))
	api.Post("/api/maintenance/styles/reset", handlers.ResetStyles(d))
}
