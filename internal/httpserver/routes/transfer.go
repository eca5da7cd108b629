package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/handlers"
)

func init() { Register("transfer", registerTransfer) }

func registerTransfer(r chi.Router, d deps.Deps) {
	api := guard(r, d)
	api.Get("/api/export", handlers.Export(d))
	api.Post("/api/import", handlers.Import(d))
}
