package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/handlers"
)

func init() { Register("view", registerView) }

func registerView(r chi.Router, d deps.Deps) {
	api := guard(r, d)
	api.Get("/api/view", handlers.View(d))
	api.Get("/api/view/{groupID}/children", handlers.Children(d))
	api.Get("/api/summary", handlers.Summary(d))
	api.Get("/api/groups", handlers.Groups(d))
	api.Get("/api/search", handlers.Search(d))
	stream(r, d).Get("/api/events", d.Hub.ServeHTTP)
}
