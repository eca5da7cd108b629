package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/handlers"
)

func init() { Register("entries", registerEntries) }

func registerEntries(r chi.Router, d deps.Deps) {
	api := guard(r, d)

	api.Get("/api/entries", handlers.ListEntries(d))
	api.Post("/api/entries", handlers.AddEntry(d))
	api.Delete("/api/entries", handlers.ClearEntries(d))

	api.Get("/api/entries/{id}", handlers.GetEntry(d))
	api.Get("/api/entries/{id}/parent", handlers.EntryParent(d))
	api.Patch("/api/entries/{id}", handlers.UpdateEntry(d))
	api.Delete("/api/entries/{id}", handlers.RemoveEntry(d))

	api.Post("/api/entries/{id}/pin", handlers.Pin(d, true))
	api.Delete("/api/entries/{id}/pin", handlers.Pin(d, false))
	api.Put("/api/entries/{id}/style", handlers.SetStyle(d))
	api.Put("/api/entries/{id}/note", handlers.SetNote(d))
	api.Post("/api/entries/{id}/move", handlers.Move(d))
	api.Post("/api/entries/{id}/duplicate", handlers.Duplicate(d))

	api.Post("/api/reorder", handlers.Reorder(d))
	api.Post("/api/undo", handlers.Undo(d))
	api.Post("/api/refresh", handlers.Refresh(d))
}
