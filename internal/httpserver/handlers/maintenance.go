package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/view"
)

type cleanupResponse struct {
	Removed []domain.Entry `json:"removed"`
}

func nonNil(entries []domain.Entry) []domain.Entry {
	if entries == nil {
		return []domain.Entry{}
	}
	return entries
}

// DeadLinks lists file entries whose path does not resolve.
func DeadLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nonNil(view.DeadLinks(d.Store.Snapshot(), d.Probe)))
	}
}

func RemoveDeadLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed := d.Store.RemoveDeadLinks(r.Context(), d.Probe.Exists)
		writeJSON(w, http.StatusOK, cleanupResponse{Removed: nonNil(removed)})
	}
}

func RemoveDuplicates(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed := d.Store.RemoveDuplicates(r.Context())
		writeJSON(w, http.StatusOK, cleanupResponse{Removed: nonNil(removed)})
	}
}

// ResetStyles clears icon and color of ?id= or of every entry.
func ResetStyles(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := d.Store.ResetStyles(r.Context(), r.URL.Query().Get("id"))
		writeJSON(w, http.StatusOK, countResponse{Count: n})
	}
}
