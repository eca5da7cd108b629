package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/launch"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
)

// Launch activates an entry. Open actions are returned for the caller
// to carry out; commands and macros run before the response is sent.
func Launch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := d.Launcher.Launch(r.Context(), chi.URLParam(r, "id"))
		respondLaunch(w, d, a, err)
	}
}

// LaunchPinned activates the n-th pinned favorite (1..9).
func LaunchPinned(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(chi.URLParam(r, "n"))
		if err != nil {
			writeError(w, d, fmt.Errorf("%w: slot must be a number", errBadRequest))
			return
		}
		a, err := d.Launcher.LaunchPinned(r.Context(), n)
		respondLaunch(w, d, a, err)
	}
}

// OpenGroup returns an open action for every file of a group.
func OpenGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actions, err := d.Launcher.OpenGroup(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, actions)
	}
}

func respondLaunch(w http.ResponseWriter, d deps.Deps, a launch.Action, err error) {
	if err != nil {
		status := statusOf(err)
		// anything not classified came from a dispatched command
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		d.Logger.Warn("launch failed",
			logger.String("entry", a.EntryID),
			logger.Int("status", status),
			logger.Error(err))
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// MacroState returns the macro runner state.
func MacroState(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Macros.State())
	}
}

// Commands lists the registered command ids.
func Commands(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Commands.IDs())
	}
}
