package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/storage"
)

type scopeInfo struct {
	ID    storage.Scope `json:"id"`
	Label string        `json:"label"`
}

type scopeResponse struct {
	Scope  storage.Scope `json:"scope"`
	Label  string        `json:"label"`
	Scopes []scopeInfo   `json:"scopes"`
}

type scopeRequest struct {
	Scope string `json:"scope"`
}

func scopeState(d deps.Deps) scopeResponse {
	cur := d.Store.Scope()
	res := scopeResponse{Scope: cur, Label: cur.Label()}
	for _, s := range storage.Scopes {
		res.Scopes = append(res.Scopes, scopeInfo{ID: s, Label: s.Label()})
	}
	return res
}

func GetScope(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, scopeState(d))
	}
}

// SetScope switches the active storage scope and loads its collection.
func SetScope(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scopeRequest
		if err := decodeJSON(r, &req, false); err != nil {
			writeError(w, d, err)
			return
		}
		scope, err := storage.ParseScope(req.Scope)
		if err != nil {
			writeError(w, d, err)
			return
		}
		if err := d.Store.SwitchScope(r.Context(), scope); err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, scopeState(d))
	}
}

// ReloadTeam asks the team file watcher to re-read the file now.
func ReloadTeam(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.TeamReloadTrigger == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "team file watcher is not running"})
			return
		}

		select {
		case d.TeamReloadTrigger <- struct{}{}:
			d.Logger.Info("manual team reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
		default:
			d.Logger.Warn("team reload already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "reload already pending, please wait"})
		}
	}
}
