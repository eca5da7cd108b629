package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz reports whether the key-value backend answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := d.Ping(ctx); err != nil {
				d.Logger.Warn("readiness check failed", logger.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false, Error: err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
