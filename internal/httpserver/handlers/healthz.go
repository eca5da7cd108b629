package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
)

type buildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

type healthzResponse struct {
	Status        string    `json:"status"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	Build         buildInfo `json:"build"`

	Scope   string `json:"scope,omitempty"`
	Entries int    `json:"entries"`
	CanUndo bool   `json:"can_undo"`
	Macro   string `json:"macro,omitempty"`
	Clients int    `json:"clients"`
}

// Healthz reports liveness plus a cheap view of the collection. It never
// touches the storage backend; /readyz does.
func Healthz(d deps.Deps) http.HandlerFunc {
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}
	build := buildInfo{Version: d.Version, Commit: d.Commit, BuildDate: d.BuildDate, GoVersion: d.GoVersion}

	return func(w http.ResponseWriter, r *http.Request) {
		res := healthzResponse{
			Status:        "ok",
			UptimeSeconds: now().Sub(d.StartTime).Seconds(),
			Build:         build,
		}
		if d.Store != nil {
			res.Scope = string(d.Store.Scope())
			res.Entries = d.Store.Len()
			res.CanUndo = d.Store.CanUndo()
		}
		if d.Macros != nil {
			res.Macro = string(d.Macros.State().Phase)
		}
		if d.Hub != nil {
			res.Clients = d.Hub.ConnectionCount()
		}
		writeJSON(w, http.StatusOK, res)
	}
}
