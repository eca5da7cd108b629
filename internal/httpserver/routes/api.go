package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/mw"
)

// requestTimeout bounds ordinary API calls. Macro launches wait for
// every step, so it stays well above the step delay.
const requestTimeout = 30 * time.Second

// guard restricts /api routes to the configured clients and hosts and
// keeps foreign pages from changing state.
func guard(r chi.Router, d deps.Deps) chi.Router {
	return stream(r, d).With(
		mw.RejectCrossSite(d.Logger),
		middleware.Timeout(requestTimeout),
	)
}

// stream is guard without the request timeout, for long-lived connections.
func stream(r chi.Router, d deps.Deps) chi.Router {
	return r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)
}
