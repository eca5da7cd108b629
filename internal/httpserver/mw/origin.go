package mw

import (
	"mime"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/utils"
)

func unsafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// RejectCrossSite guards state-changing requests against foreign web
// pages: a foreign Origin or a cross-site fetch gets 403, and a body that
// is not application/json gets 415.
func RejectCrossSite(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !unsafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			if !utils.SameOrigin(r) || strings.EqualFold(r.Header.Get("Sec-Fetch-Site"), "cross-site") {
				log.Warn("cross-site request rejected",
					logger.String("origin", r.Header.Get("Origin")),
					logger.String("method", r.Method),
					logger.String("path", r.URL.Path))
				deny(w, http.StatusForbidden, "cross-site request not allowed")
				return
			}

			if !jsonBody(r) {
				deny(w, http.StatusUnsupportedMediaType, "request body must be application/json")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// jsonBody accepts application/json bodies and requests with neither a
// body nor a Content-Type.
func jsonBody(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return r.ContentLength == 0
	}
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && mt == "application/json"
}
