package mw

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/favlauncher/internal/logger"
)

// recorder remembers the status and size of a response.
type recorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (rec *recorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *recorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.size += n
	return n, err
}

// Hijack keeps /api/events upgradable behind the access log.
func (rec *recorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rec.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// quietPaths are polled by supervisors and logged at debug only.
var quietPaths = map[string]bool{"/healthz": true, "/readyz": true}

// Log writes one access line per request. Server errors log at warn,
// probes at debug, everything else at info.
func Log(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &recorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", rec.status),
				logger.Int("bytes", rec.size),
				logger.Duration("duration", time.Since(start)),
				logger.String("remote_addr", r.RemoteAddr),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			}
			switch {
			case rec.status >= http.StatusInternalServerError:
				log.Warn("http_request", fields...)
			case quietPaths[r.URL.Path]:
				log.Debug("http_request", fields...)
			default:
				log.Info("http_request", fields...)
			}
		})
	}
}
