package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/favlauncher/internal/command"
	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/launch"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/macro"
	"github.com/MrSnakeDoc/favlauncher/internal/storage"
	"github.com/MrSnakeDoc/favlauncher/internal/transfer"
)

// maxBodyBytes bounds request bodies, imports included.
const maxBodyBytes = 8 << 20

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

type changedResponse struct {
	Changed bool `json:"changed"`
}

type countResponse struct {
	Count int `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error to its HTTP status and logs server-side failures.
func writeError(w http.ResponseWriter, d deps.Deps, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		d.Logger.Warn("request failed", logger.Int("status", status), logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, transfer.ErrFormat),
		errors.Is(err, storage.ErrUnknownScope):
		return http.StatusBadRequest
	case errors.Is(err, launch.ErrNotFound),
		errors.Is(err, launch.ErrNoPinned):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, transfer.ErrNothingToImport),
		errors.Is(err, launch.ErrNotLaunchable),
		errors.Is(err, launch.ErrNoFiles),
		errors.Is(err, macro.ErrNotMacro),
		errors.Is(err, macro.ErrNoSteps),
		errors.Is(err, domain.ErrUnknownKind),
		errors.Is(err, domain.ErrMissingPayload),
		errors.Is(err, domain.ErrMissingLabel):
		return http.StatusUnprocessableEntity
	case errors.Is(err, command.ErrUnknownCommand):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched
// when allowEmpty is set.
func decodeJSON(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid json body: %v", errBadRequest, err)
	}
	return nil
}

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", errBadRequest, err)
	}
	return data, nil
}

func checkColor(color *string) error {
	if color != nil && !domain.ValidColor(*color) {
		return fmt.Errorf("%w: unknown color %q", errBadRequest, *color)
	}
	return nil
}

// NotFound answers unknown routes in the API's error format.
func NotFound(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no route for " + r.URL.Path})
	}
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: r.Method + " not allowed on " + r.URL.Path})
	}
}
