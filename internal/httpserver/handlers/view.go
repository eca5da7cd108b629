package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/view"
)

// viewOptions overlays query parameters on the configured defaults.
func viewOptions(d deps.Deps, r *http.Request) (view.Options, error) {
	opts := d.ViewDefaults
	q := r.URL.Query()

	opts.Filter = q.Get("filter")
	if s := q.Get("sort"); s != "" {
		mode, ok := view.ParseSort(s)
		if !ok {
			return opts, fmt.Errorf("%w: unknown sort %q", errBadRequest, s)
		}
		opts.Sort = mode
	}
	if s := q.Get("recent"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return opts, fmt.Errorf("%w: recent must be a boolean", errBadRequest)
		}
		opts.ShowRecent = b
	}
	return opts, nil
}

// View returns the root nodes of the tree.
func View(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := viewOptions(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Projector.Root(d.Store.Snapshot(), opts))
	}
}

// Children returns the nodes under a group or the Recent pseudo-group.
func Children(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := viewOptions(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}
		groupID := chi.URLParam(r, "groupID")
		writeJSON(w, http.StatusOK, d.Projector.Children(d.Store.Snapshot(), groupID, opts))
	}
}

// Summary returns the collection counts.
func Summary(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, view.Summarize(d.Store.Snapshot(), d.Probe))
	}
}

// Groups lists the groups with their item counts, for jumping to one.
func Groups(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, view.Groups(d.Store.Snapshot()))
	}
}

// Search ranks launchable entries against the q parameter.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit := 0
		if s := q.Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				writeError(w, d, fmt.Errorf("%w: limit must be a non-negative integer", errBadRequest))
				return
			}
			limit = n
		}
		now := time.Now
		if d.TimeNow != nil {
			now = d.TimeNow
		}
		writeJSON(w, http.StatusOK, view.Search(d.Store.Snapshot(), q.Get("q"), now(), limit))
	}
}
