package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/favorites"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/view"
)

type removedResponse struct {
	Removed []domain.Entry `json:"removed"`
	CanUndo bool           `json:"canUndo"`
}

type styleRequest struct {
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

type noteRequest struct {
	Note string `json:"note"`
}

type moveRequest struct {
	GroupID string `json:"groupId"`
}

func ListEntries(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.Snapshot())
	}
}

func GetEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := d.Store.Get(chi.URLParam(r, "id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "entry not found"})
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// EntryParent returns the group owning the entry, 404 at root.
func EntryParent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := view.Parent(d.Store.Snapshot(), chi.URLParam(r, "id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "entry has no parent"})
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func AddEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e domain.Entry
		if err := decodeJSON(r, &e, false); err != nil {
			writeError(w, d, err)
			return
		}
		if err := checkColor(&e.Color); err != nil {
			writeError(w, d, err)
			return
		}
		if err := domain.Validate(domain.Normalize(e.Clone())); err != nil {
			writeError(w, d, err)
			return
		}

		added, ok := d.Store.Add(r.Context(), e)
		if !ok {
			writeError(w, d, fmt.Errorf("%w: entry rejected", errBadRequest))
			return
		}
		writeJSON(w, http.StatusCreated, added)
	}
}

func UpdateEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p domain.Patch
		if err := decodeJSON(r, &p, false); err != nil {
			writeError(w, d, err)
			return
		}
		if err := checkColor(p.Color); err != nil {
			writeError(w, d, err)
			return
		}
		changed := d.Store.Update(r.Context(), chi.URLParam(r, "id"), p)
		writeJSON(w, http.StatusOK, changedResponse{Changed: changed})
	}
}

// RemoveEntry removes an entry (a group with its children) and returns
// the removed set, which stays undoable until the next change.
func RemoveEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed := d.Store.Remove(r.Context(), chi.URLParam(r, "id"))
		if removed == nil {
			removed = []domain.Entry{}
		}
		writeJSON(w, http.StatusOK, removedResponse{Removed: removed, CanUndo: d.Store.CanUndo()})
	}
}

func ClearEntries(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, countResponse{Count: d.Store.Clear(r.Context())})
	}
}

func Pin(d deps.Deps, pinned bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		changed := d.Store.SetPinned(r.Context(), chi.URLParam(r, "id"), pinned)
		writeJSON(w, http.StatusOK, changedResponse{Changed: changed})
	}
}

// SetStyle sets icon and color. Omitted fields are untouched, empty
// strings clear them.
func SetStyle(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req styleRequest
		if err := decodeJSON(r, &req, false); err != nil {
			writeError(w, d, err)
			return
		}
		if err := checkColor(req.Color); err != nil {
			writeError(w, d, err)
			return
		}

		id := chi.URLParam(r, "id")
		changed := false
		if req.Icon != nil {
			changed = d.Store.SetFlag(r.Context(), id, favorites.FlagIcon, *req.Icon) || changed
		}
		if req.Color != nil {
			changed = d.Store.SetFlag(r.Context(), id, favorites.FlagColor, *req.Color) || changed
		}
		writeJSON(w, http.StatusOK, changedResponse{Changed: changed})
	}
}

func SetNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req noteRequest
		if err := decodeJSON(r, &req, false); err != nil {
			writeError(w, d, err)
			return
		}
		changed := d.Store.SetFlag(r.Context(), chi.URLParam(r, "id"), favorites.FlagNote, req.Note)
		writeJSON(w, http.StatusOK, changedResponse{Changed: changed})
	}
}

// Move moves an entry to a group, or to root with an empty groupId.
func Move(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := decodeJSON(r, &req, true); err != nil {
			writeError(w, d, err)
			return
		}
		changed := d.Store.MoveToGroup(r.Context(), chi.URLParam(r, "id"), req.GroupID)
		writeJSON(w, http.StatusOK, changedResponse{Changed: changed})
	}
}

func Duplicate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dup, ok := d.Store.Duplicate(r.Context(), chi.URLParam(r, "id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "entry not found"})
			return
		}
		writeJSON(w, http.StatusCreated, dup)
	}
}

// Reorder applies a drag-and-drop intent.
func Reorder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var drop favorites.Drop
		if err := decodeJSON(r, &drop, false); err != nil {
			writeError(w, d, err)
			return
		}
		changed := d.Store.Reorder(r.Context(), drop)
		writeJSON(w, http.StatusOK, changedResponse{Changed: changed})
	}
}

func Undo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restored := d.Store.Undo(r.Context())
		if restored == nil {
			restored = []domain.Entry{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"restored": restored})
	}
}

// Refresh drops the undo buffer and tells renderers to pull again.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Store.Refresh()
		w.WriteHeader(http.StatusNoContent)
	}
}
