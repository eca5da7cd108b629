package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/transfer"
)

type importResponse struct {
	Mode       transfer.Mode `json:"mode"`
	Total      int           `json:"total"`
	New        int           `json:"new"`
	Duplicates int           `json:"duplicates"`
	Imported   int           `json:"imported"`
}

// Export streams the collection as an indented JSON array.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now
		if d.TimeNow != nil {
			now = d.TimeNow
		}
		name := fmt.Sprintf("favorites-%s.json", now().Format("2006-01-02"))

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		if err := transfer.Export(w, d.Store.Snapshot()); err != nil {
			d.Logger.Warn("export failed", logger.Error(err))
		}
	}
}

// Import reads an exported document. mode=preview reports the plan
// without touching the collection; merge appends the new entries;
// replace discards the collection first.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, err := transfer.ParseMode(r.URL.Query().Get("mode"))
		if err != nil {
			writeError(w, d, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		data, err := readBody(r)
		if err != nil {
			writeError(w, d, err)
			return
		}
		imported, err := transfer.Parse(data)
		if err != nil {
			writeError(w, d, err)
			return
		}

		plan := transfer.Classify(d.Store.Snapshot(), imported)
		res := importResponse{
			Mode:       mode,
			Total:      plan.Total,
			New:        len(plan.New),
			Duplicates: len(plan.Duplicates),
		}

		switch mode {
		case transfer.ModePreview:
		case transfer.ModeReplace:
			if err := d.Store.ReplaceAll(r.Context(), transfer.Replace(imported, d.Store.NewID)); err != nil {
				writeError(w, d, err)
				return
			}
			res.Imported = len(imported)
		default:
			err := d.Store.Transform(r.Context(), "import", func(live []domain.Entry) ([]domain.Entry, error) {
				out, n, err := transfer.Merge(live, imported, d.Store.NewID)
				res.Imported = n
				return out, err
			})
			if err != nil {
				writeError(w, d, err)
				return
			}
		}

		d.Logger.Info("import handled",
			logger.String("mode", string(mode)),
			logger.Int("total", res.Total),
			logger.Int("imported", res.Imported))
		writeJSON(w, http.StatusOK, res)
	}
}
