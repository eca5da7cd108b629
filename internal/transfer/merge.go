package transfer

import (
	"github.com/MrSnakeDoc/favlauncher/internal/domain"
)

// Plan is the preview of an import against the live collection.
type Plan struct {
	Total      int            `json:"total"`
	New        []domain.Entry `json:"new"`
	Duplicates []domain.Entry `json:"duplicates"`
	// LiveEmpty means every entry is accepted regardless of duplicates.
	LiveEmpty bool `json:"liveEmpty"`
}

// Classify splits imported entries into new ones and duplicates of live
// entries. It never mutates its inputs.
func Classify(live, imported []domain.Entry) Plan {
	p := Plan{
		Total:      len(imported),
		New:        []domain.Entry{},
		Duplicates: []domain.Entry{},
		LiveEmpty:  len(live) == 0,
	}
	if p.LiveEmpty {
		p.New = domain.CloneAll(imported)
		return p
	}

	known := make(map[string]bool, len(live))
	for _, e := range live {
		known[domain.IdentityKey(e)] = true
	}
	for _, e := range imported {
		if known[domain.IdentityKey(e)] {
			p.Duplicates = append(p.Duplicates, e.Clone())
		} else {
			p.New = append(p.New, e.Clone())
		}
	}
	return p
}

// Replace builds a collection from imported entries alone: fresh ids,
// group references remapped, orders 0-based per scope in declaration order.
func Replace(imported []domain.Entry, newID func() string) []domain.Entry {
	return adopt(nil, imported, nil, newID)
}

// Merge appends the non-duplicate imported entries to live with fresh ids,
// continuing each scope after its current maximum. Into an empty live
// collection every entry is accepted. The live entries are returned
// first and unchanged.
func Merge(live, imported []domain.Entry, newID func() string) ([]domain.Entry, int, error) {
	if len(live) == 0 {
		out := Replace(imported, newID)
		return out, len(out), nil
	}

	plan := Classify(live, imported)

	// duplicate groups resolve to the live group sharing their label
	aliases := make(map[string]string)
	for _, d := range plan.Duplicates {
		if d.Kind != domain.KindGroup {
			continue
		}
		for _, e := range live {
			if e.Kind == domain.KindGroup && e.Label == d.Label {
				aliases[d.ID] = e.ID
				break
			}
		}
	}

	if len(plan.New) == 0 {
		return nil, 0, ErrNothingToImport
	}

	out := adopt(live, plan.New, aliases, newID)
	return out, len(out) - len(live), nil
}

// adopt appends entries to base with fresh ids. Group references are
// remapped through the ids assigned here, then through aliases; anything
// else lands at root.
func adopt(base, entries []domain.Entry, aliases map[string]string, newID func() string) []domain.Entry {
	out := domain.CloneAll(base)
	if out == nil {
		out = make([]domain.Entry, 0, len(entries))
	}

	next := make(map[string]int)
	for _, e := range out {
		if e.Order+1 > next[e.GroupID] {
			next[e.GroupID] = e.Order + 1
		}
	}

	ids := make(map[string]string, len(entries))
	fresh := make([]domain.Entry, len(entries))
	for i, e := range entries {
		fresh[i] = e.Clone()
		fresh[i].ID = newID()
		if e.Kind == domain.KindGroup && e.ID != "" {
			ids[e.ID] = fresh[i].ID
		}
	}

	for i := range fresh {
		e := &fresh[i]
		old := e.GroupID
		e.GroupID = ""
		if e.Kind != domain.KindGroup && old != "" {
			if id, ok := ids[old]; ok {
				e.GroupID = id
			} else if id, ok := aliases[old]; ok {
				e.GroupID = id
			}
		}
		e.Order = next[e.GroupID]
		next[e.GroupID]++
		out = append(out, *e)
	}
	return out
}
