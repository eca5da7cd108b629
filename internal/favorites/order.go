package favorites

import (
	"sort"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
)

func indexOf(items []domain.Entry, id string) int {
	if id == "" {
		return -1
	}
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func find(items []domain.Entry, id string) (domain.Entry, bool) {
	if i := indexOf(items, id); i >= 0 {
		return items[i], true
	}
	return domain.Entry{}, false
}

func isGroup(items []domain.Entry, id string) bool {
	e, ok := find(items, id)
	return ok && e.Kind == domain.KindGroup
}

// nextOrder returns one past the highest order of the scope, 0 when empty.
func nextOrder(items []domain.Entry, groupID string) int {
	next := 0
	for _, e := range items {
		if e.GroupID == groupID && e.Order+1 > next {
			next = e.Order + 1
		}
	}
	return next
}

// scopeIndexes returns the slice positions of a scope sorted by order.
// Ties keep slice position, except ids in first which win them.
func scopeIndexes(items []domain.Entry, groupID string, first map[string]bool) []int {
	idx := make([]int, 0, len(items))
	for i := range items {
		if items[i].GroupID == groupID {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ea, eb := items[idx[a]], items[idx[b]]
		if ea.Order != eb.Order {
			return ea.Order < eb.Order
		}
		return first[ea.ID] && !first[eb.ID]
	})
	return idx
}

// renumber rewrites the orders of a scope to 0..n-1 keeping their relative sequence.
func renumber(items []domain.Entry, groupID string, first map[string]bool) {
	for n, i := range scopeIndexes(items, groupID, first) {
		items[i].Order = n
	}
}

// resolveGroup coerces a group reference to root when it does not
// point at an existing group entry.
func resolveGroup(items []domain.Entry, groupID string) string {
	if groupID == "" || !isGroup(items, groupID) {
		return ""
	}
	return groupID
}
