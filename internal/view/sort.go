package view

import (
	"sort"
	"strings"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
)

// SortMode selects the secondary ordering applied after pinned-first.
type SortMode string

const (
	SortManual   SortMode = "manual"
	SortAlpha    SortMode = "alpha"
	SortType     SortMode = "type"
	SortLastUsed SortMode = "lastUsed"
)

// ParseSort maps a user-supplied mode, ok is false for unknown names.
func ParseSort(s string) (SortMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "manual":
		return SortManual, true
	case "alpha":
		return SortAlpha, true
	case "type":
		return SortType, true
	case "lastused":
		return SortLastUsed, true
	}
	return SortManual, false
}

// Sort orders entries in place with a stable comparator:
// pinned first, then by mode.
func Sort(entries []domain.Entry, mode SortMode) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}

		switch mode {
		case SortAlpha:
			return foldLess(a.Label, b.Label)
		case SortType:
			if a.Kind != b.Kind {
				return a.Kind < b.Kind
			}
			return foldLess(a.Label, b.Label)
		case SortLastUsed:
			return a.LastUsed > b.LastUsed
		}
		return a.Order < b.Order
	})
}

func foldLess(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
