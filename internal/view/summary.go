package view

import (
	"sort"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
)

// Summary is the collection breakdown shown in status lines.
type Summary struct {
	Favorites  int `json:"favorites"`
	Files      int `json:"files"`
	Commands   int `json:"commands"`
	Macros     int `json:"macros"`
	Workspaces int `json:"workspaces"`
	Groups     int `json:"groups"`
	Pinned     int `json:"pinned"`
	Missing    int `json:"missing"`
}

// Summarize counts the collection. Groups and separators are not favorites.
func Summarize(entries []domain.Entry, probe Probe) Summary {
	probe = newCachedProbe(probe)

	var s Summary
	for _, e := range entries {
		switch e.Kind {
		case domain.KindGroup:
			s.Groups++
			continue
		case domain.KindSeparator:
			continue
		case domain.KindFile:
			s.Files++
			if e.Path != "" && !probe.Exists(e.Path) {
				s.Missing++
			}
		case domain.KindCommand:
			s.Commands++
		case domain.KindMacro:
			s.Macros++
		case domain.KindWorkspace:
			s.Workspaces++
		}
		s.Favorites++
		if e.Pinned {
			s.Pinned++
		}
	}
	return s
}

// GroupInfo is a group with the number of entries it holds.
type GroupInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Items int    `json:"items"`
}

// Groups lists the groups in manual order. Separators are not counted.
func Groups(entries []domain.Entry) []GroupInfo {
	counts := make(map[string]int)
	var groups []domain.Entry
	for _, e := range entries {
		switch {
		case e.Kind == domain.KindGroup:
			groups = append(groups, e)
		case e.Kind != domain.KindSeparator && !e.IsRoot():
			counts[e.GroupID]++
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Order < groups[j].Order })

	out := make([]GroupInfo, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupInfo{ID: g.ID, Label: g.Label, Items: counts[g.ID]})
	}
	return out
}

// DeadLinks returns the file entries whose path does not resolve.
func DeadLinks(entries []domain.Entry, probe Probe) []domain.Entry {
	probe = newCachedProbe(probe)

	var out []domain.Entry
	for _, e := range entries {
		if e.Kind == domain.KindFile && e.Path != "" && !probe.Exists(e.Path) {
			out = append(out, e)
		}
	}
	return out
}

// PinnedTargets lists pinned launchable entries by manual order; slot N
// of the quick-launch keys maps to index N-1.
func PinnedTargets(entries []domain.Entry) []domain.Entry {
	var out []domain.Entry
	for _, e := range entries {
		if e.Pinned && e.Launchable() {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
