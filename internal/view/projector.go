package view

import (
	"sort"
	"strings"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
)

const (
	// RecentID identifies the Recent pseudo-group.
	RecentID = "recent"
	// OnboardingID identifies the placeholder shown for an empty collection.
	OnboardingID = "onboarding"

	DefaultRecentLimit = 5
)

// NodeKind separates real entries from synthesized nodes.
type NodeKind string

const (
	NodeEntry      NodeKind = "entry"
	NodeRecent     NodeKind = "recent"
	NodeOnboarding NodeKind = "onboarding"
)

// Node is one row handed to a renderer. Synthesized nodes carry no Entry
// and are never persisted.
type Node struct {
	Kind     NodeKind      `json:"node"`
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Entry    *domain.Entry `json:"entry,omitempty"`
	Missing  bool          `json:"missing,omitempty"`
	Children int           `json:"children,omitempty"`
}

// Options drive one projection.
type Options struct {
	Filter      string
	Sort        SortMode
	ShowRecent  bool
	RecentLimit int
}

// Projector derives renderer views from a collection without mutating it.
type Projector struct {
	probe Probe
}

func NewProjector(probe Probe) *Projector {
	return &Projector{probe: probe}
}

// Root returns the top-level nodes.
func (p *Projector) Root(entries []domain.Entry, opts Options) []Node {
	if !hasRealEntries(entries) {
		return []Node{{Kind: NodeOnboarding, ID: OnboardingID, Label: "Add your first favorite"}}
	}

	probe := newCachedProbe(p.probe)
	filter := normFilter(opts.Filter)

	var root []domain.Entry
	for _, e := range entries {
		if e.IsRoot() && (e.Kind == domain.KindGroup || Matches(e, filter)) {
			root = append(root, e)
		}
	}
	Sort(root, opts.Sort)

	nodes := make([]Node, 0, len(root)+1)
	if opts.ShowRecent && filter == "" {
		if recent := Recent(entries, opts.RecentLimit); len(recent) > 0 {
			nodes = append(nodes, Node{Kind: NodeRecent, ID: RecentID, Label: "Recent", Children: len(recent)})
		}
	}
	for _, e := range root {
		n := p.node(e, probe)
		if e.Kind == domain.KindGroup {
			n.Children = len(children(entries, e, filter))
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// Children returns the nodes under a group, or under the Recent pseudo-group.
// Unknown or non-group ids yield no children.
func (p *Projector) Children(entries []domain.Entry, groupID string, opts Options) []Node {
	probe := newCachedProbe(p.probe)

	var list []domain.Entry
	if groupID == RecentID {
		if !opts.ShowRecent || normFilter(opts.Filter) != "" {
			return []Node{}
		}
		list = Recent(entries, opts.RecentLimit)
	} else {
		group, ok := findEntry(entries, groupID)
		if !ok || group.Kind != domain.KindGroup {
			return []Node{}
		}
		list = children(entries, group, normFilter(opts.Filter))
		Sort(list, opts.Sort)
	}

	nodes := make([]Node, 0, len(list))
	for _, e := range list {
		nodes = append(nodes, p.node(e, probe))
	}
	return nodes
}

// Parent returns the group owning the entry.
func Parent(entries []domain.Entry, id string) (domain.Entry, bool) {
	e, ok := findEntry(entries, id)
	if !ok || e.IsRoot() {
		return domain.Entry{}, false
	}
	return findEntry(entries, e.GroupID)
}

// Matches reports whether the entry contains the lowercased filter in its
// label, note, path or command id. An empty filter matches everything.
func Matches(e domain.Entry, filter string) bool {
	if filter == "" {
		return true
	}
	for _, field := range []string{e.Label, e.Note, e.Path, e.CommandID} {
		if field != "" && strings.Contains(strings.ToLower(field), filter) {
			return true
		}
	}
	return false
}

// Recent returns up to limit activated entries, most recent first.
func Recent(entries []domain.Entry, limit int) []domain.Entry {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var out []domain.Entry
	for _, e := range entries {
		if e.Launchable() && e.LastUsed > 0 {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastUsed > out[j].LastUsed })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (p *Projector) node(e domain.Entry, probe Probe) Node {
	entry := e.Clone()
	n := Node{Kind: NodeEntry, ID: e.ID, Label: e.Label, Entry: &entry}
	if e.Kind == domain.KindFile && e.Path != "" {
		n.Missing = !probe.Exists(e.Path)
	}
	return n
}

// children keeps entries of the group that match, or all of them when
// the group label itself matches.
func children(entries []domain.Entry, group domain.Entry, filter string) []domain.Entry {
	groupMatches := Matches(group, filter)
	var out []domain.Entry
	for _, e := range entries {
		if e.GroupID == group.ID && (groupMatches || Matches(e, filter)) {
			out = append(out, e)
		}
	}
	return out
}

func hasRealEntries(entries []domain.Entry) bool {
	for _, e := range entries {
		if e.Kind != domain.KindSeparator {
			return true
		}
	}
	return false
}

func findEntry(entries []domain.Entry, id string) (domain.Entry, bool) {
	if id == "" {
		return domain.Entry{}, false
	}
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Entry{}, false
}

func normFilter(f string) string {
	return strings.ToLower(strings.TrimSpace(f))
}
