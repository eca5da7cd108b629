package view

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
)

// countingProbe records how often each path was stat'ed.
type countingProbe struct {
	existing map[string]bool
	calls    map[string]int
}

func (c *countingProbe) Exists(path string) bool {
	_, ok := c.Stat(path)
	return ok
}

func (c *countingProbe) Stat(path string) (Stat, bool) {
	c.calls[path]++
	return Stat{}, c.existing[path]
}

func newCountingProbe(paths ...string) *countingProbe {
	p := &countingProbe{existing: map[string]bool{}, calls: map[string]int{}}
	for _, path := range paths {
		p.existing[path] = true
	}
	return p
}

func ids(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fixture() []domain.Entry {
	return []domain.Entry{
		{ID: "f1", Kind: domain.KindFile, Label: "Readme", Path: "/repo/README.md", Order: 0},
		{ID: "g", Kind: domain.KindGroup, Label: "Build Tools", Order: 1},
		{ID: "c1", Kind: domain.KindCommand, Label: "format", CommandID: "editor.action.format", Order: 2, Pinned: true},
		{ID: "s", Kind: domain.KindSeparator, Label: "---", Order: 3},
		{ID: "m", Kind: domain.KindMacro, Label: "deploy", MacroSteps: []domain.MacroStep{domain.TerminalStep("make deploy")}, Order: 4, Note: "prod only"},
		{ID: "k1", Kind: domain.KindCommand, Label: "compile", CommandID: "task.build", GroupID: "g", Order: 0},
		{ID: "k2", Kind: domain.KindFile, Label: "Makefile", Path: "/repo/Makefile", GroupID: "g", Order: 1},
	}
}

func TestRootManual(t *testing.T) {
	p := NewProjector(newCountingProbe("/repo/README.md", "/repo/Makefile"))
	nodes := p.Root(fixture(), Options{Sort: SortManual})

	want := []string{"c1", "f1", "g", "s", "m"}
	if got := ids(nodes); !sameIDs(got, want) {
		t.Errorf("Root() = %v, want %v", got, want)
	}
	for _, n := range nodes {
		if n.ID == "g" && n.Children != 2 {
			t.Errorf("group children = %d, want 2", n.Children)
		}
	}
}

func TestFilter(t *testing.T) {
	p := NewProjector(newCountingProbe())
	entries := fixture()

	tests := []struct {
		name         string
		filter       string
		wantRoot     []string
		wantChildren []string
	}{
		{
			name:         "label match keeps groups reachable",
			filter:       "readme",
			wantRoot:     []string{"f1", "g"},
			wantChildren: []string{},
		},
		{
			name:         "group label reveals all children",
			filter:       "BUILD",
			wantRoot:     []string{"g"},
			wantChildren: []string{"k1", "k2"},
		},
		{
			name:         "command id match inside group",
			filter:       "task.b",
			wantRoot:     []string{"g"},
			wantChildren: []string{"k1"},
		},
		{
			name:         "note match",
			filter:       "prod",
			wantRoot:     []string{"g", "m"},
			wantChildren: []string{},
		},
		{
			name:         "path match",
			filter:       "/repo/make",
			wantRoot:     []string{"g"},
			wantChildren: []string{"k2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Filter: tt.filter, Sort: SortManual}
			if got := ids(p.Root(entries, opts)); !sameIDs(got, tt.wantRoot) {
				t.Errorf("Root() = %v, want %v", got, tt.wantRoot)
			}
			if got := ids(p.Children(entries, "g", opts)); !sameIDs(got, tt.wantChildren) {
				t.Errorf("Children() = %v, want %v", got, tt.wantChildren)
			}
		})
	}
}

func TestSortModes(t *testing.T) {
	entries := []domain.Entry{
		{ID: "1", Kind: domain.KindFile, Label: "banana", Path: "/b", Order: 0, LastUsed: 10},
		{ID: "2", Kind: domain.KindCommand, Label: "Apple", CommandID: "x", Order: 1},
		{ID: "3", Kind: domain.KindFile, Label: "cherry", Path: "/c", Order: 2, Pinned: true, LastUsed: 1},
		{ID: "4", Kind: domain.KindFile, Label: "apricot", Path: "/a", Order: 3, LastUsed: 30},
	}

	tests := []struct {
		mode SortMode
		want []string
	}{
		{SortManual, []string{"3", "1", "2", "4"}},
		{SortAlpha, []string{"3", "2", "4", "1"}},
		{SortType, []string{"3", "2", "4", "1"}},
		{SortLastUsed, []string{"3", "4", "1", "2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			list := append([]domain.Entry(nil), entries...)
			Sort(list, tt.mode)
			got := make([]string, len(list))
			for i, e := range list {
				got[i] = e.ID
			}
			if !sameIDs(got, tt.want) {
				t.Errorf("Sort(%s) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestOnboarding(t *testing.T) {
	p := NewProjector(newCountingProbe())

	for _, entries := range [][]domain.Entry{
		nil,
		{{ID: "s", Kind: domain.KindSeparator, Label: "---"}},
	} {
		nodes := p.Root(entries, Options{})
		if len(nodes) != 1 || nodes[0].Kind != NodeOnboarding {
			t.Errorf("Root(%v) = %+v, want onboarding placeholder", entries, nodes)
		}
	}
}

func TestRecent(t *testing.T) {
	entries := []domain.Entry{
		{ID: "a", Kind: domain.KindFile, Label: "a", Path: "/a", LastUsed: 100},
		{ID: "b", Kind: domain.KindFile, Label: "b", Path: "/b", LastUsed: 300, Order: 1},
		{ID: "g", Kind: domain.KindGroup, Label: "g", LastUsed: 999, Order: 2},
		{ID: "c", Kind: domain.KindCommand, Label: "c", CommandID: "c", Order: 3},
		{ID: "d", Kind: domain.KindMacro, Label: "d", MacroSteps: []domain.MacroStep{domain.CommandStep("x")}, LastUsed: 200, Order: 4},
	}
	p := NewProjector(newCountingProbe("/a", "/b"))

	root := p.Root(entries, Options{ShowRecent: true, RecentLimit: 2})
	if root[0].Kind != NodeRecent || root[0].Children != 2 {
		t.Fatalf("first node = %+v, want recent pseudo-group with 2 children", root[0])
	}

	got := ids(p.Children(entries, RecentID, Options{ShowRecent: true, RecentLimit: 2}))
	if !sameIDs(got, []string{"b", "d"}) {
		t.Errorf("recent children = %v, want [b d]", got)
	}

	filtered := p.Root(entries, Options{ShowRecent: true, Filter: "a"})
	for _, n := range filtered {
		if n.Kind == NodeRecent {
			t.Error("recent pseudo-group must be hidden while filtering")
		}
	}
}

func TestDeadLinksAreCachedPerProjection(t *testing.T) {
	entries := []domain.Entry{
		{ID: "1", Kind: domain.KindFile, Label: "x", Path: "/gone", Order: 0},
		{ID: "2", Kind: domain.KindFile, Label: "y", Path: "/gone", Order: 1},
		{ID: "3", Kind: domain.KindFile, Label: "z", Path: "/here", Order: 2},
	}
	probe := newCountingProbe("/here")
	p := NewProjector(probe)

	nodes := p.Root(entries, Options{})
	missing := map[string]bool{}
	for _, n := range nodes {
		missing[n.ID] = n.Missing
	}
	if !missing["1"] || !missing["2"] || missing["3"] {
		t.Errorf("missing flags = %v", missing)
	}
	if probe.calls["/gone"] != 1 {
		t.Errorf("stat calls for /gone = %d, want 1", probe.calls["/gone"])
	}

	p.Root(entries, Options{})
	if probe.calls["/gone"] != 2 {
		t.Errorf("a new projection should re-check, calls = %d", probe.calls["/gone"])
	}
}

func TestParent(t *testing.T) {
	entries := fixture()
	if g, ok := Parent(entries, "k1"); !ok || g.ID != "g" {
		t.Errorf("Parent(k1) = %v, %v", g.ID, ok)
	}
	if _, ok := Parent(entries, "f1"); ok {
		t.Error("root entry has no parent")
	}
	if _, ok := Parent(entries, "missing"); ok {
		t.Error("missing entry has no parent")
	}
}

func TestSummarizeAndPinned(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/repo/README.md", []byte("# hi"), 0o644)

	entries := fixture()
	entries[0].Pinned = true
	s := Summarize(entries, NewFSProbe(fs))

	want := Summary{Favorites: 5, Files: 2, Commands: 2, Macros: 1, Groups: 1, Pinned: 2, Missing: 1}
	if s != want {
		t.Errorf("Summarize() = %+v, want %+v", s, want)
	}

	pinned := PinnedTargets(entries)
	if len(pinned) != 2 || pinned[0].ID != "f1" || pinned[1].ID != "c1" {
		t.Errorf("PinnedTargets() = %v", pinned)
	}

	dead := DeadLinks(entries, NewFSProbe(fs))
	if len(dead) != 1 || dead[0].ID != "k2" {
		t.Errorf("DeadLinks() = %v", dead)
	}
}

func TestGroups(t *testing.T) {
	entries := append(fixture(),
		domain.Entry{ID: "a", Kind: domain.KindGroup, Label: "Archive", Order: 0},
		domain.Entry{ID: "s2", Kind: domain.KindSeparator, GroupID: "g", Order: 2},
	)

	got := Groups(entries)
	want := []GroupInfo{
		{ID: "a", Label: "Archive", Items: 0},
		{ID: "g", Label: "Build Tools", Items: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("Groups() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Groups()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if got := Groups(nil); got == nil || len(got) != 0 {
		t.Errorf("Groups(nil) = %#v, want an empty list", got)
	}
}
