package view

import (
	"testing"
	"time"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
)

func candidateIDs(cs []Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Entry.ID)
	}
	return out
}

func TestSearchRanksByMatchQuality(t *testing.T) {
	entries := []domain.Entry{
		{ID: "sub", Kind: domain.KindCommand, Label: "Run all tests", CommandID: "test.all", Order: 0},
		{ID: "prefix", Kind: domain.KindCommand, Label: "Testing dashboard", CommandID: "test.ui", Order: 1},
		{ID: "exact", Kind: domain.KindMacro, Label: "test", Order: 2},
		{ID: "group", Kind: domain.KindGroup, Label: "test", Order: 3},
		{ID: "none", Kind: domain.KindFile, Label: "README", Path: "/r", Order: 4},
	}

	got := candidateIDs(Search(entries, "Test", time.Now(), 0))
	want := []string{"exact", "prefix", "sub"}
	if !sameIDs(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSearchRequiresEveryWord(t *testing.T) {
	entries := []domain.Entry{
		{ID: "a", Kind: domain.KindFile, Label: "docker-compose.yml", Path: "/a"},
		{ID: "b", Kind: domain.KindFile, Label: "docker notes", Path: "/b"},
	}

	got := candidateIDs(Search(entries, "docker yml", time.Now(), 0))
	if !sameIDs(got, []string{"a"}) {
		t.Fatalf("got %v, want [a]", got)
	}
}

func TestSearchRecencyBreaksTies(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []domain.Entry{
		{ID: "old", Kind: domain.KindFile, Label: "deploy", Path: "/old", LastUsed: now.Add(-30 * 24 * time.Hour).UnixMilli()},
		{ID: "fresh", Kind: domain.KindFile, Label: "deploy", Path: "/fresh", LastUsed: now.Add(-time.Hour).UnixMilli()},
		{ID: "never", Kind: domain.KindFile, Label: "deploy", Path: "/never"},
	}

	res := Search(entries, "deploy", now, 0)
	if got := candidateIDs(res); !sameIDs(got, []string{"fresh", "old", "never"}) {
		t.Fatalf("got %v", got)
	}
	if res[2].RecencyScore != 0 {
		t.Fatalf("never used entry has recency %v", res[2].RecencyScore)
	}
	if res[0].RecencyScore <= res[1].RecencyScore {
		t.Fatalf("recent entry should score higher: %v <= %v", res[0].RecencyScore, res[1].RecencyScore)
	}
}

func TestSearchLimitAndBlankQuery(t *testing.T) {
	var entries []domain.Entry
	for _, id := range []string{"a", "b", "c"} {
		entries = append(entries, domain.Entry{ID: id, Kind: domain.KindFile, Label: "notes " + id, Path: "/" + id})
	}

	if got := Search(entries, "notes", time.Now(), 2); len(got) != 2 {
		t.Fatalf("limit ignored: %d results", len(got))
	}
	if got := Search(entries, "  -- ", time.Now(), 0); len(got) != 0 {
		t.Fatalf("blank query matched %d entries", len(got))
	}
}

func TestScoreFragment(t *testing.T) {
	tests := []struct {
		q, w string
		want bool
	}{
		{"build", "build", true},
		{"bui", "build", true},
		{"uil", "build", true},
		{"biuld", "build", true},
		{"xyz", "build", false},
	}
	for _, tt := range tests {
		if got := scoreFragment(tt.q, tt.w, 0) > 0; got != tt.want {
			t.Errorf("scoreFragment(%q, %q) > 0 = %v, want %v", tt.q, tt.w, got, tt.want)
		}
	}
}
