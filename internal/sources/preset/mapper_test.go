package preset

import (
	"context"
	"errors"
	"testing"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/favorites"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/storage"
)

func samplePreset() Preset {
	return Preset{
		Groups: []GroupSpec{
			{
				Name:  "Build",
				Color: "blue",
				Items: []ItemSpec{
					{Command: "task.build", Label: "Build"},
					{Label: "broken"},
					{Label: "Deploy", Macro: []StepSpec{{Command: "save"}, {Terminal: "make deploy"}}},
				},
			},
			{Name: "  "},
		},
		Items: []ItemSpec{
			{File: "docs/README.md"},
			{Separator: true},
			{Workspace: "/srv/other"},
		},
	}
}

func TestMapperMap(t *testing.T) {
	entries, err := NewMapper("/repo").Map(samplePreset())
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if len(entries) != 6 {
		t.Fatalf("Map() returned %d entries, want 6: %+v", len(entries), entries)
	}

	group := entries[0]
	if group.Kind != domain.KindGroup || group.Label != "Build" || group.Order != 0 {
		t.Errorf("group = %+v", group)
	}

	build, deploy := entries[1], entries[2]
	if build.GroupID != group.ID || build.Order != 0 || deploy.Order != 1 {
		t.Errorf("children = (%q,%d) (%q,%d)", build.GroupID, build.Order, deploy.GroupID, deploy.Order)
	}
	if len(deploy.MacroSteps) != 2 || deploy.MacroSteps[1].Kind != domain.StepTerminal {
		t.Errorf("macro steps = %+v", deploy.MacroSteps)
	}

	file := entries[3]
	if file.Path != "/repo/docs/README.md" || file.Label != "README.md" || file.Order != 1 {
		t.Errorf("file = %+v", file)
	}
	if entries[4].Kind != domain.KindSeparator || entries[5].WorkspacePath != "/srv/other" {
		t.Errorf("tail = %+v", entries[4:])
	}
}

func TestMapperMapEmptyPreset(t *testing.T) {
	entries, err := NewMapper("").Map(Preset{Items: []ItemSpec{{Label: "nothing"}}})
	if !errors.Is(err, ErrEmptyPreset) {
		t.Errorf("Map() error = %v, want ErrEmptyPreset", err)
	}
	if entries != nil {
		t.Errorf("Map() should return nil entries, got %d", len(entries))
	}
}

func TestApplySkipsExisting(t *testing.T) {
	ctx := context.Background()
	store := favorites.New(storage.NewSlotBackend(storage.NewMemoryKV(), "/repo"),
		storage.ScopeWorkspace, logger.New("error", false))
	if err := store.Load(ctx); err != nil {
		t.Fatal(err)
	}

	entries, err := NewMapper("/repo").Map(samplePreset())
	if err != nil {
		t.Fatal(err)
	}

	n, err := Apply(ctx, store, entries)
	if err != nil || n != 6 {
		t.Fatalf("first Apply() = %d, %v; want 6", n, err)
	}

	n, err = Apply(ctx, store, entries)
	if err != nil || n != 0 {
		t.Errorf("second Apply() = %d, %v; want 0 (all duplicates)", n, err)
	}
	if store.Len() != 6 {
		t.Errorf("Len() = %d, want 6", store.Len())
	}
}
