package preset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
)

// ErrEmptyPreset is returned when a preset yields no valid entry.
var ErrEmptyPreset = errors.New("no valid entries found in preset")

// Mapper converts a Preset into favorites entries. The ids it assigns
// are placeholders: entries are meant to go through an import merge,
// which gives them fresh ids.
type Mapper struct {
	baseDir string
}

// NewMapper creates a mapper resolving relative paths against baseDir
func NewMapper(baseDir string) *Mapper {
	return &Mapper{baseDir: baseDir}
}

// Map converts a preset to entries, skipping invalid declarations
func (m *Mapper) Map(p Preset) ([]domain.Entry, error) {
	var entries []domain.Entry
	rootOrder := 0

	for gi, g := range p.Groups {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			continue
		}
		group := domain.Entry{
			ID:     fmt.Sprintf("preset-g%d", gi),
			Kind:   domain.KindGroup,
			Label:  name,
			Icon:   g.Icon,
			Color:  g.Color,
			Note:   g.Note,
			Pinned: g.Pinned,
			Order:  rootOrder,
		}
		entries = append(entries, group)
		rootOrder++

		order := 0
		for ii, it := range g.Items {
			e, ok := m.mapItem(it)
			if !ok {
				continue
			}
			e.ID = fmt.Sprintf("%s-i%d", group.ID, ii)
			e.GroupID = group.ID
			e.Order = order
			entries = append(entries, e)
			order++
		}
	}

	for ii, it := range p.Items {
		e, ok := m.mapItem(it)
		if !ok {
			continue
		}
		e.ID = fmt.Sprintf("preset-i%d", ii)
		e.Order = rootOrder
		entries = append(entries, e)
		rootOrder++
	}

	if len(entries) == 0 {
		return nil, ErrEmptyPreset
	}
	return entries, nil
}

func (m *Mapper) mapItem(it ItemSpec) (domain.Entry, bool) {
	e := domain.Entry{
		Label:  strings.TrimSpace(it.Label),
		Icon:   it.Icon,
		Color:  it.Color,
		Note:   it.Note,
		Pinned: it.Pinned,
	}

	switch {
	case it.File != "":
		e.Kind = domain.KindFile
		e.Path = m.resolve(it.File)
	case it.Command != "":
		e.Kind = domain.KindCommand
		e.CommandID = it.Command
		e.Args = it.Args
	case len(it.Macro) > 0:
		e.Kind = domain.KindMacro
		for _, s := range it.Macro {
			switch {
			case s.Command != "":
				e.MacroSteps = append(e.MacroSteps, domain.CommandStep(s.Command))
			case s.Terminal != "":
				e.MacroSteps = append(e.MacroSteps, domain.TerminalStep(s.Terminal))
			}
		}
	case it.Workspace != "":
		e.Kind = domain.KindWorkspace
		e.WorkspacePath = m.resolve(it.Workspace)
	case it.Separator:
		e.Kind = domain.KindSeparator
		e.SeparatorLabel = e.Label
	default:
		return domain.Entry{}, false
	}

	e = domain.Normalize(e)
	if err := domain.Validate(e); err != nil {
		return domain.Entry{}, false
	}
	return e, true
}

func (m *Mapper) resolve(p string) string {
	if filepath.IsAbs(p) || m.baseDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(m.baseDir, p)
}
