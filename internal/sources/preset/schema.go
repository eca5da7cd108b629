package preset

// Preset is the top-level structure of a preset YAML file: groups with
// their items, then root-level items.
type Preset struct {
	Groups []GroupSpec `yaml:"groups,omitempty"`
	Items  []ItemSpec  `yaml:"items,omitempty"`
}

// GroupSpec declares a group and its children
type GroupSpec struct {
	Name   string     `yaml:"name"`
	Icon   string     `yaml:"icon,omitempty"`
	Color  string     `yaml:"color,omitempty"`
	Note   string     `yaml:"note,omitempty"`
	Pinned bool       `yaml:"pinned,omitempty"`
	Items  []ItemSpec `yaml:"items,omitempty"`
}

// ItemSpec declares one entry. Exactly one of File, Command, Macro,
// Workspace or Separator selects the kind.
type ItemSpec struct {
	Label  string `yaml:"label,omitempty"`
	Icon   string `yaml:"icon,omitempty"`
	Color  string `yaml:"color,omitempty"`
	Note   string `yaml:"note,omitempty"`
	Pinned bool   `yaml:"pinned,omitempty"`

	File      string     `yaml:"file,omitempty"`
	Command   string     `yaml:"command,omitempty"`
	Args      []any      `yaml:"args,omitempty"`
	Macro     []StepSpec `yaml:"macro,omitempty"`
	Workspace string     `yaml:"workspace,omitempty"`
	Separator bool       `yaml:"separator,omitempty"`
}

// StepSpec is one macro step: either an editor command or a terminal line
type StepSpec struct {
	Command  string `yaml:"command,omitempty"`
	Terminal string `yaml:"terminal,omitempty"`
}
