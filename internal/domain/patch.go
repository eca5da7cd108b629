package domain

// Patch carries a partial update. Nil fields are left untouched.
// Identity, kind, group membership and order are not patchable:
// use the move and reorder operations for placement.
type Patch struct {
	Label          *string      `json:"label,omitempty"`
	Note           *string      `json:"note,omitempty"`
	Icon           *string      `json:"icon,omitempty"`
	Color          *string      `json:"color,omitempty"`
	Path           *string      `json:"path,omitempty"`
	CommandID      *string      `json:"commandId,omitempty"`
	Args           *[]any       `json:"args,omitempty"`
	MacroSteps     *[]MacroStep `json:"macroSteps,omitempty"`
	SeparatorLabel *string      `json:"separatorLabel,omitempty"`
	WorkspacePath  *string      `json:"workspacePath,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Label == nil && p.Note == nil && p.Icon == nil && p.Color == nil &&
		p.Path == nil && p.CommandID == nil && p.Args == nil && p.MacroSteps == nil &&
		p.SeparatorLabel == nil && p.WorkspacePath == nil
}

// Apply returns e with the patch merged in.
func (p Patch) Apply(e Entry) Entry {
	if p.Label != nil {
		e.Label = *p.Label
	}
	if p.Note != nil {
		e.Note = *p.Note
	}
	if p.Icon != nil {
		e.Icon = *p.Icon
	}
	if p.Color != nil {
		e.Color = *p.Color
	}
	if p.Path != nil {
		e.Path = *p.Path
	}
	if p.CommandID != nil {
		e.CommandID = *p.CommandID
	}
	if p.Args != nil {
		e.Args = append([]any(nil), (*p.Args)...)
	}
	if p.MacroSteps != nil {
		e.MacroSteps = append([]MacroStep(nil), (*p.MacroSteps)...)
		e.MacroCommands = nil
	}
	if p.SeparatorLabel != nil {
		e.SeparatorLabel = *p.SeparatorLabel
	}
	if p.WorkspacePath != nil {
		e.WorkspacePath = *p.WorkspacePath
	}
	return e
}
