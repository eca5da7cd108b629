package domain

// StepKind discriminates macro steps.
type StepKind string

const (
	// StepCommand invokes an editor command through the dispatcher, no arguments.
	StepCommand StepKind = "command"
	// StepTerminal sends a literal line to the interactive shell session.
	StepTerminal StepKind = "terminal"
)

// MacroStep is one step of a macro entry.
type MacroStep struct {
	Kind      StepKind `json:"kind"`
	CommandID string   `json:"commandId,omitempty"`
	Text      string   `json:"text,omitempty"`
}

// CommandStep builds an editor-command step.
func CommandStep(commandID string) MacroStep {
	return MacroStep{Kind: StepCommand, CommandID: commandID}
}

// TerminalStep builds a terminal step.
func TerminalStep(text string) MacroStep {
	return MacroStep{Kind: StepTerminal, Text: text}
}

// Valid reports whether the step carries its required payload.
func (s MacroStep) Valid() bool {
	switch s.Kind {
	case StepCommand:
		return s.CommandID != ""
	case StepTerminal:
		return s.Text != ""
	}
	return false
}

// Summary is a one-line human description of the step.
func (s MacroStep) Summary() string {
	if s.Kind == StepTerminal {
		return "$ " + s.Text
	}
	return "> " + s.CommandID
}

// Steps returns the executable step list of a macro entry,
// falling back to the legacy command list for entries that skipped Normalize.
func (e Entry) Steps() []MacroStep {
	if len(e.MacroSteps) > 0 {
		return e.MacroSteps
	}
	if len(e.MacroCommands) == 0 {
		return nil
	}
	steps := make([]MacroStep, 0, len(e.MacroCommands))
	for _, c := range e.MacroCommands {
		steps = append(steps, CommandStep(c))
	}
	return steps
}
