package preset

import (
	"fmt"
	"regexp"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var templateVar = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Loader handles loading and parsing of a preset file
type Loader struct {
	fs       afero.Fs
	filePath string
	vars     map[string]string
}

// NewLoader creates a new preset loader. vars fill {{NAME}} placeholders.
func NewLoader(fs afero.Fs, filePath string, vars map[string]string) *Loader {
	return &Loader{
		fs:       fs,
		filePath: filePath,
		vars:     vars,
	}
}

// Load reads and parses the preset file
func (l *Loader) Load() (Preset, error) {
	data, err := afero.ReadFile(l.fs, l.filePath)
	if err != nil {
		return Preset{}, fmt.Errorf("failed to read preset file: %w", err)
	}

	data = expandTemplateVariables(data, l.vars)

	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("failed to parse preset yaml: %w", err)
	}

	return p, nil
}

// expandTemplateVariables replaces {{NAME}} with vars[NAME].
// Unknown variables expand to an empty string.
// Example: {{WORKSPACE}}/README.md -> /home/me/repo/README.md
func expandTemplateVariables(data []byte, vars map[string]string) []byte {
	return templateVar.ReplaceAllFunc(data, func(m []byte) []byte {
		name := templateVar.FindSubmatch(m)[1]
		return []byte(vars[string(name)])
	})
}
