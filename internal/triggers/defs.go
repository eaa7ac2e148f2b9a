// Package triggers maps numeric trigger types to human-readable names
// loaded from a YAML definitions file. Definitions are game-specific and
// optional; unknown values fall back to generated placeholder names.
package triggers

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defs holds the trigger-type name table for one game.
type Defs struct {
	Game  string             `yaml:"game"`
	Types map[uint32]TypeDef `yaml:"triggers"`
}

// TypeDef names one trigger type and its subtypes.
type TypeDef struct {
	Name     string            `yaml:"name"`
	Subtypes map[uint32]string `yaml:"subtypes"`
}

// LoadDefs reads a definitions file from disk.
func LoadDefs(path string) (*Defs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trigger defs: %w", err)
	}
	return ParseDefs(data)
}

// ParseDefs parses a YAML definitions document.
func ParseDefs(data []byte) (*Defs, error) {
	d := &Defs{}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("parsing trigger defs: %w", err)
	}
	return d, nil
}

// TypeName returns the name of a trigger type, or a Trig_<n> placeholder
// when the type is unknown or no definitions are loaded.
func (d *Defs) TypeName(t uint32) string {
	if d != nil {
		if def, ok := d.Types[t]; ok && def.Name != "" {
			return def.Name
		}
	}
	return fmt.Sprintf("Trig_%d", t)
}

// SubtypeName returns the name of a trigger subtype, or a TrigSub_<n>
// placeholder.
func (d *Defs) SubtypeName(t, sub uint32) string {
	if d != nil {
		if def, ok := d.Types[t]; ok {
			if name, ok := def.Subtypes[sub]; ok && name != "" {
				return name
			}
		}
	}
	return fmt.Sprintf("TrigSub_%d", sub)
}
