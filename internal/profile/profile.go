// Package profile loads typed device profiles from YAML.
package profile

import (
	"fmt"

	"github.com/tetragramaton/smh-rtu/internal/register"
)

// Profile is one device model: metadata plus its typed registers.
type Profile struct {
	Meta      Metadata              `yaml:"meta"`
	Registers []register.Definition `yaml:"registers"`
	Version   string                `yaml:"version"`
}

type Metadata struct {
	Brand           string `yaml:"brand"`
	Model           string `yaml:"model"`
	ProtocolVersion string `yaml:"protocol_version,omitempty"`
	Notes           string `yaml:"notes,omitempty"`
}

// Key identifies a profile as "brand:model".
func (p Profile) Key() string {
	return p.Meta.Brand + ":" + p.Meta.Model
}

// Normalize fills defaults on the profile and every register.
// It MUST be called before Validate.
func (p *Profile) Normalize() {
	if p.Version == "" {
		p.Version = "1.0"
	}
	for i := range p.Registers {
		p.Registers[i].Normalize()
	}
}

// Validate checks metadata, every register and name uniqueness.
// It does not mutate.
func (p Profile) Validate() error {
	if p.Meta.Brand == "" || p.Meta.Model == "" {
		return fmt.Errorf("profile: meta.brand and meta.model are required")
	}

	seen := make(map[string]struct{}, len(p.Registers))
	for _, r := range p.Registers {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("profile %s: %w", p.Key(), err)
		}
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("profile %s: duplicate register name %q", p.Key(), r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	return nil
}

// Register looks a definition up by name.
func (p Profile) Register(name string) (register.Definition, bool) {
	for _, r := range p.Registers {
		if r.Name == name {
			return r, true
		}
	}
	return register.Definition{}, false
}
