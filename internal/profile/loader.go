package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/tetragramaton/smh-rtu/internal/register"
)

// Parse decodes, normalizes and validates one profile document.
func Parse(data []byte) (Profile, error) {
	var p Profile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("profile: decode: %w", err)
	}
	if err := checkExplicitScales(data); err != nil {
		return Profile{}, err
	}

	p.Normalize()
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// checkExplicitScales rejects "scale: 0". Normalize cannot tell it apart
// from an omitted scale, which defaults to 1.
func checkExplicitScales(data []byte) error {
	var doc struct {
		Registers []struct {
			Name  string   `yaml:"name"`
			Scale *float64 `yaml:"scale"`
		} `yaml:"registers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("profile: decode: %w", err)
	}
	for _, r := range doc.Registers {
		if r.Scale != nil && *r.Scale == 0 {
			return fmt.Errorf("%w: register %q: scale must be non-zero", register.ErrDefinition, r.Name)
		}
	}
	return nil
}

// Load reads a single profile file.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}
	p, err := Parse(data)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadDir loads every *.yaml and *.yml file in dir, keyed by brand:model.
// A missing directory yields an empty set. Files that fail to load are
// logged and skipped; a later file with the same key replaces an earlier one.
func LoadDir(dir string, logger zerolog.Logger) map[string]Profile {
	profiles := make(map[string]Profile)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("dir", dir).Msg("profiles directory does not exist")
		} else {
			logger.Error().Err(err).Str("dir", dir).Msg("failed to read profiles directory")
		}
		return profiles
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	for _, path := range files {
		p, err := Load(path)
		if err != nil {
			logger.Error().Err(err).Str("file", path).Msg("failed to load profile")
			continue
		}
		profiles[p.Key()] = p
		logger.Info().Str("profile", p.Key()).Str("file", path).Int("registers", len(p.Registers)).Msg("loaded profile")
	}

	return profiles
}
