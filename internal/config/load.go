package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config file names probed in the repository root. The local file
// overlays the shared one and is meant to stay out of version control.
const (
	FileName      = ".ownerlint.yml"
	LocalFileName = ".ownerlint.local.yml"
)

// Load reads the layered configuration from dir: defaults, then
// .ownerlint.yml, then .ownerlint.local.yml. Missing files are fine;
// malformed ones are errors. CLI flags are applied by the caller on top
// of the result.
func Load(dir string) (*Config, error) {
	cfg := New()
	for _, name := range []string{FileName, LocalFileName} {
		if err := overlayFile(cfg, filepath.Join(dir, name)); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	// Unmarshal into the existing struct: fields absent from the
	// document keep their current values, which is what gives the
	// defaults -> shared -> local layering.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}
