// Package config loads the optional per-project `.slua.yaml` file:
// prelude function name overrides, a strict-mode toggle, and an output
// directory. Absence of the file is not an error — every field has a
// workable zero value.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the project config file `slua` looks for in the current
// directory, following the dotfile-project-config convention.
const FileName = ".slua.yaml"

// Config is the parsed project configuration. Only OutputDir is acted
// on: `slua build` places its output files there. Strict and
// PreludeNames are read from the file, but nothing in this module
// consults them; emission is the same whatever they hold.
type Config struct {
	OutputDir    string            `yaml:"output_dir"`
	Strict       bool              `yaml:"strict"`
	PreludeNames map[string]string `yaml:"prelude_names"`
}

// Default returns the configuration used when no `.slua.yaml` is
// present: current directory output, lenient mode, no renames.
func Default() *Config {
	return &Config{OutputDir: ".", PreludeNames: map[string]string{}}
}

// Load reads and parses path. A missing file is not an error: it
// returns Default(). Any other read or parse failure is returned
// wrapped with the path that caused it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.PreludeNames == nil {
		cfg.PreludeNames = map[string]string{}
	}
	return cfg, nil
}
