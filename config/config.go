// Package config loads the driver's optional on-disk settings (spec
// component K). None of it is a language feature — it only toggles how
// the driver presents itself (REPL prompt, diagnostic color, whether the
// CPU profile flag is honored).
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is where the driver looks for settings when -config is not
// given, mirroring how the teacher's sibling example repos default to a
// dotfile in the working directory before falling back to built-in
// defaults.
const DefaultPath = ".loxrc.toml"

// Config holds every driver-level setting a .loxrc.toml may override.
type Config struct {
	Color          bool   `toml:"color"`
	Prompt         string `toml:"prompt"`
	AllowProfiling bool   `toml:"allow_profiling"`
}

// Default returns the settings the driver uses when no config file is
// present or none is requested.
func Default() Config {
	return Config{Color: true, Prompt: "> ", AllowProfiling: true}
}

// Load reads path and overlays it onto Default(). A missing file is not
// an error — the driver just runs with defaults; a present-but-malformed
// file is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
