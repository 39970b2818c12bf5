package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in every search location.
const FileName = "minesweeper.yaml"

// Load reads the configuration.
// Search order: customPath -> ~/.minesweeper/configs/minesweeper.yaml ->
// ./configs/minesweeper.yaml -> embedded default -> Default().
// Only a broken customPath is an error; other locations are skipped when
// unreadable or invalid.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath(FileName), filepath.Join("configs", FileName)} {
		if path == "" {
			continue
		}
		if data, err := os.ReadFile(path); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if cfg, err := Parse(defaultYAML); err == nil {
		return cfg, nil
	}
	return Default(), nil
}

// Parse decodes YAML, fills unset display and limit fields from Default()
// and validates every preset.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse yaml: %w", err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if len(c.Presets) == 0 {
		c.Presets = def.Presets
	}
	if c.Default == "" {
		c.Default = c.Presets[0].ID
	}
	if c.Limits.MaxWidth <= 0 {
		c.Limits.MaxWidth = def.Limits.MaxWidth
	}
	if c.Limits.MaxHeight <= 0 {
		c.Limits.MaxHeight = def.Limits.MaxHeight
	}
	if c.Display.CellWidth != 1 && c.Display.CellWidth != 2 {
		c.Display.CellWidth = def.Display.CellWidth
	}
	if c.Display.CascadeTicks <= 0 {
		c.Display.CascadeTicks = def.Display.CascadeTicks
	}
}

// Validate checks every preset and the default preset reference.
func (c Config) Validate() error {
	seen := make(map[string]bool, len(c.Presets))
	var errs []error
	for _, p := range c.Presets {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("%w: preset without id", ErrInvalidPreset))
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("%w: duplicate id %q", ErrInvalidPreset, p.ID))
			continue
		}
		seen[p.ID] = true
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if !seen[c.Default] {
		errs = append(errs, fmt.Errorf("%w: default %q", ErrUnknownPreset, c.Default))
	}
	return errors.Join(errs...)
}

// userConfigPath returns the path in the user's config directory, or empty
// if the home directory is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".minesweeper", "configs", filename)
}

// LayoutDirs returns the directories searched for layout files, highest
// priority first: ~/.minesweeper/layouts then ./layouts.
func LayoutDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".minesweeper", "layouts"))
	}
	return append(dirs, "layouts")
}
