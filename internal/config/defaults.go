package config

import (
	_ "embed"
)

//go:embed defaults/minesweeper.yaml
var defaultYAML []byte

// Default returns the built-in configuration, used when no YAML can be read.
func Default() Config {
	return Config{
		Default: "beginner",
		Presets: []Preset{
			{ID: "beginner", Name: "Beginner", Width: 9, Height: 9, Mines: 10},
			{ID: "intermediate", Name: "Intermediate", Width: 16, Height: 16, Mines: 40},
			{ID: "expert", Name: "Expert", Width: 30, Height: 16, Mines: 99},
		},
		Limits: CustomLimits{
			MaxWidth:  99,
			MaxHeight: 99,
		},
		Display: DisplayConfig{
			CellWidth:    2,
			ShowCascade:  true,
			CascadeTicks: 1,
		},
	}
}

// DefaultYAML returns the embedded default file, for `config` dumps.
func DefaultYAML() []byte {
	return defaultYAML
}
