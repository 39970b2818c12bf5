// Package config loads the board presets and display options from YAML.
package config

// Config is the contents of minesweeper.yaml.
type Config struct {
	Default string        `yaml:"default"` // Preset ID used when none is given
	Presets []Preset      `yaml:"presets"`
	Limits  CustomLimits  `yaml:"limits"`
	Display DisplayConfig `yaml:"display"`
}

// Preset is a named board size.
type Preset struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Mines  int    `yaml:"mines"`
}

// CustomLimits bounds custom boards and layout files.
type CustomLimits struct {
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

// DisplayConfig controls how the board is drawn.
type DisplayConfig struct {
	CellWidth    int  `yaml:"cell_width"`    // Columns per cell, 1 or 2
	ShowCascade  bool `yaml:"show_cascade"`  // Stagger cascades by depth
	CascadeTicks int  `yaml:"cascade_ticks"` // Ticks per cascade ring
}
