package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper/engine"
)

var (
	// ErrUnknownPreset is returned when a preset ID is not configured.
	ErrUnknownPreset = errors.New("config: unknown preset")

	// ErrInvalidPreset is returned for presets that cannot produce a board.
	ErrInvalidPreset = errors.New("config: invalid preset")

	// ErrBoardTooLarge is returned for custom boards beyond CustomLimits.
	ErrBoardTooLarge = errors.New("config: board too large")
)

const customPrefix = "custom-"

// Validate checks the preset against the board construction rules.
func (p Preset) Validate() error {
	if err := engine.Validate(p.Width, p.Height, p.Mines); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidPreset, p.ID, err)
	}
	return nil
}

// Summary describes the board, e.g. "9x9, 10 mines".
func (p Preset) Summary() string {
	return fmt.Sprintf("%dx%d, %d mines", p.Width, p.Height, p.Mines)
}

// IsCustom reports whether the preset was built from explicit dimensions.
func (p Preset) IsCustom() bool {
	return strings.HasPrefix(p.ID, customPrefix)
}

// Lookup finds a preset by ID. Custom IDs of the form custom-WxH-M are
// parsed and checked against the limits.
func (c Config) Lookup(id string) (Preset, error) {
	for _, p := range c.Presets {
		if p.ID == id {
			return p, nil
		}
	}
	if strings.HasPrefix(id, customPrefix) {
		var w, h, m int
		_, err := fmt.Sscanf(id, customPrefix+"%dx%d-%d", &w, &h, &m)
		if err == nil && customID(w, h, m) == id {
			return c.Custom(w, h, m)
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
}

// DefaultPreset returns the preset named by Default, falling back to the
// first configured preset.
func (c Config) DefaultPreset() Preset {
	if p, err := c.Lookup(c.Default); err == nil {
		return p
	}
	if len(c.Presets) > 0 {
		return c.Presets[0]
	}
	return Default().Presets[0]
}

// Custom builds a validated preset for a hand-picked board.
func (c Config) Custom(width, height, mines int) (Preset, error) {
	p := Preset{
		ID:     customID(width, height, mines),
		Name:   "Custom",
		Width:  width,
		Height: height,
		Mines:  mines,
	}
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	if err := c.Limits.Check(width, height); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func customID(width, height, mines int) string {
	return fmt.Sprintf("%s%dx%d-%d", customPrefix, width, height, mines)
}

// Check rejects boards wider or taller than the limits.
func (l CustomLimits) Check(width, height int) error {
	if width > l.MaxWidth || height > l.MaxHeight {
		return fmt.Errorf("%w: %dx%d exceeds %dx%d",
			ErrBoardTooLarge, width, height, l.MaxWidth, l.MaxHeight)
	}
	return nil
}
