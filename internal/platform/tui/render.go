package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
)

// colorCodes maps core.Color to ANSI 256-color codes.
var colorCodes = map[core.Color]string{
	core.ColorRed:          "1",
	core.ColorGreen:        "2",
	core.ColorYellow:       "3",
	core.ColorBlue:         "4",
	core.ColorCyan:         "6",
	core.ColorWhite:        "7",
	core.ColorBrightRed:    "9",
	core.ColorBrightGreen:  "10",
	core.ColorBrightYellow: "11",
	core.ColorBrightBlue:   "12",
	core.ColorMaroon:       "88",
	core.ColorTeal:         "30",
	core.ColorGray:         "245",
	core.ColorDarkGray:     "238",
}

type styleKey struct {
	color   core.Color
	reverse bool
}

var styles = buildStyles()

func buildStyles() map[styleKey]lipgloss.Style {
	out := make(map[styleKey]lipgloss.Style, 2*(len(colorCodes)+1))
	for _, reverse := range []bool{false, true} {
		out[styleKey{core.ColorDefault, reverse}] = lipgloss.NewStyle().Reverse(reverse)
		for c, code := range colorCodes {
			out[styleKey{c, reverse}] = lipgloss.NewStyle().
				Foreground(lipgloss.Color(code)).
				Reverse(reverse)
		}
	}
	return out
}

func styleFor(c core.Cell) lipgloss.Style {
	if s, ok := styles[styleKey{c.Color, c.Reverse}]; ok {
		return s
	}
	return styles[styleKey{core.ColorDefault, c.Reverse}]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same style share one escape sequence.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			first := s.GetCell(x, y)

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != first.Color || cell.Reverse != first.Reverse {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(styleFor(first).Render(run.String()))
		}
	}
	return sb.String()
}
