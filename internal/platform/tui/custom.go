package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

var customLabels = [...]string{"Width", "Height", "Mines"}

// CustomModel is a small form for choosing a custom board.
type CustomModel struct {
	cfg      config.Config
	inputs   []textinput.Model
	focus    int
	width    int
	err      string
	preset   *config.Preset
	back     bool
	quitting bool
}

// NewCustomModel creates the form, prefilled with the default preset.
func NewCustomModel(cfg config.Config, width int) CustomModel {
	def := cfg.DefaultPreset()
	values := [...]int{def.Width, def.Height, def.Mines}

	inputs := make([]textinput.Model, len(customLabels))
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 4
		ti.Width = 6
		ti.Prompt = ""
		ti.SetValue(strconv.Itoa(values[i]))
		inputs[i] = ti
	}
	inputs[0].Focus()

	return CustomModel{
		cfg:    cfg,
		inputs: inputs,
		width:  width,
	}
}

// Init starts the cursor blink.
func (m CustomModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the form.
func (m CustomModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			m.back = true
			return m, tea.Quit
		case "tab", "down":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			return m, m.setFocus(m.focus - 1)
		case "enter":
			if m.focus < len(m.inputs)-1 {
				return m, m.setFocus(m.focus + 1)
			}
			if m.submit() {
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *CustomModel) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	m.inputs[m.focus].Blur()
	m.focus = (i + n) % n
	return m.inputs[m.focus].Focus()
}

// submit validates the form. On success the preset is set.
func (m *CustomModel) submit() bool {
	vals := make([]int, len(m.inputs))
	for i, in := range m.inputs {
		v, err := strconv.Atoi(strings.TrimSpace(in.Value()))
		if err != nil {
			m.err = customLabels[i] + " must be a number"
			return false
		}
		vals[i] = v
	}

	p, err := m.cfg.Custom(vals[0], vals[1], vals[2])
	if err != nil {
		m.err = err.Error()
		return false
	}
	m.err = ""
	m.preset = &p
	return true
}

// View renders the form.
func (m CustomModel) View() string {
	if m.quitting || m.back || m.preset != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("CUSTOM BOARD"), m.width))
	b.WriteString("\n\n")

	for i, in := range m.inputs {
		label := customLabels[i]
		line := lipgloss.NewStyle().Width(8).Render(label) + in.View()
		if i == m.focus {
			line = menuSelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	limits := m.cfg.Limits
	hint := fmt.Sprintf("max %dx%d, mines below width*height", limits.MaxWidth, limits.MaxHeight)
	b.WriteString(centerText(menuDimStyle.Render(hint), m.width))
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(centerText(errorStyle.Render(m.err), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuDimStyle.Render("Tab: Next field  |  Enter: Start  |  Esc: Back"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Preset returns the chosen board, or nil if the form was left.
func (m CustomModel) Preset() *config.Preset {
	return m.preset
}

// IsGoingBack returns true if the user left the form.
func (m CustomModel) IsGoingBack() bool {
	return m.back
}

// IsQuitting returns true if the user wants to quit entirely.
func (m CustomModel) IsQuitting() bool {
	return m.quitting
}
