// Package tui is the scenario picker shown before the live view.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/liquidbridge/internal/config"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

var presetInfo = map[string]string{
	"pair": "bead pulled off a wet neighbour",
	"dry":  "the pair without liquid",
	"wall": "bead settling on a wet floor",
	"pile": "27 wet beads dropped on a floor",
}

type Menu struct {
	cursor   int
	presets  []string
	selected string
}

func NewMenu() Menu {
	return Menu{presets: config.ListPresets()}
}

// Selected returns the chosen preset, or "" if the menu was quit.
func (m Menu) Selected() string { return m.selected }

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.presets) > 0 {
			m.selected = m.presets[m.cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("        " + cyan.Render("l i q u i d b r i d g e") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")

	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-8s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-8s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n" + dim.Render("      ↑↓ select   enter run   q quit") + "\n")
	return b.String()
}

// Pick runs the menu and returns the chosen preset.
func Pick() (string, error) {
	final, err := tea.NewProgram(NewMenu()).Run()
	if err != nil {
		return "", err
	}
	return final.(Menu).Selected(), nil
}
