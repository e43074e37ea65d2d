package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/xlayout/internal/xrandr"
)

// renderPreview shows the outputs the display server currently reports.
func (m model) renderPreview(width int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(" Outputs")

	if m.stateErr != "" {
		errLine := lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Render(" " + m.stateErr)
		return lipgloss.JoinVertical(lipgloss.Left, title, "", errLine)
	}
	if m.state == nil {
		return title
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	normal := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	var lines []string
	for _, o := range m.state.Outputs {
		line := " " + outputLine(o)
		if o.Connected {
			lines = append(lines, normal.Render(line))
		} else {
			lines = append(lines, dim.Render(line))
		}
	}

	if ghosts := m.state.Ghosts(); len(ghosts) > 0 {
		lines = append(lines, "")
		warn := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
		lines = append(lines, warn.Render(" ghosts: "+strings.Join(ghosts, ", ")))
	}

	body := strings.Join(lines, "\n")
	return lipgloss.JoinVertical(lipgloss.Left, title, "", lipgloss.NewStyle().Width(width).Render(body))
}

func outputLine(o xrandr.Output) string {
	state := "disconnected"
	if o.Connected {
		state = "connected"
	}

	parts := []string{o.Name, state}
	if o.Primary {
		parts = append(parts, "primary")
	}
	if o.Geometry != "" {
		parts = append(parts, o.Geometry)
	}
	for _, mode := range o.Modes {
		if mode.Current {
			parts = append(parts, fmt.Sprintf("[%s]", mode.Name))
			break
		}
	}
	return strings.Join(parts, " ")
}
