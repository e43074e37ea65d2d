// Package tui is an interactive picker over layouts and saved profiles,
// with a live view of the outputs the display server reports.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/xlayout/internal/engine"
)

// Run starts the TUI main loop.
func Run(eng *engine.Engine) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(eng), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
