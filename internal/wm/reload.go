// Package wm nudges the window manager after display geometry changes so
// panels and workspaces re-fit the new layout.
package wm

import (
	"fmt"
	"os/exec"
	"strings"
)

// Reloader runs a configured reload command (e.g. "i3-msg restart").
type Reloader struct {
	command string
}

// NewReloader creates a reloader for the given shell command. An empty
// command disables reloading.
func NewReloader(command string) *Reloader {
	return &Reloader{command: strings.TrimSpace(command)}
}

// Enabled reports whether a reload command is configured.
func (r *Reloader) Enabled() bool {
	return r.command != ""
}

// Reload runs the configured command. Failures are returned for logging but
// are never fatal to the caller; the layout is already applied at this point.
func (r *Reloader) Reload() error {
	if !r.Enabled() {
		return nil
	}
	cmd := exec.Command("sh", "-c", r.command)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("wm reload %q failed: %w (%s)", r.command, err, strings.TrimSpace(string(out)))
	}
	return nil
}
