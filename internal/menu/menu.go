package menu

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the menu without selecting.
var ErrCancelled = errors.New("menu cancelled")

// Item is a single selectable entry.
type Item struct {
	Label     string   // display text
	Args      []string // argv the selection re-invokes the executable with
	Icon      string   // icon name for rofi -show-icons
	IsHeader  bool     // non-selectable section header
	IsDivider bool     // non-selectable divider line
}

// Capabilities describes what features a backend supports.
type Capabilities struct {
	Icons         bool
	Markup        bool
	NonSelectable bool
	IndexOutput   bool // can output selection index, not just text
	MessageBar    bool
}

// Backend shows a menu to the user and returns the selected item.
type Backend interface {
	Show(prompt string, items []Item, message string) (Item, error)
	Capabilities() Capabilities
}

// DetectBackend returns the first available menu backend found in PATH, in
// priority order: rofi, fuzzel, wofi, dmenu.
func DetectBackend() (string, error) {
	for _, name := range []string{"rofi", "fuzzel", "wofi", "dmenu"} {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no menu backend found in PATH (looked for: rofi, fuzzel, wofi, dmenu)")
}

// NewBackend creates a backend by name. Supported: auto, rofi, fuzzel,
// wofi, dmenu.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	var backend Backend
	switch name {
	case "rofi":
		backend = newRofiBackend()
	case "fuzzel":
		backend = newFuzzelBackend()
	case "wofi":
		backend = newWofiBackend()
	case "dmenu":
		backend = newDmenuBackend()
	default:
		return nil, fmt.Errorf("unknown menu backend: %q (expected: auto, rofi, fuzzel, wofi, dmenu)", name)
	}
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("menu backend %q not found in PATH", name)
	}
	return backend, nil
}
