package menu

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

type backendKind int

const (
	kindRofi backendKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

type dmenuLikeBackend struct {
	command string
	kind    backendKind
	caps    Capabilities
}

func newRofiBackend() Backend {
	return &dmenuLikeBackend{
		command: "rofi",
		kind:    kindRofi,
		caps: Capabilities{
			Icons:         true,
			Markup:        true,
			NonSelectable: true,
			IndexOutput:   true,
			MessageBar:    true,
		},
	}
}

func newFuzzelBackend() Backend {
	return &dmenuLikeBackend{
		command: "fuzzel",
		kind:    kindFuzzel,
		caps: Capabilities{
			Icons:       true,
			IndexOutput: true,
		},
	}
}

func newWofiBackend() Backend {
	return &dmenuLikeBackend{
		command: "wofi",
		kind:    kindWofi,
		caps: Capabilities{
			Icons:  true,
			Markup: true,
		},
	}
}

func newDmenuBackend() Backend {
	// dmenu has minimal features
	return &dmenuLikeBackend{command: "dmenu", kind: kindDmenu}
}

func (b *dmenuLikeBackend) Capabilities() Capabilities {
	return b.caps
}

func (b *dmenuLikeBackend) Show(prompt string, items []Item, message string) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("menu: no items to show")
	}

	input := b.formatInput(items)
	args := b.buildArgs(prompt, message)

	cmd := exec.Command(b.command, args...)
	cmd.Stdin = strings.NewReader(input)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))

	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", b.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", b.command, err)
	}

	if selection == "" {
		return Item{}, ErrCancelled
	}

	item, err := b.parseSelection(selection, items)
	if err != nil {
		return Item{}, err
	}
	if item.IsHeader || item.IsDivider {
		return Item{}, ErrCancelled
	}
	return item, nil
}

func (b *dmenuLikeBackend) buildArgs(prompt, message string) []string {
	var args []string

	switch b.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		// Output only the index; labels may contain markup.
		args = append(args, "-format", "i")
		// The menu is a fixed set of actions, never free text.
		args = append(args, "-no-custom")
		if b.caps.Markup {
			args = append(args, "-markup-rows")
		}
		if b.caps.Icons {
			args = append(args, "-show-icons")
		}
		if message != "" {
			args = append(args, "-mesg", message)
		}

	case kindFuzzel:
		args = []string{"--dmenu"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
		args = append(args, "--index")

	case kindWofi:
		args = []string{"--dmenu"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
		args = append(args, "--allow-markup", "--allow-images")

	case kindDmenu:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}

	return args
}

func (b *dmenuLikeBackend) formatInput(items []Item) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, b.formatItem(item))
	}
	return strings.Join(lines, "\n")
}

func (b *dmenuLikeBackend) formatItem(item Item) string {
	display := sanitizeLabel(item.Label)
	if b.caps.Markup {
		display = html.EscapeString(display)
	}
	if item.IsHeader && b.caps.Markup {
		display = fmt.Sprintf("<b>%s</b>", display)
	} else if item.IsDivider && b.caps.Markup {
		display = fmt.Sprintf("<span foreground='#666666'>%s</span>", display)
	}

	// Rofi dmenu mode supports entry properties via the \0key\x1fvalue
	// protocol: a single NUL, then \x1f-delimited key/value pairs.
	if b.kind != kindRofi {
		return display
	}

	var attrs []string
	if (item.IsHeader || item.IsDivider) && b.caps.NonSelectable {
		attrs = append(attrs, "nonselectable", "true")
	}
	if item.Icon != "" && b.caps.Icons {
		attrs = append(attrs, "icon", sanitizeRofiField(item.Icon))
	}

	if len(attrs) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (b *dmenuLikeBackend) parseSelection(selection string, items []Item) (Item, error) {
	if b.caps.IndexOutput {
		idx, err := strconv.Atoi(selection)
		if err != nil {
			return b.findByLabel(selection, items)
		}
		if idx < 0 || idx >= len(items) {
			return Item{}, fmt.Errorf("menu: index %d out of range", idx)
		}
		return items[idx], nil
	}
	return b.findByLabel(selection, items)
}

func (b *dmenuLikeBackend) findByLabel(selection string, items []Item) (Item, error) {
	for _, item := range items {
		if sanitizeLabel(item.Label) == selection {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("menu: unknown selection %q", selection)
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	// Avoid breaking the \0key\x1fvalue protocol with control separators.
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimSpace(value)
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// Rofi/dmenu/wofi typically use 1 for "no selection" and 130 for Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
