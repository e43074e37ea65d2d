package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/1broseidon/xlayout/internal/menu"
	"github.com/1broseidon/xlayout/internal/profile"
)

func runMenu(args []string) int {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/xlayout/config.yaml)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: xlayout menu [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show a launcher menu of layouts and saved profiles, then run the")
		fmt.Fprintln(os.Stderr, "selected action.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Backends: rofi, dmenu, wofi, fuzzel (configured via menu_backend, default: auto).")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}

	eng, cfg, err := loadEngine(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	backend, err := menu.NewBackend(cfg.MenuBackend)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	profiles, err := profile.List()
	if err != nil {
		profiles = nil
	}

	message := ""
	if st, err := eng.Snapshot(); err == nil {
		names := st.ConnectedNames()
		message = fmt.Sprintf("%d connected: %s", len(names), strings.Join(names, ", "))
		if ghosts := st.Ghosts(); len(ghosts) > 0 {
			message += fmt.Sprintf(" • %d ghost(s)", len(ghosts))
		}
	}

	item, err := backend.Show("xlayout", menu.BuildItems(profiles), message)
	if err != nil {
		if errors.Is(err, menu.ErrCancelled) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(item.Args) == 0 {
		return 0
	}

	// Selections map onto the same subcommands the CLI exposes.
	switch item.Args[0] {
	case "auto", "single", "triple", "reset":
		return runApply(item.Args[0], nil)
	case "clean":
		return runClean(nil)
	case "load":
		if len(item.Args) != 2 {
			fmt.Fprintf(os.Stderr, "menu: malformed load selection %v\n", item.Args)
			return 1
		}
		return runLoad([]string{item.Args[1]})
	default:
		fmt.Fprintf(os.Stderr, "menu: unknown selection %v\n", item.Args)
		return 1
	}
}
