package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/1broseidon/xlayout/internal/actionlog"
	"github.com/1broseidon/xlayout/internal/config"
	"github.com/1broseidon/xlayout/internal/engine"
	"github.com/1broseidon/xlayout/internal/layout"
	"github.com/1broseidon/xlayout/internal/lockfile"
	"github.com/1broseidon/xlayout/internal/profile"
	"github.com/1broseidon/xlayout/internal/runtimepath"
	"github.com/1broseidon/xlayout/internal/tui"
	"github.com/1broseidon/xlayout/internal/x11"
	"github.com/1broseidon/xlayout/internal/xrandr"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "auto", "single", "triple", "reset":
		os.Exit(runApply(os.Args[1], os.Args[2:]))
	case "clean":
		os.Exit(runClean(os.Args[2:]))
	case "save":
		os.Exit(runSave(os.Args[2:]))
	case "load":
		os.Exit(runLoad(os.Args[2:]))
	case "profiles":
		os.Exit(runProfiles(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(1)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xlayout <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  auto                Pick a layout from the connected-output count")
	fmt.Fprintln(w, "  single              External output placed relative to the primary")
	fmt.Fprintln(w, "  triple              Primary flanked by two externals")
	fmt.Fprintln(w, "  reset               Put every connected output into automatic mode")
	fmt.Fprintln(w, "  clean               Disable ghost and stale outputs")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  save <name>         Save the current display report as a profile")
	fmt.Fprintln(w, "  load <name>         Restore a saved profile's resolutions")
	fmt.Fprintln(w, "  profiles list       List saved profiles")
	fmt.Fprintln(w, "  profiles show       Print a saved profile's report")
	fmt.Fprintln(w, "  profiles delete     Delete a saved profile")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  list                List outputs as the display server reports them")
	fmt.Fprintln(w, "  status              Show a layout summary and lock state")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  menu                Pick a layout or profile from a launcher menu")
	fmt.Fprintln(w, "  tui                 Open the interactive picker")
	fmt.Fprintln(w, "  watch               Reapply the auto layout on monitor hotplug")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'xlayout <command> --help' for command-specific options.")
}

// loadEngine builds the engine every mutating command shares: config,
// xrandr client, action log.
func loadEngine(configPath string) (*engine.Engine, *config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFromPath(configPath)
	}
	if err != nil {
		return nil, nil, err
	}

	client := xrandr.NewClient()
	if !client.Available() {
		return nil, nil, xrandr.ErrXrandrNotAvailable
	}

	return engine.New(client, cfg, openActionLog(cfg)), cfg, nil
}

// openActionLog opens the action log per config. Logging failures are not
// fatal; display reconfiguration matters more than its audit trail.
func openActionLog(cfg *config.Config) *actionlog.Logger {
	if !cfg.Logging.LogEnabled() {
		return nil
	}

	path := cfg.Logging.File
	if path == "" {
		dir, err := runtimepath.StateDir()
		if err != nil {
			log.Printf("Warning: failed to resolve state directory: %v", err)
			return nil
		}
		path = filepath.Join(dir, "actions.log")
	}

	logger, err := actionlog.New(actionlog.Config{
		Enabled:   true,
		FilePath:  path,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	})
	if err != nil {
		log.Printf("Warning: failed to open action log: %v", err)
		return nil
	}
	return logger
}

// acquireLock takes the singleton lock so concurrent invocations cannot
// interleave xrandr commands.
func acquireLock() (*lockfile.Lock, error) {
	path, err := runtimepath.LockPath()
	if err != nil {
		return nil, err
	}

	lock, err := lockfile.Acquire(path)
	if err != nil {
		if errors.Is(err, lockfile.ErrHeld) {
			if pid, ok := lockfile.Holder(path); ok {
				return nil, fmt.Errorf("another xlayout instance is running (pid %d)", pid)
			}
			return nil, fmt.Errorf("another xlayout instance is running")
		}
		return nil, err
	}
	return lock, nil
}

func runApply(kindName string, args []string) int {
	fs := flag.NewFlagSet(kindName, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/xlayout/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: xlayout %s [--config PATH]\n", kindName)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Apply the layout, cleaning up ghost outputs first.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", kindName)
		fs.Usage()
		return 1
	}

	kind, err := layout.ParseKind(kindName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	eng, _, err := loadEngine(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	lock, err := acquireLock()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer lock.Release()
	stopSignals := lock.ReleaseOnSignal()
	defer stopSignals()

	plan, reset, err := eng.Apply(kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if reset {
		fmt.Fprintf(os.Stderr, "%s layout could not be applied; display was reset to automatic mode\n", plan.Kind)
		return 1
	}

	fmt.Printf("applied %s layout:\n", plan.Kind)
	for _, p := range plan.Placements {
		fmt.Printf("  %s\n", describePlacement(p))
	}
	return 0
}

func describePlacement(p xrandr.Placement) string {
	parts := []string{p.Output}
	if p.Mode != "" {
		parts = append(parts, p.Mode)
	} else {
		parts = append(parts, "auto")
	}
	if p.Relation != xrandr.RelationNone {
		parts = append(parts, string(p.Relation), p.Anchor)
	}
	if p.Primary {
		parts = append(parts, "(primary)")
	}
	return strings.Join(parts, " ")
}

func runClean(args []string) int {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/xlayout/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xlayout clean [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Disable ghost outputs and disconnected outputs that still hold")
		fmt.Fprintln(os.Stderr, "screen space, without changing the layout.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "clean takes no arguments")
		fs.Usage()
		return 1
	}

	eng, _, err := loadEngine(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	lock, err := acquireLock()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer lock.Release()
	stopSignals := lock.ReleaseOnSignal()
	defer stopSignals()

	cleaned, err := eng.Clean()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(cleaned) == 0 {
		fmt.Println("nothing to clean")
		return 0
	}
	for _, name := range cleaned {
		fmt.Printf("disabled %s\n", name)
	}
	return 0
}

func runSave(args []string) int {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/xlayout/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xlayout save [--config PATH] <name>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Save the current raw display report as a named profile.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "save requires exactly one profile name")
		fs.Usage()
		return 1
	}
	name := fs.Arg(0)

	eng, _, err := loadEngine(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := eng.Save(name); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	path, err := profile.Path(name)
	if err == nil {
		fmt.Printf("saved profile %s (%s)\n", name, path)
	} else {
		fmt.Printf("saved profile %s\n", name)
	}
	return 0
}

func runLoad(args []string) int {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/xlayout/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xlayout load [--config PATH] <name>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Restore a saved profile: outputs are reset to automatic mode, then")
		fmt.Fprintln(os.Stderr, "each recorded output is set to its saved resolution. Relative")
		fmt.Fprintln(os.Stderr, "placement is not restored.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "load requires exactly one profile name")
		fs.Usage()
		return 1
	}
	name := fs.Arg(0)

	eng, _, err := loadEngine(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	lock, err := acquireLock()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer lock.Release()
	stopSignals := lock.ReleaseOnSignal()
	defer stopSignals()

	restored, err := eng.Load(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("loaded profile %s (%d output(s) restored)\n", name, restored)
	return 0
}

func printProfilesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  xlayout profiles list")
	fmt.Fprintln(w, "  xlayout profiles show <name>")
	fmt.Fprintln(w, "  xlayout profiles delete <name>")
}

func runProfiles(args []string) int {
	if len(args) == 0 {
		printProfilesUsage(os.Stderr)
		return 1
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printProfilesUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "list":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "profiles list takes no arguments")
			return 1
		}
		names, err := profile.List()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if len(names) == 0 {
			fmt.Println("no saved profiles")
			return 0
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return 0

	case "show":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "profiles show requires exactly one profile name")
			return 1
		}
		report, err := profile.Read(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(report)
		return 0

	case "delete":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "profiles delete requires exactly one profile name")
			return 1
		}
		if err := profile.Delete(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("deleted profile %s\n", args[1])
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown profiles command: %s\n\n", args[0])
		printProfilesUsage(os.Stderr)
		return 1
	}
}

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xlayout list [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List outputs as the display server reports them.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "list takes no arguments")
		fs.Usage()
		return 1
	}

	eng, _, err := loadEngine("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	st, err := eng.Snapshot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *asJSON {
		type outputJSON struct {
			Name      string   `json:"name"`
			Connected bool     `json:"connected"`
			Primary   bool     `json:"primary"`
			Active    bool     `json:"active"`
			Geometry  string   `json:"geometry,omitempty"`
			Current   string   `json:"current_mode,omitempty"`
			Preferred string   `json:"preferred_mode,omitempty"`
			Modes     []string `json:"modes,omitempty"`
		}
		payload := struct {
			Outputs []outputJSON `json:"outputs"`
			Ghosts  []string     `json:"ghosts,omitempty"`
		}{Ghosts: st.Ghosts()}
		for _, o := range st.Outputs {
			oj := outputJSON{
				Name:      o.Name,
				Connected: o.Connected,
				Primary:   o.Primary,
				Active:    o.Active,
				Geometry:  o.Geometry,
			}
			for _, m := range o.Modes {
				oj.Modes = append(oj.Modes, m.Name)
				if m.Current {
					oj.Current = m.Name
				}
				if m.Preferred {
					oj.Preferred = m.Name
				}
			}
			payload.Outputs = append(payload.Outputs, oj)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	for _, o := range st.Outputs {
		state := "disconnected"
		if o.Connected {
			state = "connected"
		}
		line := fmt.Sprintf("%-12s %s", o.Name, state)
		if o.Primary {
			line += " primary"
		}
		if o.Geometry != "" {
			line += " " + o.Geometry
		}
		for _, m := range o.Modes {
			if m.Current {
				line += " [" + m.Name + "]"
				break
			}
		}
		fmt.Println(line)
	}

	if ghosts := st.Ghosts(); len(ghosts) > 0 {
		fmt.Printf("ghosts: %s\n", strings.Join(ghosts, ", "))
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xlayout status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show connected outputs, the layout auto would pick, and lock state.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 1
	}

	eng, _, err := loadEngine("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	st, err := eng.Snapshot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	connected := st.Connected()
	fmt.Printf("connected_outputs: %d (%s)\n", len(connected), strings.Join(st.ConnectedNames(), ", "))

	primary := "none"
	if p, ok := st.Primary(); ok {
		primary = p.Name
	}
	fmt.Printf("primary:           %s\n", primary)

	autoKind := layout.KindReset
	switch {
	case len(connected) >= 3:
		autoKind = layout.KindTriple
	case len(connected) == 2:
		autoKind = layout.KindSingle
	}
	fmt.Printf("auto_layout:       %s\n", autoKind)

	ghosts := st.Ghosts()
	fmt.Printf("ghosts:            %d", len(ghosts))
	if len(ghosts) > 0 {
		fmt.Printf(" (%s)", strings.Join(ghosts, ", "))
	}
	fmt.Println()

	if names, err := profile.List(); err == nil {
		fmt.Printf("profiles:          %d", len(names))
		if len(names) > 0 {
			fmt.Printf(" (%s)", strings.Join(names, ", "))
		}
		fmt.Println()
	}

	if path, err := runtimepath.LockPath(); err == nil {
		if pid, ok := lockfile.Holder(path); ok {
			fmt.Printf("lock:              held by pid %d\n", pid)
		} else {
			fmt.Printf("lock:              free\n")
		}
	}

	// Cross-check against the RandR protocol view when a display is
	// reachable; the CLI report and the server can disagree after hotplug.
	if conn, err := x11.NewConnection(); err == nil {
		defer conn.Close()
		if monitors, err := conn.GetMonitors(); err == nil {
			for _, m := range monitors {
				line := fmt.Sprintf("randr:             %s %dx%d+%d+%d", m.Name, m.Width, m.Height, m.X, m.Y)
				if m.Primary {
					line += " primary"
				}
				fmt.Println(line)
			}
		}
	}
	return 0
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/xlayout/config.yaml)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: xlayout tui [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive picker over layouts and saved profiles.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓  Navigate")
		fmt.Fprintln(os.Stderr, "  Enter     Apply selection")
		fmt.Fprintln(os.Stderr, "  s         Save current state as a profile")
		fmt.Fprintln(os.Stderr, "  d         Delete selected profile")
		fmt.Fprintln(os.Stderr, "  r         Refresh display state")
		fmt.Fprintln(os.Stderr, "  q, Esc    Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}

	eng, _, err := loadEngine(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := tui.Run(eng); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
