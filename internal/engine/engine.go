// Package engine ties the display reader, planner, applier and persistence
// together behind the operations the CLI, menu, watcher and MCP front-ends
// share.
package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/1broseidon/xlayout/internal/actionlog"
	"github.com/1broseidon/xlayout/internal/config"
	"github.com/1broseidon/xlayout/internal/layout"
	"github.com/1broseidon/xlayout/internal/profile"
	"github.com/1broseidon/xlayout/internal/wm"
	"github.com/1broseidon/xlayout/internal/xrandr"
)

// Commander is the display-server command surface the engine drives.
// *xrandr.Client implements it.
type Commander interface {
	Snapshot() (*xrandr.State, error)
	Apply(p xrandr.Placement) error
	Off(name string) error
	AutoAll() error
}

// Engine executes the top-level operations. One engine per invocation; it
// holds no display state of its own and re-queries before every operation.
type Engine struct {
	cmd     Commander
	cfg     *config.Config
	applier *layout.Applier
	actions *actionlog.Logger
	reload  *wm.Reloader
}

// New creates an engine from configuration. actions may be nil.
func New(cmd Commander, cfg *config.Config, actions *actionlog.Logger) *Engine {
	return &Engine{
		cmd: cmd,
		cfg: cfg,
		applier: layout.NewApplier(cmd,
			layout.WithRetries(cfg.PlacementRetries),
			layout.WithRetryDelay(time.Duration(cfg.PlacementRetryDelaySeconds)*time.Second),
		),
		actions: actions,
		reload:  wm.NewReloader(cfg.WMReloadCommand),
	}
}

func (e *Engine) planOptions() layout.Options {
	relation, err := xrandr.ParseRelation(e.cfg.ExternalPlacement)
	if err != nil {
		relation = xrandr.RelationAbove
	}
	return layout.Options{
		ExternalRelation: relation,
		MinWideWidth:     e.cfg.WideModeMinWidth,
	}
}

// Apply runs the full reconfiguration cycle for a layout kind: snapshot,
// ghost cleanup, plan, placement with retries, WM reload. The returned flag
// reports that a final placement failure fell back to a full reset, in
// which case the plan did not land.
func (e *Engine) Apply(kind layout.Kind) (*layout.Plan, bool, error) {
	st, err := e.cmd.Snapshot()
	if err != nil {
		return nil, false, err
	}

	e.applier.CleanGhosts(st)

	plan, err := layout.Build(st, kind, e.planOptions())
	if err != nil {
		return nil, false, err
	}

	reset, err := e.applier.ApplyPlan(plan)
	if err != nil {
		return nil, false, err
	}

	details := map[string]interface{}{
		"kind":    string(plan.Kind),
		"outputs": len(plan.Placements),
	}
	if reset {
		details["reset"] = true
	}
	e.actions.Log(actionlog.ActionApply, details)

	if err := e.reload.Reload(); err != nil {
		// The layout is already applied; a reload failure is worth a line,
		// nothing more.
		log.Printf("Window manager reload failed: %v", err)
	}
	return plan, reset, nil
}

// Clean disables ghost and stale outputs without touching the layout.
func (e *Engine) Clean() ([]string, error) {
	st, err := e.cmd.Snapshot()
	if err != nil {
		return nil, err
	}
	cleaned := e.applier.CleanGhosts(st)
	e.actions.Log(actionlog.ActionClean, map[string]interface{}{
		"count": len(cleaned),
	})
	return cleaned, nil
}

// Save persists the current raw report under name.
func (e *Engine) Save(name string) error {
	st, err := e.cmd.Snapshot()
	if err != nil {
		return err
	}
	if err := profile.Save(name, st.RawReport); err != nil {
		return err
	}
	e.actions.Log(actionlog.ActionSave, map[string]interface{}{
		"profile": name,
	})
	return nil
}

// Load restores a saved profile: cleanup, reset everything to automatic
// mode, then set each recorded output to its literal mode string. Relative
// placement is not recorded in profiles and is not restored. Returns the
// number of outputs restored.
func (e *Engine) Load(name string) (int, error) {
	assignments, err := profile.Assignments(name)
	if err != nil {
		return 0, err
	}

	st, err := e.cmd.Snapshot()
	if err != nil {
		return 0, err
	}
	e.applier.CleanGhosts(st)

	if err := e.cmd.AutoAll(); err != nil {
		return 0, fmt.Errorf("failed to reset outputs: %w", err)
	}

	restored := 0
	for _, a := range assignments {
		if err := e.cmd.Apply(a); err != nil {
			log.Printf("Failed to restore %s mode %s: %v", a.Output, a.Mode, err)
			continue
		}
		restored++
	}

	e.actions.Log(actionlog.ActionLoad, map[string]interface{}{
		"profile": name,
		"outputs": restored,
	})
	return restored, nil
}

// Snapshot exposes the current display state to front-ends.
func (e *Engine) Snapshot() (*xrandr.State, error) {
	return e.cmd.Snapshot()
}
