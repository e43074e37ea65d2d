package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/xlayout/internal/config"
	"github.com/1broseidon/xlayout/internal/layout"
	"github.com/1broseidon/xlayout/internal/profile"
	"github.com/1broseidon/xlayout/internal/xrandr"
)

type fakeCommander struct {
	state *xrandr.State

	applied []string
	off     []string
	autoAll int

	snapshotErr error
	failOutputs map[string]bool
}

func (f *fakeCommander) Snapshot() (*xrandr.State, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	return f.state, nil
}

func (f *fakeCommander) Apply(p xrandr.Placement) error {
	if f.failOutputs[p.Output] {
		return fmt.Errorf("cannot configure %s", p.Output)
	}
	desc := p.Output
	if p.Mode != "" {
		desc += " " + p.Mode
	}
	if p.Relation != xrandr.RelationNone {
		desc += fmt.Sprintf(" %s %s", p.Relation, p.Anchor)
	}
	if p.Primary {
		desc += " primary"
	}
	f.applied = append(f.applied, desc)
	return nil
}

func (f *fakeCommander) Off(name string) error {
	f.off = append(f.off, name)
	return nil
}

func (f *fakeCommander) AutoAll() error {
	f.autoAll++
	return nil
}

func dualState() *xrandr.State {
	return &xrandr.State{
		Outputs: []xrandr.Output{
			{Name: "eDP-1", Connected: true, Primary: true, Active: true, Modes: []xrandr.Mode{
				{Name: "1920x1080", Width: 1920, Height: 1080, Preferred: true, Current: true},
			}},
			{Name: "HDMI-1", Connected: true, Modes: []xrandr.Mode{
				{Name: "3840x2160", Width: 3840, Height: 2160, Preferred: true},
				{Name: "1920x1080", Width: 1920, Height: 1080},
			}},
		},
		Monitors: []string{"eDP-1", "HDMI-1"},
	}
}

func newTestEngine(cmd Commander) *Engine {
	return New(cmd, config.DefaultConfig(), nil)
}

func TestApplyAutoDualScreen(t *testing.T) {
	fake := &fakeCommander{state: dualState()}
	e := newTestEngine(fake)

	plan, reset, err := e.Apply(layout.KindAuto)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if reset {
		t.Fatal("A clean application must not report a reset")
	}
	if plan.Kind != layout.KindSingle {
		t.Errorf("Expected auto to pick single for 2 outputs, got %s", plan.Kind)
	}

	want := []string{
		"eDP-1 primary",
		"HDMI-1 3840x2160 above eDP-1",
	}
	if len(fake.applied) != len(want) {
		t.Fatalf("Expected %d placements, got %v", len(want), fake.applied)
	}
	for i, w := range want {
		if fake.applied[i] != w {
			t.Errorf("Placement %d: expected %q, got %q", i, w, fake.applied[i])
		}
	}
}

func TestApplyCleansGhostsFirst(t *testing.T) {
	st := dualState()
	st.Monitors = append(st.Monitors, "DP-9")
	fake := &fakeCommander{state: st}
	e := newTestEngine(fake)

	if _, _, err := e.Apply(layout.KindAuto); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(fake.off) != 1 || fake.off[0] != "DP-9" {
		t.Errorf("Expected ghost DP-9 disabled before placement, got %v", fake.off)
	}
}

func TestApplySnapshotError(t *testing.T) {
	fake := &fakeCommander{snapshotErr: errors.New("no display")}
	e := newTestEngine(fake)

	if _, _, err := e.Apply(layout.KindAuto); err == nil {
		t.Error("Expected error when the display cannot be read")
	}
}

func TestApplyReportsResetFallback(t *testing.T) {
	fake := &fakeCommander{
		state:       dualState(),
		failOutputs: map[string]bool{"HDMI-1": true},
	}
	cfg := config.DefaultConfig()
	cfg.PlacementRetries = 1
	e := New(fake, cfg, nil)

	plan, reset, err := e.Apply(layout.KindAuto)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !reset {
		t.Error("Expected the fallback reset to be reported")
	}
	if plan == nil {
		t.Fatal("Expected the planned layout to be returned")
	}

	// The reset put the reachable output back into automatic mode.
	last := fake.applied[len(fake.applied)-1]
	if last != "eDP-1" {
		t.Errorf("Expected a final automatic-mode reset of eDP-1, got %q", last)
	}
}

func TestCleanReportsDisabledOutputs(t *testing.T) {
	st := dualState()
	st.Monitors = append(st.Monitors, "DP-9")
	st.Outputs = append(st.Outputs, xrandr.Output{
		Name: "DP-2", Active: true, Geometry: "1920x1080+0+0",
	})
	fake := &fakeCommander{state: st}
	e := newTestEngine(fake)

	cleaned, err := e.Clean()
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if len(cleaned) != 2 {
		t.Errorf("Expected 2 cleaned outputs, got %v", cleaned)
	}
	if len(fake.applied) != 0 {
		t.Errorf("Clean should not place anything, got %v", fake.applied)
	}
}

const savedReport = `Screen 0: minimum 320 x 200, current 3840 x 3240, maximum 16384 x 16384
eDP-1 connected primary 1920x1080+960+2160 (normal left inverted right x axis y axis) 344mm x 194mm
   1920x1080     60.02*+  59.97
HDMI-1 connected 3840x2160+0+0 (normal left inverted right x axis y axis) 600mm x 340mm
   3840x2160     60.00*+
   1920x1080     60.00
DP-1 disconnected (normal left inverted right x axis y axis)
Monitors: 2
 0: +*eDP-1 1920/344x1080/194+960+2160  eDP-1
 1: +HDMI-1 3840/600x2160/340+0+0  HDMI-1
`

func TestSaveAndLoadProfile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	st := dualState()
	st.RawReport = savedReport
	fake := &fakeCommander{state: st}
	e := newTestEngine(fake)

	if err := e.Save("desk"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := profile.Read("desk"); err != nil {
		t.Fatalf("Saved profile not readable: %v", err)
	}

	restored, err := e.Load("desk")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if restored != 2 {
		t.Errorf("Expected 2 restored outputs, got %d", restored)
	}
	if fake.autoAll != 1 {
		t.Errorf("Expected one full auto reset before restoring modes, got %d", fake.autoAll)
	}
	want := []string{"eDP-1 1920x1080", "HDMI-1 3840x2160"}
	if len(fake.applied) != len(want) {
		t.Fatalf("Expected %d mode restores, got %v", len(want), fake.applied)
	}
	for i, w := range want {
		if fake.applied[i] != w {
			t.Errorf("Restore %d: expected %q, got %q", i, w, fake.applied[i])
		}
	}
}

func TestLoadMissingProfile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	fake := &fakeCommander{state: dualState()}
	e := newTestEngine(fake)

	_, err := e.Load("nope")
	if !errors.Is(err, profile.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if fake.autoAll != 0 || len(fake.applied) != 0 {
		t.Error("A missing profile must not touch the display")
	}
}

func TestApplyRunsWMReload(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "reloaded")

	cfg := config.DefaultConfig()
	cfg.WMReloadCommand = "touch " + marker

	fake := &fakeCommander{state: dualState()}
	e := New(fake, cfg, nil)

	if _, _, err := e.Apply(layout.KindAuto); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Error("Expected WM reload command to run after placement")
	}
}
