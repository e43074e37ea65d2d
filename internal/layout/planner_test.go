package layout

import (
	"errors"
	"testing"

	"github.com/1broseidon/xlayout/internal/xrandr"
)

func stateOf(outputs ...xrandr.Output) *xrandr.State {
	st := &xrandr.State{Outputs: outputs}
	for _, o := range outputs {
		if o.Connected {
			st.Monitors = append(st.Monitors, o.Name)
		}
	}
	return st
}

func connectedOutput(name string, primary bool, modeNames ...string) xrandr.Output {
	return xrandr.Output{
		Name:      name,
		Connected: true,
		Active:    true,
		Primary:   primary,
		Modes:     modes(modeNames...),
	}
}

func TestBuildSingleOutputOnly(t *testing.T) {
	st := stateOf(connectedOutput("eDP-1", true, "1920x1080"))

	plan, err := Build(st, KindSingle, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(plan.Placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(plan.Placements))
	}
	p := plan.Placements[0]
	if p.Output != "eDP-1" || !p.Primary || p.Mode != "" || p.Relation != xrandr.RelationNone {
		t.Fatalf("unexpected placement: %+v", p)
	}
}

func TestBuildSingleWithExternal(t *testing.T) {
	st := stateOf(
		connectedOutput("eDP-1", true, "1920x1080"),
		connectedOutput("HDMI-1", false, "3840x2160", "1920x1080"),
	)

	plan, err := Build(st, KindSingle, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(plan.Placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(plan.Placements))
	}

	primary := plan.Placements[0]
	if primary.Output != "eDP-1" || !primary.Primary {
		t.Fatalf("unexpected primary placement: %+v", primary)
	}

	external := plan.Placements[1]
	if external.Output != "HDMI-1" || external.Relation != xrandr.RelationAbove || external.Anchor != "eDP-1" {
		t.Fatalf("unexpected external placement: %+v", external)
	}
	if external.Mode != "3840x2160" {
		t.Fatalf("expected 4K mode selection, got %q", external.Mode)
	}
}

func TestBuildSingleConfiguredRelation(t *testing.T) {
	st := stateOf(
		connectedOutput("eDP-1", true, "1920x1080"),
		connectedOutput("HDMI-1", false, "1920x1080"),
	)

	plan, err := Build(st, KindSingle, Options{ExternalRelation: xrandr.RelationRightOf})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if plan.Placements[1].Relation != xrandr.RelationRightOf {
		t.Fatalf("expected right-of placement, got %+v", plan.Placements[1])
	}
}

func TestBuildTripleFlanking(t *testing.T) {
	// Connected order decides flanks: first non-primary left, second right.
	st := stateOf(
		connectedOutput("A", true, "1920x1080"),
		connectedOutput("B", false, "1920x1080"),
		connectedOutput("C", false, "1920x1080"),
	)

	plan, err := Build(st, KindTriple, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(plan.Placements) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(plan.Placements))
	}

	if p := plan.Placements[0]; p.Output != "A" || !p.Primary {
		t.Fatalf("unexpected primary placement: %+v", p)
	}
	if p := plan.Placements[1]; p.Output != "B" || p.Relation != xrandr.RelationLeftOf || p.Anchor != "A" || p.Mode != "" {
		t.Fatalf("unexpected left placement: %+v", p)
	}
	if p := plan.Placements[2]; p.Output != "C" || p.Relation != xrandr.RelationRightOf || p.Anchor != "A" || p.Mode != "" {
		t.Fatalf("unexpected right placement: %+v", p)
	}
}

func TestBuildTripleInsufficientOutputs(t *testing.T) {
	st := stateOf(
		connectedOutput("A", true, "1920x1080"),
		connectedOutput("B", false, "1920x1080"),
	)

	_, err := Build(st, KindTriple, Options{})
	if !errors.Is(err, ErrInsufficientOutputs) {
		t.Fatalf("expected ErrInsufficientOutputs, got %v", err)
	}
}

func TestBuildNoPrimary(t *testing.T) {
	st := stateOf(
		connectedOutput("A", false, "1920x1080"),
		connectedOutput("B", false, "1920x1080"),
	)

	if _, err := Build(st, KindSingle, Options{}); !errors.Is(err, ErrNoPrimary) {
		t.Fatalf("expected ErrNoPrimary, got %v", err)
	}
	st.Outputs = append(st.Outputs, connectedOutput("C", false, "1920x1080"))
	if _, err := Build(st, KindTriple, Options{}); !errors.Is(err, ErrNoPrimary) {
		t.Fatalf("expected ErrNoPrimary, got %v", err)
	}
}

func TestBuildAutoSelectsByCount(t *testing.T) {
	cases := []struct {
		outputs int
		want    Kind
	}{
		{1, KindReset},
		{2, KindSingle},
		{3, KindTriple},
		{4, KindTriple},
	}

	names := []string{"A", "B", "C", "D"}
	for _, tc := range cases {
		var outs []xrandr.Output
		for i := 0; i < tc.outputs; i++ {
			outs = append(outs, connectedOutput(names[i], i == 0, "1920x1080"))
		}
		plan, err := Build(stateOf(outs...), KindAuto, Options{})
		if err != nil {
			t.Fatalf("Build auto with %d outputs failed: %v", tc.outputs, err)
		}
		if plan.Kind != tc.want {
			t.Fatalf("auto with %d outputs: expected %s, got %s", tc.outputs, tc.want, plan.Kind)
		}
	}
}

func TestBuildNeverPlacesGhostsOrDisconnected(t *testing.T) {
	st := stateOf(
		connectedOutput("eDP-1", true, "1920x1080"),
		connectedOutput("HDMI-1", false, "1920x1080"),
		xrandr.Output{Name: "DP-2", Connected: false, Active: true},
	)
	st.Monitors = append(st.Monitors, "DP-9") // stale entry

	for _, kind := range []Kind{KindSingle, KindAuto, KindReset} {
		plan, err := Build(st, kind, Options{})
		if err != nil {
			t.Fatalf("Build %s failed: %v", kind, err)
		}
		for _, p := range plan.Placements {
			if p.Output == "DP-2" || p.Output == "DP-9" {
				t.Fatalf("%s plan placed stale output: %+v", kind, p)
			}
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"single", "triple", "auto", "reset"} {
		if _, err := ParseKind(s); err != nil {
			t.Fatalf("ParseKind(%q): %v", s, err)
		}
	}
	if _, err := ParseKind("quad"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
