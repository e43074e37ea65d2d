package xrandr

import (
	"reflect"
	"testing"
)

const sampleQuery = `Screen 0: minimum 320 x 200, current 3840 x 2160, maximum 16384 x 16384
eDP-1 connected primary 1920x1080+0+1080 (normal left inverted right x axis y axis) 344mm x 194mm
   1920x1080     60.02*+  59.97    59.96
   1680x1050     59.95
   1280x720      60.00
HDMI-1 connected 1920x1080+0+0 (normal left inverted right x axis y axis) 527mm x 296mm
   3840x2160     30.00 +
   1920x1080     60.00*
   1280x1024     75.02
DP-1 disconnected (normal left inverted right x axis y axis)
DP-2 disconnected 1920x1080+1920+0 (normal left inverted right x axis y axis) 0mm x 0mm
`

const sampleMonitors = `Monitors: 2
 0: +*eDP-1 1920/344x1080/194+0+1080  eDP-1
 1: +HDMI-1 1920/527x1080/296+0+0  HDMI-1
`

func TestParseQuery(t *testing.T) {
	outputs := ParseQuery(sampleQuery)
	if len(outputs) != 4 {
		t.Fatalf("expected 4 outputs, got %d", len(outputs))
	}

	edp := outputs[0]
	if edp.Name != "eDP-1" || !edp.Connected || !edp.Primary || !edp.Active {
		t.Fatalf("unexpected eDP-1: %+v", edp)
	}
	if edp.Geometry != "1920x1080+0+1080" {
		t.Fatalf("unexpected eDP-1 geometry: %q", edp.Geometry)
	}
	if len(edp.Modes) != 3 {
		t.Fatalf("expected 3 eDP-1 modes, got %d", len(edp.Modes))
	}
	if !edp.Modes[0].Current || !edp.Modes[0].Preferred {
		t.Fatalf("expected first eDP-1 mode to carry both markers: %+v", edp.Modes[0])
	}

	hdmi := outputs[1]
	if hdmi.Primary {
		t.Fatalf("HDMI-1 should not be primary")
	}
	if hdmi.Modes[0].Name != "3840x2160" || !hdmi.Modes[0].Preferred || hdmi.Modes[0].Current {
		t.Fatalf("unexpected HDMI-1 first mode: %+v", hdmi.Modes[0])
	}
	if hdmi.Modes[0].Width != 3840 || hdmi.Modes[0].Height != 2160 {
		t.Fatalf("unexpected HDMI-1 mode dimensions: %+v", hdmi.Modes[0])
	}

	dp1 := outputs[2]
	if dp1.Connected || dp1.Active {
		t.Fatalf("unexpected DP-1: %+v", dp1)
	}

	// Disconnected but still carrying geometry: needs cleanup, not a layout slot.
	dp2 := outputs[3]
	if dp2.Connected {
		t.Fatalf("DP-2 should be disconnected")
	}
	if !dp2.Active {
		t.Fatalf("DP-2 should still be active")
	}
}

func TestParseQueryRotatedOutput(t *testing.T) {
	report := `Screen 0: minimum 320 x 200, current 3000 x 1920, maximum 16384 x 16384
eDP-1 connected primary 1920x1080+1080+0 (normal left inverted right x axis y axis) 344mm x 194mm
   1920x1080     60.02*+
HDMI-1 connected 1080x1920+0+0 left (normal left inverted right x axis y axis) 509mm x 286mm
   1920x1080     60.00*
DP-1 connected left 1080x1920+1920+0 (normal left inverted right x axis y axis) 509mm x 286mm
   1920x1080     60.00*
`

	outputs := ParseQuery(report)
	if len(outputs) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(outputs))
	}

	// Rotation word after the geometry.
	hdmi := outputs[1]
	if !hdmi.Connected || !hdmi.Active || hdmi.Geometry != "1080x1920+0+0" {
		t.Fatalf("unexpected HDMI-1: %+v", hdmi)
	}

	// Rotation word before the geometry.
	dp1 := outputs[2]
	if !dp1.Connected || !dp1.Active || dp1.Geometry != "1080x1920+1920+0" {
		t.Fatalf("unexpected DP-1: %+v", dp1)
	}
}

func TestParseMonitors(t *testing.T) {
	names := ParseMonitors(sampleMonitors)
	want := []string{"eDP-1", "HDMI-1"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestStateGhosts(t *testing.T) {
	st := &State{
		Outputs: []Output{
			{Name: "eDP-1", Connected: true},
			{Name: "HDMI-1", Connected: false},
		},
		Monitors: []string{"eDP-1", "HDMI-1"},
	}

	ghosts := st.Ghosts()
	if !reflect.DeepEqual(ghosts, []string{"HDMI-1"}) {
		t.Fatalf("expected [HDMI-1], got %v", ghosts)
	}

	// After cleanup the listing no longer carries the stale entry.
	st.Monitors = []string{"eDP-1"}
	if got := st.Ghosts(); len(got) != 0 {
		t.Fatalf("expected no ghosts, got %v", got)
	}
}

func TestExtractModeAssignments(t *testing.T) {
	assignments := ExtractModeAssignments(sampleQuery)

	want := map[string]string{
		"eDP-1":  "1920x1080",
		"HDMI-1": "1920x1080",
	}
	if len(assignments) != len(want) {
		t.Fatalf("expected %d assignments, got %d: %v", len(want), len(assignments), assignments)
	}
	for _, a := range assignments {
		if want[a.Output] != a.Mode {
			t.Fatalf("expected %s => %s, got %s", a.Output, want[a.Output], a.Mode)
		}
		if a.Relation != RelationNone || a.Anchor != "" {
			t.Fatalf("saved reports must not yield placements: %+v", a)
		}
	}
}

func TestExtractModeAssignmentsSkipsDisconnected(t *testing.T) {
	report := `DP-1 disconnected (normal left inverted right x axis y axis)
   1920x1080     60.00
`
	if got := ExtractModeAssignments(report); len(got) != 0 {
		t.Fatalf("expected no assignments for disconnected output, got %v", got)
	}
}

func TestParseRelation(t *testing.T) {
	cases := map[string]Relation{
		"above":    RelationAbove,
		"left-of":  RelationLeftOf,
		"left":     RelationLeftOf,
		"right-of": RelationRightOf,
		"none":     RelationNone,
		"":         RelationNone,
	}
	for in, want := range cases {
		got, err := ParseRelation(in)
		if err != nil {
			t.Fatalf("ParseRelation(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRelation(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseRelation("sideways"); err == nil {
		t.Fatalf("expected error for unknown relation")
	}
}
