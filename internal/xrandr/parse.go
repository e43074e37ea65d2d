package xrandr

import (
	"regexp"
	"strconv"
	"strings"
)

// Parsing of xrandr's human-oriented report lives here and nowhere else, so a
// format change in the tool is a single-point fix.

var (
	// "eDP-1 connected primary 1920x1080+0+1080 (normal ...) 344mm x 194mm"
	// "HDMI-1 connected (normal ...)"  <- connected but not in the layout
	// A rotated output carries its rotation word next to the geometry; the
	// side varies between xrandr versions, so both are tolerated.
	outputHeaderRe = regexp.MustCompile(`^(\S+) (connected|disconnected)(?: (primary))?(?: (?:normal|left|right|inverted))?(?: (\d+x\d+\+\d+\+\d+))?`)

	// "   1920x1080     60.02*+  59.97"
	modeLineRe = regexp.MustCompile(`^\s+(\d+)x(\d+)[a-z]?\s+(.*)$`)

	// " 0: +*eDP-1 1920/344x1080/194+0+1080  eDP-1"
	monitorLineRe = regexp.MustCompile(`^\s*\d+:\s+\S+\s+\S+\s+(\S+)\s*$`)
)

// ParseQuery parses the output of `xrandr --query` into the output model.
func ParseQuery(report string) []Output {
	var outputs []Output

	for _, line := range strings.Split(report, "\n") {
		if strings.HasPrefix(line, "Screen ") {
			continue
		}

		if m := outputHeaderRe.FindStringSubmatch(line); m != nil {
			outputs = append(outputs, Output{
				Name:      m[1],
				Connected: m[2] == "connected",
				Primary:   m[3] == "primary",
				Active:    m[4] != "",
				Geometry:  m[4],
			})
			continue
		}

		if len(outputs) == 0 {
			continue
		}

		if m := modeLineRe.FindStringSubmatch(line); m != nil {
			width, _ := strconv.Atoi(m[1])
			height, _ := strconv.Atoi(m[2])
			mode := Mode{
				Name:   m[1] + "x" + m[2],
				Width:  width,
				Height: height,
			}
			// Refresh columns carry the markers: '*' current, '+' preferred.
			mode.Current = strings.Contains(m[3], "*")
			mode.Preferred = strings.Contains(m[3], "+")

			cur := &outputs[len(outputs)-1]
			cur.Modes = append(cur.Modes, mode)
		}
	}

	return outputs
}

// ParseMonitors parses the output of `xrandr --listmonitors` into the list of
// monitor names the server currently knows about.
func ParseMonitors(listing string) []string {
	var names []string
	for _, line := range strings.Split(listing, "\n") {
		if m := monitorLineRe.FindStringSubmatch(line); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}

// ExtractModeAssignments pulls (output, mode) pairs out of a saved raw
// report. Only connected output headers and their indented mode lines are
// considered; relative placement is not recoverable from the report and is
// intentionally not extracted.
func ExtractModeAssignments(report string) []Placement {
	var (
		assignments []Placement
		current     string
	)

	for _, line := range strings.Split(report, "\n") {
		if strings.Contains(line, "disconnected") {
			current = ""
			continue
		}

		if m := outputHeaderRe.FindStringSubmatch(line); m != nil {
			current = m[1]
			continue
		}

		if current == "" {
			continue
		}

		if m := modeLineRe.FindStringSubmatch(line); m != nil {
			// The first mode carrying the current marker is the one the
			// snapshot was taken with; fall back to the first listed mode.
			if strings.Contains(m[3], "*") || !hasAssignment(assignments, current) {
				setAssignment(&assignments, current, m[1]+"x"+m[2], strings.Contains(m[3], "*"))
			}
		}
	}

	return assignments
}

func hasAssignment(assignments []Placement, output string) bool {
	for _, a := range assignments {
		if a.Output == output {
			return true
		}
	}
	return false
}

func setAssignment(assignments *[]Placement, output, mode string, current bool) {
	for i := range *assignments {
		if (*assignments)[i].Output == output {
			if current {
				(*assignments)[i].Mode = mode
			}
			return
		}
	}
	*assignments = append(*assignments, Placement{Output: output, Mode: mode})
}
