package xrandr

import (
	"errors"
	"sort"
	"strings"
)

// ErrXrandrNotAvailable is returned when xrandr is not installed
var ErrXrandrNotAvailable = errors.New("xrandr is not available in PATH")

// Mode is a single resolution entry reported for an output.
type Mode struct {
	Name      string // "1920x1080"
	Width     int
	Height    int
	Preferred bool // marked '+' in the report
	Current   bool // marked '*' in the report
}

// Output represents a display connector as reported by xrandr.
type Output struct {
	Name      string
	Connected bool
	Primary   bool
	Active    bool   // has geometry in the current layout
	Geometry  string // "1920x1080+0+0", empty when inactive
	Modes     []Mode // report order (highest resolution first)
}

// State is a one-shot snapshot of the display server's output configuration.
// Snapshots are never cached; outputs can change between calls (hotplug).
type State struct {
	Outputs   []Output
	Monitors  []string // names from the monitor listing, which may lag reality
	RawReport string   // verbatim query report, used by profile save
}

// Connected returns the connected outputs in report order.
func (s *State) Connected() []Output {
	var out []Output
	for _, o := range s.Outputs {
		if o.Connected {
			out = append(out, o)
		}
	}
	return out
}

// Disconnected returns the disconnected outputs in report order.
func (s *State) Disconnected() []Output {
	var out []Output
	for _, o := range s.Outputs {
		if !o.Connected {
			out = append(out, o)
		}
	}
	return out
}

// Primary returns the primary output, if the server reports one.
func (s *State) Primary() (Output, bool) {
	for _, o := range s.Outputs {
		if o.Primary {
			return o, true
		}
	}
	return Output{}, false
}

// Lookup finds an output by name.
func (s *State) Lookup(name string) (Output, bool) {
	for _, o := range s.Outputs {
		if o.Name == name {
			return o, true
		}
	}
	return Output{}, false
}

// ConnectedNames returns the names of connected outputs in report order.
func (s *State) ConnectedNames() []string {
	var names []string
	for _, o := range s.Connected() {
		names = append(names, o.Name)
	}
	return names
}

// Ghosts returns names present in the monitor listing but no longer
// connected. The monitor listing can retain stale entries after a physical
// disconnect; those must be turned off before a new layout is applied.
func (s *State) Ghosts() []string {
	connected := make(map[string]bool)
	for _, o := range s.Outputs {
		if o.Connected {
			connected[o.Name] = true
		}
	}

	var ghosts []string
	for _, name := range s.Monitors {
		if !connected[name] {
			ghosts = append(ghosts, name)
		}
	}
	sort.Strings(ghosts)
	return ghosts
}

// Relation is a placement of one output relative to another.
type Relation string

const (
	RelationNone    Relation = ""
	RelationAbove   Relation = "above"
	RelationLeftOf  Relation = "left-of"
	RelationRightOf Relation = "right-of"
)

// Flag returns the xrandr command-line flag for the relation.
func (r Relation) Flag() string {
	if r == RelationNone {
		return ""
	}
	return "--" + string(r)
}

// ParseRelation maps a config string to a Relation.
func ParseRelation(s string) (Relation, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "none":
		return RelationNone, nil
	case "above":
		return RelationAbove, nil
	case "left-of", "left":
		return RelationLeftOf, nil
	case "right-of", "right":
		return RelationRightOf, nil
	}
	return RelationNone, errors.New("unknown placement relation: " + s)
}

// Placement is a single output assignment within a layout. An empty Mode
// requests automatic mode selection.
type Placement struct {
	Output   string
	Mode     string
	Relation Relation
	Anchor   string // output the relation is relative to
	Primary  bool
}
