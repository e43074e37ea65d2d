package layout

import (
	"errors"
	"fmt"

	"github.com/1broseidon/xlayout/internal/xrandr"
)

// Kind names a layout branch.
type Kind string

const (
	// KindSingle drives one external output placed relative to the primary.
	KindSingle Kind = "single"
	// KindTriple flanks the primary with two externals.
	KindTriple Kind = "triple"
	// KindAuto picks a branch from the connected-output count.
	KindAuto Kind = "auto"
	// KindReset puts every connected output into automatic mode with no
	// explicit placement. Terminal branch for unsupported counts.
	KindReset Kind = "reset"
)

// ParseKind maps a CLI argument to a layout kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSingle, KindTriple, KindAuto, KindReset:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown layout mode %q", s)
}

var (
	// ErrNoPrimary is returned when the reader cannot distinguish a primary
	// output. Planning fails rather than guessing.
	ErrNoPrimary = errors.New("cannot determine primary output")
	// ErrInsufficientOutputs is returned when fewer outputs are connected
	// than the requested layout needs.
	ErrInsufficientOutputs = errors.New("not enough connected outputs")
)

// Options tunes planning. Zero values select the defaults.
type Options struct {
	// ExternalRelation places the external output in the single branch.
	// Defaults to above.
	ExternalRelation xrandr.Relation
	// MinWideWidth is the 4K threshold for mode selection.
	MinWideWidth int
}

func (o Options) relation() xrandr.Relation {
	if o.ExternalRelation == xrandr.RelationNone {
		return xrandr.RelationAbove
	}
	return o.ExternalRelation
}

// Plan is the full assignment of modes, positions and the primary flag for
// one invocation. Plans reference only connected outputs; ghosts and
// disconnected outputs never appear.
type Plan struct {
	Kind       Kind
	Placements []xrandr.Placement
}

// Build maps the connected-output count onto a placement template:
//
//	1 output  -> that output primary, auto mode
//	2 outputs -> external placed relative to primary with its selected mode
//	3 outputs -> first non-primary left of primary, second right of, auto
//	otherwise -> neutral reset
//
// Non-primary ordering follows the report's connected order; that
// order-dependence is deliberate and is the whole placement policy for the
// triple branch.
func Build(st *xrandr.State, kind Kind, opts Options) (*Plan, error) {
	connected := st.Connected()

	if kind == KindAuto {
		switch {
		case len(connected) >= 3:
			kind = KindTriple
		case len(connected) == 2:
			kind = KindSingle
		default:
			kind = KindReset
		}
	}

	switch kind {
	case KindSingle:
		return buildSingle(st, connected, opts)
	case KindTriple:
		return buildTriple(st, connected)
	case KindReset:
		return buildReset(connected), nil
	}
	return nil, fmt.Errorf("unknown layout kind %q", kind)
}

func buildSingle(st *xrandr.State, connected []xrandr.Output, opts Options) (*Plan, error) {
	switch len(connected) {
	case 0:
		return nil, fmt.Errorf("%w: single layout needs at least 1, have 0", ErrInsufficientOutputs)
	case 1:
		return &Plan{
			Kind:       KindSingle,
			Placements: []xrandr.Placement{{Output: connected[0].Name, Primary: true}},
		}, nil
	}

	primary, ok := st.Primary()
	if !ok || !primary.Connected {
		return nil, ErrNoPrimary
	}

	external, ok := firstNonPrimary(connected, primary.Name)
	if !ok {
		return nil, fmt.Errorf("%w: no external output besides primary %s", ErrInsufficientOutputs, primary.Name)
	}

	placement := xrandr.Placement{
		Output:   external.Name,
		Relation: opts.relation(),
		Anchor:   primary.Name,
	}
	if mode, ok := SelectMode(external.Modes, opts.MinWideWidth); ok {
		placement.Mode = mode.Name
	}

	return &Plan{
		Kind: KindSingle,
		Placements: []xrandr.Placement{
			{Output: primary.Name, Primary: true},
			placement,
		},
	}, nil
}

func buildTriple(st *xrandr.State, connected []xrandr.Output) (*Plan, error) {
	if len(connected) < 3 {
		return nil, fmt.Errorf("%w: triple layout needs 3, have %d", ErrInsufficientOutputs, len(connected))
	}

	primary, ok := st.Primary()
	if !ok || !primary.Connected {
		return nil, ErrNoPrimary
	}

	var flanks []xrandr.Output
	for _, o := range connected {
		if o.Name != primary.Name {
			flanks = append(flanks, o)
		}
		if len(flanks) == 2 {
			break
		}
	}
	if len(flanks) < 2 {
		return nil, fmt.Errorf("%w: triple layout needs 2 non-primary outputs", ErrInsufficientOutputs)
	}

	return &Plan{
		Kind: KindTriple,
		Placements: []xrandr.Placement{
			{Output: primary.Name, Primary: true},
			{Output: flanks[0].Name, Relation: xrandr.RelationLeftOf, Anchor: primary.Name},
			{Output: flanks[1].Name, Relation: xrandr.RelationRightOf, Anchor: primary.Name},
		},
	}, nil
}

func buildReset(connected []xrandr.Output) *Plan {
	plan := &Plan{Kind: KindReset}
	for _, o := range connected {
		plan.Placements = append(plan.Placements, xrandr.Placement{Output: o.Name})
	}
	return plan
}

func firstNonPrimary(connected []xrandr.Output, primaryName string) (xrandr.Output, bool) {
	for _, o := range connected {
		if o.Name != primaryName {
			return o, true
		}
	}
	return xrandr.Output{}, false
}
