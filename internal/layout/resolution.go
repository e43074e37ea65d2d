package layout

import "github.com/1broseidon/xlayout/internal/xrandr"

// DefaultWideWidth is the horizontal pixel count treated as "4K or better".
const DefaultWideWidth = 3840

// SelectMode picks the mode to drive an external output with. Preference
// order, first match wins:
//  1. first mode at least minWidth pixels wide, in report order
//  2. the tool-marked preferred mode
//  3. the first mode in report order (xrandr lists highest resolution first)
//
// Pure function: same mode list always yields the same selection.
func SelectMode(modes []xrandr.Mode, minWidth int) (xrandr.Mode, bool) {
	if minWidth <= 0 {
		minWidth = DefaultWideWidth
	}

	for _, m := range modes {
		if m.Width >= minWidth {
			return m, true
		}
	}
	for _, m := range modes {
		if m.Preferred {
			return m, true
		}
	}
	if len(modes) > 0 {
		return modes[0], true
	}
	return xrandr.Mode{}, false
}
