package tui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/1broseidon/xlayout/internal/layout"
)

type itemKind int

const (
	itemLayout itemKind = iota
	itemClean
	itemProfile
)

// pickItem implements list.Item for the action sidebar.
type pickItem struct {
	label   string
	kind    itemKind
	layout  layout.Kind
	profile string
}

func (i pickItem) Title() string {
	switch i.kind {
	case itemProfile:
		return "@ " + i.label
	case itemClean:
		return "! " + i.label
	}
	return "  " + i.label
}

func (i pickItem) Description() string { return "" }
func (i pickItem) FilterValue() string { return i.label }

func buildPickItems(profiles []string) []list.Item {
	items := []list.Item{
		pickItem{label: "auto layout", kind: itemLayout, layout: layout.KindAuto},
		pickItem{label: "single screen", kind: itemLayout, layout: layout.KindSingle},
		pickItem{label: "triple screen", kind: itemLayout, layout: layout.KindTriple},
		pickItem{label: "reset outputs", kind: itemLayout, layout: layout.KindReset},
		pickItem{label: "clean ghosts", kind: itemClean},
	}
	for _, name := range profiles {
		items = append(items, pickItem{label: name, kind: itemProfile, profile: name})
	}
	return items
}
