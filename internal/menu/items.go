package menu

// BuildItems assembles the xlayout menu: the layout branches, cleanup, and
// one entry per saved profile. Each selectable item carries the argv the
// selection re-invokes the executable with.
func BuildItems(profiles []string) []Item {
	items := []Item{
		{Label: "Layouts", IsHeader: true},
		{Label: "Auto detect", Args: []string{"auto"}, Icon: "video-display"},
		{Label: "Single external", Args: []string{"single"}, Icon: "video-display"},
		{Label: "Triple monitor", Args: []string{"triple"}, Icon: "video-display"},
		{Label: "Clean ghost outputs", Args: []string{"clean"}, Icon: "edit-clear"},
	}

	if len(profiles) > 0 {
		items = append(items, Item{Label: "────────", IsDivider: true})
		items = append(items, Item{Label: "Profiles", IsHeader: true})
		for _, name := range profiles {
			items = append(items, Item{
				Label: "Load " + name,
				Args:  []string{"load", name},
				Icon:  "document-open",
			})
		}
	}

	return items
}
