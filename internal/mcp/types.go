package mcp

// ListOutputsInput is the input for the list_outputs tool.
type ListOutputsInput struct{}

// OutputInfo describes one output as the display server reports it.
type OutputInfo struct {
	Name          string   `json:"name"`
	Connected     bool     `json:"connected"`
	Primary       bool     `json:"primary"`
	Active        bool     `json:"active"`
	Geometry      string   `json:"geometry,omitempty"`
	CurrentMode   string   `json:"current_mode,omitempty"`
	PreferredMode string   `json:"preferred_mode,omitempty"`
	Modes         []string `json:"modes,omitempty"`
}

// ListOutputsOutput is the output for the list_outputs tool.
type ListOutputsOutput struct {
	Outputs []OutputInfo `json:"outputs"`
	Ghosts  []string     `json:"ghosts,omitempty"`
}

// ApplyLayoutInput is the input for the apply_layout tool.
type ApplyLayoutInput struct {
	Mode string `json:"mode" jsonschema:"required,Layout to apply: single, triple, auto or reset"`
}

// PlacementInfo describes one placement the planner issued.
type PlacementInfo struct {
	Output   string `json:"output"`
	Mode     string `json:"mode,omitempty"`
	Position string `json:"position,omitempty"`
	Primary  bool   `json:"primary,omitempty"`
}

// ApplyLayoutOutput is the output for the apply_layout tool.
type ApplyLayoutOutput struct {
	Kind       string          `json:"kind"`
	Placements []PlacementInfo `json:"placements"`
	// Reset reports that the placements failed and the display was reset
	// to automatic mode instead.
	Reset bool `json:"reset,omitempty"`
}

// SaveProfileInput is the input for the save_profile tool.
type SaveProfileInput struct {
	Name string `json:"name" jsonschema:"required,Profile name to save the current display report under"`
}

// SaveProfileOutput is the output for the save_profile tool.
type SaveProfileOutput struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// LoadProfileInput is the input for the load_profile tool.
type LoadProfileInput struct {
	Name string `json:"name" jsonschema:"required,Profile name to restore"`
}

// LoadProfileOutput is the output for the load_profile tool.
type LoadProfileOutput struct {
	Name     string `json:"name"`
	Restored int    `json:"restored"`
}

// CleanOutputsInput is the input for the clean_outputs tool.
type CleanOutputsInput struct{}

// CleanOutputsOutput is the output for the clean_outputs tool.
type CleanOutputsOutput struct {
	Cleaned []string `json:"cleaned"`
	Count   int      `json:"count"`
}
