package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the effective xlayout configuration.
type Config struct {
	// ExternalPlacement places the external output relative to the primary
	// in the single layout: above, left-of, right-of.
	ExternalPlacement string `yaml:"external_placement"`

	// WideModeMinWidth is the horizontal pixel count treated as "4K or
	// better" by mode selection.
	WideModeMinWidth int `yaml:"wide_mode_min_width"`

	// PlacementRetries bounds attempts per placement command.
	PlacementRetries int `yaml:"placement_retries"`
	// PlacementRetryDelaySeconds is the pause between attempts.
	PlacementRetryDelaySeconds int `yaml:"placement_retry_delay_seconds"`

	// WMReloadCommand is run after a layout is applied so the window
	// manager can pick up the new geometry (e.g. "i3-msg restart").
	// Empty disables the reload.
	WMReloadCommand string `yaml:"wm_reload_command"`

	// MenuBackend selects the menu launcher: auto, rofi, dmenu, wofi, fuzzel.
	MenuBackend string `yaml:"menu_backend"`

	// WatchDebounceMS coalesces bursts of screen-change events while
	// watching for hotplug.
	WatchDebounceMS int `yaml:"watch_debounce_ms"`

	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// LoggingConfig configures the action log.
type LoggingConfig struct {
	Enabled   *bool  `yaml:"enabled,omitempty"`
	File      string `yaml:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb,omitempty"`
	MaxFiles  int    `yaml:"max_files,omitempty"`
}

// LogEnabled reports whether action logging is on (default true).
func (l LoggingConfig) LogEnabled() bool {
	if l.Enabled == nil {
		return true
	}
	return *l.Enabled
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ExternalPlacement:          "above",
		WideModeMinWidth:           3840,
		PlacementRetries:           3,
		PlacementRetryDelaySeconds: 1,
		MenuBackend:                "auto",
		WatchDebounceMS:            500,
		Logging: LoggingConfig{
			MaxSizeMB: 5,
			MaxFiles:  3,
		},
	}
}

// DefaultConfigPath returns ~/.config/xlayout/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "xlayout", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads configuration from path, merged over the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ExternalPlacement {
	case "above", "left-of", "left", "right-of", "right":
	default:
		return fmt.Errorf("external_placement must be above, left-of or right-of, got %q", c.ExternalPlacement)
	}
	if c.WideModeMinWidth < 0 {
		return fmt.Errorf("wide_mode_min_width must not be negative")
	}
	if c.PlacementRetries < 1 {
		return fmt.Errorf("placement_retries must be at least 1")
	}
	if c.PlacementRetryDelaySeconds < 0 {
		return fmt.Errorf("placement_retry_delay_seconds must not be negative")
	}
	switch c.MenuBackend {
	case "auto", "rofi", "dmenu", "wofi", "fuzzel":
	default:
		return fmt.Errorf("menu_backend must be auto, rofi, dmenu, wofi or fuzzel, got %q", c.MenuBackend)
	}
	if c.WatchDebounceMS < 0 {
		return fmt.Errorf("watch_debounce_ms must not be negative")
	}
	return nil
}
