package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/1broseidon/xlayout/internal/xrandr"
)

// ErrNotFound is returned when a named profile does not exist.
var ErrNotFound = errors.New("profile not found")

// A profile is an opaque snapshot of the raw xrandr report, saved verbatim
// under a per-user directory and keyed by name. Profiles are created by an
// explicit save, read by an explicit load, and never expire.

func profilesDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "xlayout", "profiles"), nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("profile name is required")
	}
	if strings.Contains(name, string(os.PathSeparator)) || name != filepath.Base(name) {
		return fmt.Errorf("invalid profile name %q", name)
	}
	if name == "." || name == ".." || strings.Contains(name, "..") {
		return fmt.Errorf("invalid profile name %q", name)
	}
	return nil
}

// Path returns the file path for a profile name.
func Path(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	dir, err := profilesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".conf"), nil
}

// Save writes the raw report under the given name, overwriting any existing
// profile of the same name.
func Save(name, report string) error {
	path, err := Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(report), 0644); err != nil {
		return fmt.Errorf("failed to write profile %q: %w", name, err)
	}
	return nil
}

// Read returns the saved raw report for a name.
func Read(name string) (string, error) {
	path, err := Path(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return "", fmt.Errorf("failed to read profile %q: %w", name, err)
	}
	return string(data), nil
}

// Assignments loads a profile and extracts the (output, mode) pairs it
// records. Relative placement is not reconstructable from a raw report and
// is knowingly dropped.
func Assignments(name string) ([]xrandr.Placement, error) {
	report, err := Read(name)
	if err != nil {
		return nil, err
	}
	return xrandr.ExtractModeAssignments(report), nil
}

// Delete removes a saved profile.
func Delete(name string) error {
	path, err := Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return fmt.Errorf("failed to delete profile %q: %w", name, err)
	}
	return nil
}

// List returns the saved profile names, sorted.
func List() ([]string, error) {
	dir, err := profilesDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".conf") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".conf"))
	}
	sort.Strings(out)
	return out, nil
}
