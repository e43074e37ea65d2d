//go:build !windows

package xrandr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupStubXrandr installs a fake xrandr script on PATH that logs its
// arguments and replays canned report text.
func setupStubXrandr(t *testing.T) (logPath string) {
	t.Helper()

	dir := t.TempDir()
	binPath := filepath.Join(dir, "xrandr")
	logPath = filepath.Join(dir, "xrandr.log")

	script := `#!/bin/sh
set -eu

printf '%s\n' "$*" >> "${XRANDR_STUB_LOG}"

case "${1:-}" in
  --query)
    cat "${XRANDR_STUB_QUERY}"
    ;;
  --listmonitors)
    cat "${XRANDR_STUB_MONITORS}"
    ;;
  *)
    if [ -n "${XRANDR_STUB_FAIL_ON:-}" ] && printf '%s' "$*" | grep -q -e "${XRANDR_STUB_FAIL_ON}"; then
      echo "cannot set mode" 1>&2
      exit 1
    fi
    ;;
esac
`
	if err := os.WriteFile(binPath, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write stub xrandr: %v", err)
	}

	queryPath := filepath.Join(dir, "query.txt")
	if err := os.WriteFile(queryPath, []byte(sampleQuery), 0644); err != nil {
		t.Fatalf("failed to write stub query: %v", err)
	}
	monitorsPath := filepath.Join(dir, "monitors.txt")
	if err := os.WriteFile(monitorsPath, []byte(sampleMonitors), 0644); err != nil {
		t.Fatalf("failed to write stub monitors: %v", err)
	}

	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("XRANDR_STUB_LOG", logPath)
	t.Setenv("XRANDR_STUB_QUERY", queryPath)
	t.Setenv("XRANDR_STUB_MONITORS", monitorsPath)

	return logPath
}

func readStubLog(t *testing.T, logPath string) []string {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("failed to read stub log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestSnapshot(t *testing.T) {
	setupStubXrandr(t)

	st, err := NewClient().Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(st.Outputs) != 4 {
		t.Fatalf("expected 4 outputs, got %d", len(st.Outputs))
	}
	if len(st.Monitors) != 2 {
		t.Fatalf("expected 2 monitors, got %d", len(st.Monitors))
	}
	if !strings.Contains(st.RawReport, "eDP-1 connected primary") {
		t.Fatalf("raw report not preserved")
	}
	if primary, ok := st.Primary(); !ok || primary.Name != "eDP-1" {
		t.Fatalf("expected primary eDP-1, got %+v ok=%v", primary, ok)
	}
}

func TestApplyBuildsArguments(t *testing.T) {
	logPath := setupStubXrandr(t)
	c := NewClient()

	err := c.Apply(Placement{
		Output:   "HDMI-1",
		Mode:     "3840x2160",
		Relation: RelationAbove,
		Anchor:   "eDP-1",
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if err := c.Apply(Placement{Output: "eDP-1", Primary: true}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	lines := readStubLog(t, logPath)
	if len(lines) != 2 {
		t.Fatalf("expected 2 invocations, got %v", lines)
	}
	if lines[0] != "--output HDMI-1 --mode 3840x2160 --above eDP-1" {
		t.Fatalf("unexpected argv: %q", lines[0])
	}
	if lines[1] != "--output eDP-1 --auto --primary" {
		t.Fatalf("unexpected argv: %q", lines[1])
	}
}

func TestApplyCommandFailure(t *testing.T) {
	setupStubXrandr(t)
	t.Setenv("XRANDR_STUB_FAIL_ON", "--mode 9999x9999")

	err := NewClient().Apply(Placement{Output: "HDMI-1", Mode: "9999x9999"})
	if err == nil {
		t.Fatalf("expected error for failing mode set")
	}
	if !strings.Contains(err.Error(), "cannot set mode") {
		t.Fatalf("expected stderr in error, got: %v", err)
	}
}

func TestOffAndAutoAll(t *testing.T) {
	logPath := setupStubXrandr(t)
	c := NewClient()

	if err := c.Off("DP-2"); err != nil {
		t.Fatalf("Off failed: %v", err)
	}
	if err := c.AutoAll(); err != nil {
		t.Fatalf("AutoAll failed: %v", err)
	}

	lines := readStubLog(t, logPath)
	if lines[0] != "--output DP-2 --off" || lines[1] != "--auto" {
		t.Fatalf("unexpected invocations: %v", lines)
	}
}

func TestNotAvailable(t *testing.T) {
	c := NewClient(WithBinary("xlayout-definitely-missing-binary"))
	if c.Available() {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if err := c.AutoAll(); err != ErrXrandrNotAvailable {
		t.Fatalf("expected ErrXrandrNotAvailable, got %v", err)
	}
}
