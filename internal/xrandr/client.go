package xrandr

import (
	"fmt"
	"os/exec"
	"strings"
)

// Client wraps the xrandr binary. Every call is a blocking subprocess
// invocation against the display server; there is no caching and no timeout.
type Client struct {
	bin string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBinary overrides the xrandr binary name (used by tests).
func WithBinary(bin string) ClientOption {
	return func(c *Client) { c.bin = bin }
}

// NewClient creates a client for the system xrandr binary.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{bin: "xrandr"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available returns true if xrandr is installed.
func (c *Client) Available() bool {
	_, err := exec.LookPath(c.bin)
	return err == nil
}

func (c *Client) run(args ...string) error {
	if !c.Available() {
		return ErrXrandrNotAvailable
	}
	cmd := exec.Command(c.bin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s %s failed: %w (%s)", c.bin, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (c *Client) output(args ...string) (string, error) {
	if !c.Available() {
		return "", ErrXrandrNotAvailable
	}
	out, err := exec.Command(c.bin, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s %s failed: %w", c.bin, strings.Join(args, " "), err)
	}
	return string(out), nil
}

// Snapshot queries the current display state. Callers must re-query before
// every operation; hotplug can invalidate a snapshot at any time.
func (c *Client) Snapshot() (*State, error) {
	report, err := c.output("--query")
	if err != nil {
		return nil, err
	}
	listing, err := c.output("--listmonitors")
	if err != nil {
		return nil, err
	}

	return &State{
		Outputs:   ParseQuery(report),
		Monitors:  ParseMonitors(listing),
		RawReport: report,
	}, nil
}

// Apply issues a single output assignment.
func (c *Client) Apply(p Placement) error {
	args := []string{"--output", p.Output}
	if p.Mode != "" {
		args = append(args, "--mode", p.Mode)
	} else {
		args = append(args, "--auto")
	}
	if p.Relation != RelationNone && p.Anchor != "" {
		args = append(args, p.Relation.Flag(), p.Anchor)
	}
	if p.Primary {
		args = append(args, "--primary")
	}
	return c.run(args...)
}

// Off disables an output. Disabling an already-off output is not an error at
// the xrandr level, and callers tolerate failure here anyway.
func (c *Client) Off(name string) error {
	return c.run("--output", name, "--off")
}

// AutoAll lets the server pick a default configuration for every output.
func (c *Client) AutoAll() error {
	return c.run("--auto")
}
