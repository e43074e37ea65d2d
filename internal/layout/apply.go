package layout

import (
	"log"
	"time"

	"github.com/1broseidon/xlayout/internal/xrandr"
)

// Commander is the narrow slice of the xrandr client the applier needs.
type Commander interface {
	Snapshot() (*xrandr.State, error)
	Apply(p xrandr.Placement) error
	Off(name string) error
}

// Applier issues a plan's placements against the display server, with
// bounded retries and a full-reset fallback. The display configuration is a
// shared global resource with no transactional guarantees; the reset is
// mitigation for partial application, not prevention.
type Applier struct {
	cmd     Commander
	retries int
	delay   time.Duration

	sleep func(time.Duration)
}

// ApplierOption configures an Applier.
type ApplierOption func(*Applier)

// WithRetries overrides the per-placement retry bound.
func WithRetries(n int) ApplierOption {
	return func(a *Applier) {
		if n > 0 {
			a.retries = n
		}
	}
}

// WithRetryDelay overrides the pause between attempts.
func WithRetryDelay(d time.Duration) ApplierOption {
	return func(a *Applier) {
		if d > 0 {
			a.delay = d
		}
	}
}

func withSleep(fn func(time.Duration)) ApplierOption {
	return func(a *Applier) { a.sleep = fn }
}

// NewApplier creates an applier with the defaults: 3 attempts per
// placement, 1 second apart.
func NewApplier(cmd Commander, opts ...ApplierOption) *Applier {
	a := &Applier{
		cmd:     cmd,
		retries: 3,
		delay:   time.Second,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CleanGhosts disables every ghost output and every disconnected output the
// server still reports as active. Disable failures are tolerated; turning
// off an already-off output is not an error. Idempotent: a second pass finds
// nothing to do.
func (a *Applier) CleanGhosts(st *xrandr.State) []string {
	var cleaned []string

	for _, name := range st.Ghosts() {
		if err := a.cmd.Off(name); err != nil {
			log.Printf("Failed to disable ghost output %s: %v", name, err)
		}
		cleaned = append(cleaned, name)
	}

	for _, o := range st.Disconnected() {
		if !o.Active {
			continue
		}
		if err := a.cmd.Off(o.Name); err != nil {
			log.Printf("Failed to disable disconnected output %s: %v", o.Name, err)
		}
		cleaned = append(cleaned, o.Name)
	}

	return cleaned
}

// Reset re-queries the display and puts it into the neutral state: ghosts
// and stale outputs off, every connected output in automatic mode.
func (a *Applier) Reset() error {
	st, err := a.cmd.Snapshot()
	if err != nil {
		return err
	}
	a.CleanGhosts(st)

	plan := buildReset(st.Connected())
	for _, p := range plan.Placements {
		if err := a.cmd.Apply(p); err != nil {
			// Last-resort path; keep going so the remaining outputs still
			// land in a sane state.
			log.Printf("Failed to reset output %s: %v", p.Output, err)
		}
	}
	return nil
}

// ApplyPlan issues each placement with retries. When a placement keeps
// failing with an explicit mode, one automatic-mode attempt is made before
// giving up. On final failure the attempt is abandoned and the display is
// reset rather than left partially configured; the returned flag reports
// that the reset fired, so callers do not present the plan as applied.
func (a *Applier) ApplyPlan(plan *Plan) (reset bool, err error) {
	for _, p := range plan.Placements {
		if a.applyWithRetry(p) {
			continue
		}

		if p.Mode != "" {
			fallback := p
			fallback.Mode = ""
			log.Printf("Placement %s with mode %s failed, retrying with automatic mode", p.Output, p.Mode)
			if a.applyWithRetry(fallback) {
				continue
			}
		}

		log.Printf("Placement of %s failed after %d attempts, resetting display", p.Output, a.retries)
		return true, a.Reset()
	}
	return false, nil
}

func (a *Applier) applyWithRetry(p xrandr.Placement) bool {
	for attempt := 1; attempt <= a.retries; attempt++ {
		err := a.cmd.Apply(p)
		if err == nil {
			return true
		}
		log.Printf("Placement of %s failed (attempt %d/%d): %v", p.Output, attempt, a.retries, err)
		if attempt < a.retries {
			a.sleep(a.delay)
		}
	}
	return false
}
