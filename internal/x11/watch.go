package x11

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb/randr"
)

// Watcher listens for RandR screen-change events and invokes a callback
// after the burst settles. Plugging a monitor in typically produces several
// events back to back; the debounce collapses them into one reconfiguration.
type Watcher struct {
	conn     *Connection
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher creates a hotplug watcher on an established connection.
func NewWatcher(conn *Connection, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{conn: conn, debounce: debounce, logger: logger}
}

// Run subscribes to screen-change notifications and blocks, calling onChange
// once per settled burst. Returns when the X connection drops.
func (w *Watcher) Run(onChange func()) error {
	err := randr.SelectInput(
		w.conn.XUtil.Conn(),
		w.conn.Root,
		randr.NotifyMaskScreenChange|randr.NotifyMaskOutputChange,
	).Check()
	if err != nil {
		return fmt.Errorf("failed to subscribe to randr events: %w", err)
	}

	events := make(chan struct{}, 1)
	done := make(chan error, 1)

	go func() {
		for {
			ev, xerr := w.conn.XUtil.Conn().WaitForEvent()
			if ev == nil && xerr == nil {
				done <- fmt.Errorf("x connection closed")
				return
			}
			if xerr != nil {
				w.logger.Warn("x event error", "error", xerr)
				continue
			}
			switch ev.(type) {
			case randr.ScreenChangeNotifyEvent, randr.NotifyEvent:
				select {
				case events <- struct{}{}:
				default:
				}
			}
		}
	}()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-events:
			w.logger.Debug("screen change event")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.logger.Info("screen change settled, reconfiguring")
			onChange()
		case err := <-done:
			return err
		}
	}
}
