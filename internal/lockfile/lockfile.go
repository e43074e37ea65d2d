package lockfile

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
)

// ErrHeld is returned when another live process holds the lock.
var ErrHeld = errors.New("another instance is already running")

// Lock is a single advisory claim on a well-known path, recorded as the
// holder's PID. At most one lock is active at a time; a lock whose holder
// has died is stale and is reclaimed by the next acquirer.
type Lock struct {
	path string
	pid  int
}

// Acquire claims the lock at path. An existing file is only honored while
// the recorded process is alive; stale locks are removed and re-acquired.
func Acquire(path string) (*Lock, error) {
	if data, err := os.ReadFile(path); err == nil {
		if pid, ok := parsePID(data); ok && processAlive(pid) {
			return nil, fmt.Errorf("%w (pid %d)", ErrHeld, pid)
		}
		// Stale: holder is gone or the file is garbage.
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lock %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read lock %s: %w", path, err)
	}

	pid := os.Getpid()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("failed to write lock %s: %w", path, err)
	}
	return &Lock{path: path, pid: pid}, nil
}

// Release removes the lock file. Safe to call more than once; callers defer
// it and also invoke it from signal handlers so every exit path releases.
func (l *Lock) Release() {
	if l == nil || l.path == "" {
		return
	}
	os.Remove(l.path)
	l.path = ""
}

// ReleaseOnSignal releases the lock and exits if SIGINT or SIGTERM arrives
// while it is held, so a killed holder does not leave the file behind. The
// returned stop function uninstalls the handler; callers defer it next to
// Release.
func (l *Lock) ReleaseOnSignal() (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go l.releaseOn(ch, done, os.Exit)
	return func() {
		signal.Stop(ch)
		close(done)
	}
}

func (l *Lock) releaseOn(ch <-chan os.Signal, done <-chan struct{}, exit func(int)) {
	select {
	case sig := <-ch:
		l.Release()
		if n, ok := sig.(syscall.Signal); ok {
			exit(128 + int(n))
			return
		}
		exit(1)
	case <-done:
	}
}

// Holder returns the PID recorded in the lock file at path, if any.
func Holder(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	return parsePID(data)
}

func parsePID(data []byte) (int, bool) {
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// processAlive reports whether a process with the given PID exists. Signal 0
// probes existence without delivering anything; EPERM still means alive.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}
