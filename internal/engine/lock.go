package engine

import (
	"github.com/1broseidon/xlayout/internal/lockfile"
	"github.com/1broseidon/xlayout/internal/runtimepath"
)

// Locked runs fn while holding the singleton lock, so long-lived front-ends
// cannot interleave display commands with a concurrent CLI invocation. They
// take the lock per operation, not per process; an idle session holds
// nothing.
func Locked(fn func() error) error {
	path, err := runtimepath.LockPath()
	if err != nil {
		return err
	}

	lock, err := lockfile.Acquire(path)
	if err != nil {
		return err
	}
	defer lock.Release()
	stop := lock.ReleaseOnSignal()
	defer stop()

	return fn()
}
