//go:build !(plan9 || solaris)

package flock

import (
	"github.com/gofrs/flock"
)

// TryAcquireFlock takes an exclusive advisory lock on path without blocking.
func TryAcquireFlock(path string) (fl Flocker, err error) {
	f := flock.New(path)
	success, err := f.TryLock()
	if err != nil {
		return nil, err
	} else if !success {
		return nil, CouldntAcquire
	}
	return f, nil
}
