package flock

import (
	"errors"
)

var (
	CouldntAcquire = errors.New("Couldn't acquire flock (is another oxygen running?)")
)

// documentation for github.com/gofrs/flock incorrectly claims that
// Flock implements sync.Locker; it does not because the Unlock method
// has a return type (err).
type Flocker interface {
	Unlock() error
}

type noopFlocker struct{}

func (n *noopFlocker) Unlock() error {
	return nil
}
