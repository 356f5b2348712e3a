// Package lock serialises distribution runs and cancellations.
package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrHeld is returned when the named lock is already taken.
var ErrHeld = errors.New("lock is held")

// Locker grants exclusive, non-blocking ownership of a named lock.
type Locker interface {
	// Acquire takes the lock or fails with ErrHeld. The returned function
	// releases it and is safe to call more than once.
	Acquire(ctx context.Context, name string) (release func(), err error)
}

// Local is an in-process Locker.
type Local struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLocal creates an in-process locker.
func NewLocal() *Local {
	return &Local{held: make(map[string]bool)}
}

// Acquire implements Locker.
func (l *Local) Acquire(_ context.Context, name string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[name] {
		return nil, ErrHeld
	}
	l.held[name] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, name)
			l.mu.Unlock()
		})
	}, nil
}
