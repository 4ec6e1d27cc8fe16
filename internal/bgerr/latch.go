package bgerr

import "sync"

// Latch records the first error reported to it and keeps it until cleared.
// It backs the "last error" query exposed at the library boundary.
type Latch struct {
	mu  sync.Mutex
	err error
}

// Set latches err if no error is held yet and returns err unchanged, so it
// can wrap a return statement.
func (l *Latch) Set(err error) error {
	if err == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err == nil {
		l.err = err
	}
	return err
}

// Get returns the latched error, or nil.
func (l *Latch) Get() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Occurred reports whether an error has been latched.
func (l *Latch) Occurred() bool {
	return l.Get() != nil
}

// Clear forgets the latched error.
func (l *Latch) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = nil
}
