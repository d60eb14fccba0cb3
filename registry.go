package dbuf

import (
	"errors"
	"sync"
)

var (
	// ErrClosed is returned when a reader is requested from a closed Buffer.
	ErrClosed = errors.New("dbuf: buffer closed")

	// ErrTooManyReaders is returned when registering a reader would exceed the
	// limit set by WithMaxReaders.
	ErrTooManyReaders = errors.New("dbuf: too many readers")
)

// registry is the set of live handles for a Buffer. The writer walks it while
// holding its lock so that no handle can be removed during the walk.
type registry struct {
	mu      sync.Mutex
	max     int // <= 0 means unlimited
	closed  bool
	handles map[*handle]struct{}
}

func newRegistry(max int) *registry {
	return &registry{
		max:     max,
		handles: make(map[*handle]struct{}),
	}
}

// add registers h. It never blocks on h itself.
func (r *registry) add(h *handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.max > 0 && len(r.handles) >= r.max {
		return ErrTooManyReaders
	}
	r.handles[h] = struct{}{}
	return nil
}

// remove deregisters h and reports if it was registered. Removing a handle that
// is not registered, for example after close, is a no-op.
func (r *registry) remove(h *handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handles[h]; !ok {
		return false
	}
	delete(r.handles, h)
	return true
}

// forEach calls fn on every registered handle with the lock held.
func (r *registry) forEach(fn func(*handle)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for h := range r.handles {
		fn(h)
	}
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.handles)
}

// close drops every handle and refuses future registrations. It returns how many
// handles were dropped.
func (r *registry) close() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.handles)
	r.closed = true
	clear(r.handles)
	return n
}
