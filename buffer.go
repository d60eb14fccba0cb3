package dbuf

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Buffer holds a value that many goroutines can read while one goroutine at a
// time replaces it. It must be created with New and must not be copied.
type Buffer[T any] struct {
	mu      sync.Mutex // serializes Write and Close
	closed  atomic.Bool
	slots   slots[T]
	readers *registry
	bind    binding[T]
}

// New returns a Buffer holding initial.
func New[T any](initial T, opts ...Option) *Buffer[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	b := &Buffer[T]{readers: newRegistry(o.maxReaders)}
	b.slots.init(initial)
	b.bind.b = b
	return b
}

// newReader creates and registers a Reader.
func (b *Buffer[T]) newReader(pooled bool) (*Reader[T], error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	r := &Reader[T]{b: b, h: new(handle), pooled: pooled}
	if err := b.readers.add(r.h); err != nil {
		return nil, err
	}

	// deregister the handle once the Reader is collected, either because the
	// pool dropped it or because its goroutine exited without calling Close.
	// the cleanup must not reference the Reader itself or it would never run.
	readers := b.readers
	runtime.AddCleanup(r, func(h *handle) { readers.remove(h) }, r.h)

	return r, nil
}

// NewReader returns a Reader for the calling goroutine. The Reader should be
// Closed when the goroutine is done reading; one that is dropped without being
// Closed is only deregistered once the garbage collector finds it. It fails
// with ErrClosed if the Buffer is closed and ErrTooManyReaders if the reader
// limit is reached.
func (b *Buffer[T]) NewReader() (*Reader[T], error) {
	return b.newReader(false)
}

// Read returns a Guard referencing the current value. The Guard is not Ok if a
// Reader could not be obtained because the Buffer is closed or the reader limit
// is reached. It is safe to be called concurrently.
func (b *Buffer[T]) Read() Guard[T] {
	if b.closed.Load() {
		return Guard[T]{}
	}

	r, err := b.bind.get()
	if err != nil {
		return Guard[T]{}
	}

	g := r.Read()
	if !g.Ok() {
		b.bind.put(r)
	}
	return g
}

// Load returns a copy of the current value and its generation. ok is false if
// the value could not be read.
func (b *Buffer[T]) Load() (v T, gen uint64, ok bool) {
	g := b.Read()
	if !g.Ok() {
		return v, 0, false
	}
	v, gen = *g.Value(), g.Gen()
	g.Release()
	return v, gen, true
}

// Write replaces the value. It returns once no reader can observe the previous
// value anymore, so it takes as long as the slowest read in progress when the
// new value was published. It is safe to be called concurrently; calls are
// serialized.
func (b *Buffer[T]) Write(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// the previous Write waited for every reader of the cell we are about to
	// overwrite, so it is safe to store into it.
	b.slots.publish(v)

	// wait on every reader that may have loaded the old generation.
	b.readers.forEach((*handle).waitReadDone)
}

// Gen reports how many Writes have been published.
func (b *Buffer[T]) Gen() uint64 {
	return b.slots.gen.Load()
}

// Readers reports how many Readers are registered.
func (b *Buffer[T]) Readers() int {
	return b.readers.len()
}

// Close waits for in-progress reads and deregisters every Reader. Reads after
// Close fail, while Writes still succeed. It is safe to call more than once.
func (b *Buffer[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed.Swap(true) {
		return
	}
	b.readers.forEach((*handle).waitReadDone)
	b.readers.close()
}
