package dbuf

// Reader is a handle registered with a Buffer that is owned by a single
// goroutine. Every Write waits for an in-progress read on every registered
// Reader, so a goroutine should Close its Reader when it no longer reads.
type Reader[T any] struct {
	b      *Buffer[T]
	h      *handle
	pooled bool // owned by the Buffer's binding rather than a caller
	closed bool
}

// Read returns a Guard referencing the current value of the Buffer. The Guard
// is not Ok if the Reader or its Buffer has been closed. Read must not be
// called again before the previous Guard is Released.
func (r *Reader[T]) Read() Guard[T] {
	if r.closed {
		return Guard[T]{}
	}

	r.h.beginRead()

	// the handle is locked before checking for close so that Close either waits
	// on us or we see that it happened.
	if r.b.closed.Load() {
		r.h.endRead()
		return Guard[T]{}
	}

	val, gen := r.b.slots.active()
	return Guard[T]{val: val, gen: gen, r: r}
}

// Close deregisters the Reader. It is safe to call more than once and after
// the Buffer has been closed. It panics if a Guard from the Reader has not
// been Released.
func (r *Reader[T]) Close() {
	if r.closed {
		return
	}
	if !r.h.idle() {
		panic("dbuf: reader closed while a guard is held")
	}
	r.closed = true
	r.b.readers.remove(r.h)
}
