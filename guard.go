package dbuf

// Guard is a snapshot of a Buffer returned by a read. The value it references
// does not change until Release is called. A Guard must not be shared with
// other goroutines and must be Released exactly once.
type Guard[T any] struct {
	val *T
	gen uint64
	r   *Reader[T]
}

// Ok reports if the read succeeded. A Guard that is not Ok does not hold a
// snapshot, and its Value is nil rather than the zero value of T.
func (g Guard[T]) Ok() bool { return g.val != nil }

// Value returns the snapshot. It must not be used after Release.
func (g Guard[T]) Value() *T { return g.val }

// Gen reports the number of Writes that were published when the snapshot was
// taken.
func (g Guard[T]) Gen() uint64 { return g.gen }

// Release ends the read. It is a no-op on a Guard that is not Ok.
func (g Guard[T]) Release() {
	if g.r == nil {
		return
	}
	g.r.h.endRead()
	if g.r.pooled {
		g.r.b.bind.put(g.r)
	}
}
