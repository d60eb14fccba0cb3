package dbuf

import "sync"

// binding hands out registered Readers to goroutines calling Buffer.Read. The
// pool acts as best-effort goroutine local storage: it is sharded per P, so a
// goroutine usually gets back the Reader it just used. Two goroutines never get
// the same Reader at once, which is all a handle needs.
type binding[T any] struct {
	b    *Buffer[T]
	pool sync.Pool
}

// get returns a registered Reader, creating one if the pool is empty.
func (bd *binding[T]) get() (*Reader[T], error) {
	if r, _ := bd.pool.Get().(*Reader[T]); r != nil {
		return r, nil
	}

	// the pool drops entries during garbage collection without telling us.
	// newReader attaches a cleanup that deregisters the handle when that happens.
	return bd.b.newReader(true)
}

// put makes r available to future calls to get. r must be idle.
func (bd *binding[T]) put(r *Reader[T]) { bd.pool.Put(r) }
