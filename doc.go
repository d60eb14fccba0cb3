// package dbuf provides a double buffered value that readers can snapshot without
// contending with the writer.
//
// Consider the case where you have some configuration that is read on every request
// and replaced every once in a while. A simple way to implement this might be:
//
//	var (
//		mu  sync.RWMutex
//		cfg Config
//	)
//
//	func Get() Config {
//		mu.RLock()
//		defer mu.RUnlock()
//		return cfg
//	}
//
//	func Set(next Config) {
//		mu.Lock()
//		cfg = next
//		mu.Unlock()
//	}
//
// Every reader has to write to the same shared lock word, so reads stop scaling as
// cores are added, and a pending Set blocks all new readers. Using the types in this
// package, readers only ever touch their own lock:
//
//	var buf = dbuf.New(Config{})
//
//	func Get() Config {
//		g := buf.Read()
//		defer g.Release()
//		return *g.Value()
//	}
//
//	func Set(next Config) {
//		buf.Write(next)
//	}
//
// A Buffer keeps two copies of the value. Write stores into the copy no reader can
// currently see, publishes it, and then waits for every reader that may still be
// looking at the old copy to finish before returning. That way the next Write is free
// to overwrite the old copy. Readers hold a per-goroutine handle locked for the
// duration of a read, and the writer waits on those handles instead of on a counter.
//
// Reads do not block on the writer except for the short window where the writer is
// waiting on a reader that was mid-read during publication. Writes are serialized and
// take as long as the slowest overlapping read, so keep the code between Read and
// Release short. Never call Write, NewReader or Close while holding a Guard from the
// same Buffer: the writer would wait on the calling goroutine forever.
//
// Go has no goroutine local storage, so there are two ways to bind a handle to a
// goroutine. Buffer.NewReader returns a Reader that the goroutine owns and Closes when
// it is done, which deregisters the handle right away. Buffer.Read instead borrows a
// handle from a best-effort per-P cache; handles dropped by that cache are
// deregistered once the garbage collector finds them, so the reader count may lag.
package dbuf
