package dbuf

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

const cacheLine = 64 // typical size of a cache line

type handleState struct {
	mu     sync.Mutex
	active atomic.Int32
}

// handle is a per-goroutine lock held for the duration of a read. The writer
// locks and unlocks it to find out that its owner is not reading anymore. It is
// padded to a cache line so that readers on different cores do not share one.
type handle struct {
	handleState
	_ [cacheLine - unsafe.Sizeof(handleState{})]byte
}

// beginRead marks the handle active and blocks a concurrent waitReadDone.
func (h *handle) beginRead() {
	h.active.Store(1)
	h.mu.Lock()
}

// endRead unblocks waitReadDone and marks the handle idle.
func (h *handle) endRead() {
	if h.active.Load() == 0 {
		panic("dbuf: release of a guard that is not held")
	}
	h.mu.Unlock()
	h.active.Store(0)
}

// idle reports if the owner is outside of a read.
func (h *handle) idle() bool {
	return h.active.Load() == 0
}

// waitReadDone blocks until the owner is not reading. It must only be called by
// the writer, never from a goroutine that is reading.
func (h *handle) waitReadDone() {
	// a reader marks itself active before it loads the generation, so if we see
	// it idle here it will observe the generation we already published.
	if h.idle() {
		return
	}
	h.mu.Lock()
	h.mu.Unlock()
}
