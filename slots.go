package dbuf

import "sync/atomic"

// slots is the pair of cells backing a Buffer. The active cell is selected by the
// low bit of the generation, so publishing is a single atomic store.
type slots[T any] struct {
	gen   atomic.Uint64
	cells [2]T
}

// init stores v into both cells so that either one is safe to expose.
func (s *slots[T]) init(v T) {
	s.cells[0] = v
	s.cells[1] = v
}

// publish stores v into the inactive cell and then makes it the active one. It
// returns the new generation. Callers must serialize calls to publish and must
// ensure no reader still references the inactive cell.
func (s *slots[T]) publish(v T) uint64 {
	// only publish changes gen and calls to it are serialized, so this load can
	// not race with another store. the store below orders the cell write before
	// any reader that observes the new generation.
	gen := s.gen.Load() + 1
	s.cells[gen&1] = v
	s.gen.Store(gen)
	return gen
}

// active returns the currently published cell and its generation.
func (s *slots[T]) active() (*T, uint64) {
	gen := s.gen.Load()
	return &s.cells[gen&1], gen
}
