package objarena

import "sync"

// SafeArena is a mutex-protected wrapper around Arena for raw byte
// allocation from several goroutines. Objects and external references are
// not available through it: they belong to the single-goroutine world of a
// Registry.
type SafeArena struct {
	mu sync.Mutex
	a  *Arena
}

// NewSafeArena creates a thread-safe arena with the given slab size.
// If slabSize <= 0, DefaultSlabSize is used.
func NewSafeArena(slabSize int) *SafeArena {
	return &SafeArena{a: NewArena(slabSize)}
}

// Allocate thread-safely returns size bytes aligned to align.
func (s *SafeArena) Allocate(size, align int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Allocate(size, align)
}

// AllocBytes thread-safely returns n word-aligned bytes.
func (s *SafeArena) AllocBytes(n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.AllocBytes(n)
}

// Retain thread-safely adds a share.
func (s *SafeArena) Retain() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Retain()
}

// Release thread-safely drops a share. The last one destroys the arena.
func (s *SafeArena) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Release()
}

// Destroyed reports whether the arena has been destroyed.
func (s *SafeArena) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Destroyed()
}

// Metrics returns a snapshot of arena statistics.
func (s *SafeArena) Metrics() ArenaMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Metrics()
}
