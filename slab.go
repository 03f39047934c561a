package objarena

import "unsafe"

// Slab is a fixed-capacity bump buffer of T.
//
// Its backing store is a []T rather than raw bytes so that pointers held by
// arena-resident values stay visible to the garbage collector. The capacity
// is the configured slab size rounded down to a whole number of T.
type Slab[T any] struct {
	buf  []T
	used int // bytes handed out, padding included
}

func newSlab[T any](size int) *Slab[T] {
	es := sizeOf[T]()
	if size < es {
		return &Slab[T]{}
	}
	return &Slab[T]{buf: make([]T, size/es)}
}

func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func alignOf[T any]() int {
	var zero T
	return int(unsafe.Alignof(zero))
}

// Capacity returns the number of bytes the slab can hand out.
func (s *Slab[T]) Capacity() int {
	return len(s.buf) * sizeOf[T]()
}

// Used returns the number of bytes handed out so far.
func (s *Slab[T]) Used() int {
	return s.used
}

// TryAllocate returns size bytes worth of T starting at an offset aligned to
// align, or nil when the remaining space cannot hold the request. size must be
// a multiple of the element size.
func (s *Slab[T]) TryAllocate(size, align int) []T {
	padding := (align - s.used%align) % align
	if s.used+padding+size > s.Capacity() {
		return nil
	}
	es := sizeOf[T]()
	s.used += padding
	start := s.used / es
	s.used += size
	end := s.used / es
	return s.buf[start:end:end]
}

// Contains reports whether p points into the slab's backing memory.
func (s *Slab[T]) Contains(p unsafe.Pointer) bool {
	if len(s.buf) == 0 {
		return false
	}
	start := uintptr(unsafe.Pointer(unsafe.SliceData(s.buf)))
	addr := uintptr(p)
	return addr >= start && addr < start+uintptr(s.Capacity())
}

// pool is the append-only list of slabs of one element type.
type pool[T any] struct {
	slabs []*Slab[T]
}

// allocate bump-allocates from the last slab, appending a fresh slab of
// slabSize bytes when it is full.
func (p *pool[T]) allocate(slabSize, size, align int, grew func(int)) ([]T, error) {
	if capacity := (slabSize / sizeOf[T]()) * sizeOf[T](); size > capacity {
		return nil, &AllocationSizeError{Size: size, Capacity: capacity}
	}
	if n := len(p.slabs); n > 0 {
		if out := p.slabs[n-1].TryAllocate(size, align); out != nil {
			return out, nil
		}
	}
	s := newSlab[T](slabSize)
	p.slabs = append(p.slabs, s)
	if grew != nil {
		grew(s.Capacity())
	}
	out := s.TryAllocate(size, align)
	if out == nil {
		panic("objarena: fresh slab could not satisfy an allocation within its capacity")
	}
	return out, nil
}

func (p *pool[T]) contains(ptr unsafe.Pointer) bool {
	for _, s := range p.slabs {
		if s.Contains(ptr) {
			return true
		}
	}
	return false
}

func (p *pool[T]) used() int {
	sum := 0
	for _, s := range p.slabs {
		sum += s.used
	}
	return sum
}

func (p *pool[T]) capacity() int {
	sum := 0
	for _, s := range p.slabs {
		sum += s.Capacity()
	}
	return sum
}
