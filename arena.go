package objarena

import (
	"unsafe"

	"github.com/pavanmanishd/objarena/host"
)

// DefaultSlabSize is the default slab size for new arenas (64 KiB).
const DefaultSlabSize = 1 << 16

// wordAlign is the alignment used when the caller does not ask for one.
const wordAlign = int(unsafe.Sizeof(uintptr(0)))

// arenaObserver is told about slab growth and arena destruction.
type arenaObserver interface {
	slabAdded(a *Arena, bytes int)
	arenaDestroyed(a *Arena, bytes, externals int)
}

// Arena is an append-only set of slabs plus the external references that
// must stay alive for as long as anything allocated in it does.
//
// An Arena is reference counted: every arena-stack entry and every live
// object allocated from it holds one share. The arena is destroyed the
// moment the last share is released; there is no explicit free.
type Arena struct {
	slabSize int

	raw     pool[byte]
	objects pool[Object]
	tables  pool[entry]

	externals []host.Value
	holders   int
	destroyed bool

	observer arenaObserver
}

// NewArena returns an arena whose slabs are slabSize bytes. If slabSize <= 0,
// DefaultSlabSize is used. The caller holds the only share; Release drops it.
func NewArena(slabSize int) *Arena {
	if slabSize <= 0 {
		slabSize = DefaultSlabSize
	}
	return &Arena{slabSize: slabSize, holders: 1}
}

// Allocate returns size bytes aligned to align from the active slab, growing
// the arena by one slab when the active one is full. Requests larger than a
// slab fail with an *AllocationSizeError. Returns nil if size <= 0.
func (a *Arena) Allocate(size, align int) ([]byte, error) {
	a.panicIfDestroyed()
	if size <= 0 {
		return nil, nil
	}
	if align <= 0 || align&(align-1) != 0 {
		align = wordAlign
	}
	return a.raw.allocate(a.slabSize, size, align, a.grew)
}

// RecordExternalReference keeps v alive until the arena is destroyed. Values
// are released in the order they were recorded.
func (a *Arena) RecordExternalReference(v host.Value) {
	a.panicIfDestroyed()
	v.IncRef()
	a.externals = append(a.externals, v)
}

// Contains reports whether p points into any slab of the arena.
func (a *Arena) Contains(p unsafe.Pointer) bool {
	return a.objects.contains(p) || a.tables.contains(p) || a.raw.contains(p)
}

// containsValue reports whether v is an object allocated from this arena.
func (a *Arena) containsValue(v host.Value) bool {
	o, ok := v.(*Object)
	return ok && o != nil && a.objects.contains(unsafe.Pointer(o))
}

// Retain adds a share.
func (a *Arena) Retain() {
	a.panicIfDestroyed()
	a.holders++
}

// Release drops a share, destroying the arena when it was the last one.
func (a *Arena) Release() {
	if a.holders <= 0 {
		panic("objarena: arena released more times than retained")
	}
	a.holders--
	if a.holders == 0 {
		a.destroy()
	}
}

// Holders returns the number of outstanding shares.
func (a *Arena) Holders() int {
	return a.holders
}

// Destroyed reports whether the last share has been released.
func (a *Arena) Destroyed() bool {
	return a.destroyed
}

// destroy drops every slab at once and then releases the external
// references. Objects living in the slabs are not visited.
func (a *Arena) destroy() {
	bytes := a.Capacity()
	externals := a.externals

	a.raw.slabs = nil
	a.objects.slabs = nil
	a.tables.slabs = nil
	a.externals = nil
	a.destroyed = true

	if a.observer != nil {
		a.observer.arenaDestroyed(a, bytes, len(externals))
	}
	for _, v := range externals {
		v.DecRef()
	}
}

func (a *Arena) grew(bytes int) {
	if a.observer != nil {
		a.observer.slabAdded(a, bytes)
	}
}

// panicIfDestroyed panics if the arena has been destroyed.
func (a *Arena) panicIfDestroyed() {
	if a.destroyed {
		panic("objarena: use of destroyed arena")
	}
}
