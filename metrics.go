package objarena

import "fmt"

// SizeInUse returns the total number of bytes handed out by the arena's
// slabs, alignment padding included.
func (a *Arena) SizeInUse() int {
	return a.raw.used() + a.objects.used() + a.tables.used()
}

// NumSlabs returns the number of slabs currently held by the arena.
func (a *Arena) NumSlabs() int {
	return len(a.raw.slabs) + len(a.objects.slabs) + len(a.tables.slabs)
}

// Capacity returns the total capacity (in bytes) of all slabs in the arena.
func (a *Arena) Capacity() int {
	return a.raw.capacity() + a.objects.capacity() + a.tables.capacity()
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// SlabSize returns the configured size of each slab.
func (a *Arena) SlabSize() int {
	return a.slabSize
}

// ExternalReferences returns the number of recorded external references.
func (a *Arena) ExternalReferences() int {
	return len(a.externals)
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:          a.SizeInUse(),
		Capacity:           a.Capacity(),
		NumSlabs:           a.NumSlabs(),
		SlabSize:           a.SlabSize(),
		Utilization:        a.Utilization(),
		ExternalReferences: a.ExternalReferences(),
		Holders:            a.Holders(),
	}
}

func (a *Arena) String() string {
	m := a.Metrics()
	return fmt.Sprintf(
		"Arena{slabs: %d, used: %d, capacity: %d, usage: %.1f%%, externals: %d, holders: %d}",
		m.NumSlabs, m.SizeInUse, m.Capacity, m.Utilization*100, m.ExternalReferences, m.Holders,
	)
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse          int     // Bytes currently handed out
	Capacity           int     // Total slab capacity in bytes
	NumSlabs           int     // Number of slabs
	SlabSize           int     // Configured slab size
	Utilization        float64 // Ratio of used to total capacity (0.0-1.0)
	ExternalReferences int     // Values kept alive until destruction
	Holders            int     // Outstanding shares
}
