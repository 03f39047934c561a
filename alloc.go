package objarena

// AllocBytes returns n word-aligned bytes from the arena.
// Returns nil if n <= 0.
func (a *Arena) AllocBytes(n int) ([]byte, error) {
	return a.Allocate(n, wordAlign)
}

// allocObject places a zeroed Object in the arena's object slabs.
func (a *Arena) allocObject() (*Object, error) {
	a.panicIfDestroyed()
	s, err := a.objects.allocate(a.slabSize, sizeOf[Object](), alignOf[Object](), a.grew)
	if err != nil {
		return nil, err
	}
	return &s[0], nil
}

// allocTable is the tableAllocator for attribute maps of objects living in
// this arena. Tables are abandoned, not freed, when a map grows.
func (a *Arena) allocTable(n int) ([]entry, error) {
	a.panicIfDestroyed()
	return a.tables.allocate(a.slabSize, n*sizeOf[entry](), alignOf[entry](), a.grew)
}
