package objarena

import "github.com/pavanmanishd/objarena/host"

type slotState uint8

const (
	slotEmpty slotState = iota
	slotFull
	slotDeleted
)

// entry is one slot of an attribute map table.
type entry struct {
	key   host.Key
	value host.Value
	hash  uint64
	state slotState
}

// tableAllocator returns a zeroed table of n slots.
type tableAllocator func(n int) ([]entry, error)

func heapTable(n int) ([]entry, error) {
	return make([]entry, n), nil
}

// attrMap is an open-addressed hash map from keys to values with linear
// probing. Table sizes are powers of two. The map never touches reference
// counts; callers decide what is counted.
type attrMap struct {
	slots []entry
	live  int32
	used  int32 // live + deleted
}

// maxLoad is the number of occupied slots a table of n slots may hold.
// Tiny tables fill up completely so a single attribute fits a small slab.
func maxLoad(n int) int {
	if n <= 2 {
		return n
	}
	return n - n/4
}

func hashKey(k host.Key) (uint64, error) {
	h, err := k.Hash()
	if err != nil {
		return 0, &ComparisonError{Op: "hash", cause: err}
	}
	return h, nil
}

// find returns the slot holding key, or the first reusable slot on its probe
// sequence (-1 if there is none) when the key is absent.
func (m *attrMap) find(key host.Key, h uint64) (int, bool, error) {
	n := len(m.slots)
	if n == 0 {
		return -1, false, nil
	}
	mask := n - 1
	free := -1
	i := int(h) & mask
	for probes := 0; probes < n; probes++ {
		s := &m.slots[i]
		switch s.state {
		case slotEmpty:
			if free < 0 {
				free = i
			}
			return free, false, nil
		case slotDeleted:
			if free < 0 {
				free = i
			}
		case slotFull:
			if s.hash == h {
				eq, err := key.Equal(s.key)
				if err != nil {
					return -1, false, &ComparisonError{Op: "compare", cause: err}
				}
				if eq {
					return i, true, nil
				}
			}
		}
		i = (i + 1) & mask
	}
	return free, false, nil
}

func (m *attrMap) get(key host.Key) (host.Value, bool, error) {
	h, err := hashKey(key)
	if err != nil {
		return nil, false, err
	}
	i, found, err := m.find(key, h)
	if err != nil || !found {
		return nil, false, err
	}
	return m.slots[i].value, true, nil
}

// set inserts or overwrites key. On overwrite the stored key is kept and the
// previous value is returned.
func (m *attrMap) set(key host.Key, value host.Value, alloc tableAllocator) (prev host.Value, inserted bool, err error) {
	h, err := hashKey(key)
	if err != nil {
		return nil, false, err
	}
	i, found, err := m.find(key, h)
	if err != nil {
		return nil, false, err
	}
	if found {
		prev = m.slots[i].value
		m.slots[i].value = value
		return prev, false, nil
	}
	if i < 0 || (m.slots[i].state == slotEmpty && int(m.used)+1 > maxLoad(len(m.slots))) {
		if err := m.grow(alloc); err != nil {
			return nil, false, err
		}
		i = m.probeEmpty(h)
	}
	if m.slots[i].state == slotEmpty {
		m.used++
	}
	m.slots[i] = entry{key: key, value: value, hash: h, state: slotFull}
	m.live++
	return nil, true, nil
}

// remove deletes key and returns the stored key and value.
func (m *attrMap) remove(key host.Key) (host.Key, host.Value, bool, error) {
	h, err := hashKey(key)
	if err != nil {
		return nil, nil, false, err
	}
	i, found, err := m.find(key, h)
	if err != nil || !found {
		return nil, nil, false, err
	}
	s := m.slots[i]
	m.slots[i] = entry{state: slotDeleted}
	m.live--
	return s.key, s.value, true, nil
}

// grow moves the live entries into the smallest table that can take one
// more. The old table is dropped, never freed explicitly.
func (m *attrMap) grow(alloc tableAllocator) error {
	want := int(m.live) + 1
	n := 1
	for maxLoad(n) < want {
		n <<= 1
	}
	slots, err := alloc(n)
	if err != nil {
		return err
	}
	old := m.slots
	m.slots = slots
	m.used = 0
	for _, s := range old {
		if s.state == slotFull {
			m.slots[m.probeEmpty(s.hash)] = s
			m.used++
		}
	}
	return nil
}

func (m *attrMap) probeEmpty(h uint64) int {
	mask := len(m.slots) - 1
	i := int(h) & mask
	for m.slots[i].state != slotEmpty {
		i = (i + 1) & mask
	}
	return i
}

func (m *attrMap) count() int {
	return int(m.live)
}

func (m *attrMap) each(fn func(k host.Key, v host.Value)) {
	for _, s := range m.slots {
		if s.state == slotFull {
			fn(s.key, s.value)
		}
	}
}
