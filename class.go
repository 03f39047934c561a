package objarena

import (
	"github.com/pavanmanishd/objarena/host"
)

// Class is an arena-allocatable type. Instances are allocated from the
// arena on top of the class's arena stack, or from the heap when no arena
// context governs the class.
type Class struct {
	rc    host.RefCount
	name  string
	base  *Class
	reg   *Registry
	descr map[string]Descriptor
}

var _ host.Type = (*Class)(nil)

// ClassOption configures a new class.
type ClassOption func(*classOptions)

type classOptions struct {
	slots []string
	descr map[string]Descriptor
}

// WithSlots requests a fixed per-instance slot layout. Arena-allocatable
// classes store attributes in their own map, so NewClass rejects it.
func WithSlots(names ...string) ClassOption {
	return func(o *classOptions) {
		o.slots = append(o.slots, names...)
	}
}

// WithDescriptor defines a class-level descriptor.
func WithDescriptor(name string, d Descriptor) ClassOption {
	return func(o *classOptions) {
		if o.descr == nil {
			o.descr = make(map[string]Descriptor)
		}
		o.descr[name] = d
	}
}

// Name returns the class name.
func (c *Class) Name() string {
	return c.name
}

// Base returns the parent class, nil for the root class.
func (c *Class) Base() *Class {
	return c.base
}

// IsSubclassOf reports whether c is other or derives from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for k := c; k != nil; k = k.base {
		if k == other {
			return true
		}
	}
	return false
}

// Define adds or replaces a class-level descriptor.
func (c *Class) Define(name string, d Descriptor) {
	if c.descr == nil {
		c.descr = make(map[string]Descriptor)
	}
	c.descr[name] = d
}

// lookup finds a descriptor for key on c or its ancestors. Only string keys
// can name descriptors.
func (c *Class) lookup(key host.Key) Descriptor {
	s, ok := key.(*host.Str)
	if !ok {
		return nil
	}
	name := s.String()
	for k := c; k != nil; k = k.base {
		if d, ok := k.descr[name]; ok {
			return d
		}
	}
	return nil
}

// New allocates an instance holding one reference.
func (c *Class) New() (*Object, error) {
	a := c.reg.top(c)
	if a == nil {
		c.IncRef()
		o := &Object{class: c, state: refState{kind: global, count: 1}}
		c.reg.metrics.heapObjects.Inc()
		return o, nil
	}
	o, err := a.allocObject()
	if err != nil {
		return nil, err
	}
	a.Retain()
	o.class = c
	o.state = refState{kind: resident, count: 1, owner: a}
	c.reg.metrics.arenaObjects.Inc()
	return o, nil
}

// Stack returns the arenas active for c itself, innermost last.
func (c *Class) Stack() []*Arena {
	entries := c.reg.stacks[c]
	out := make([]*Arena, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.arena)
	}
	return out
}

func (c *Class) IncRef()       { c.rc.IncRef() }
func (c *Class) DecRef()       { c.rc.DecRef() }
func (c *Class) RefCount() int { return c.rc.RefCount() }
