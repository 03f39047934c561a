package objarena

import (
	"github.com/pavanmanishd/objarena/host"
)

// residency tags which meaning an object's reference count has.
type residency uint8

const (
	// global objects live on the heap and count every reference.
	global residency = iota
	// resident objects live in an arena and do not count references held
	// by other objects of the same arena.
	resident
	// freed heap objects have been torn down.
	freed
)

// refState is the tagged reference state of an object:
// Global(count) or ArenaResident(count, owner). A resident object with a
// nil owner is dead: unreachable from host code but still physically intact.
type refState struct {
	kind  residency
	count int32
	owner *Arena
}

// Object is an instance of an arena-allocatable class.
//
// Objects are created with Class.New and start with one reference. Host
// code manages references with IncRef and DecRef; attribute values returned
// by GetAttr carry a new reference.
type Object struct {
	state refState
	class *Class
	attrs attrMap
}

var _ host.Value = (*Object)(nil)

// IncRef adds a host reference.
func (o *Object) IncRef() {
	o.checkUsable()
	if o.state.kind == resident && o.state.owner == nil {
		panic("objarena: new reference to a dead object outside attribute lookup")
	}
	o.state.count++
}

// DecRef drops a host reference and releases the object when it was the
// last one.
func (o *Object) DecRef() {
	o.checkUsable()
	if o.state.count <= 0 {
		panic("objarena: reference count underflow")
	}
	o.state.count--
	if o.state.count == 0 {
		o.release()
	}
}

// RefCount returns the number of counted references. For arena-resident
// objects references held by objects of the same arena are not included.
func (o *Object) RefCount() int {
	return int(o.state.count)
}

// Class returns the object's class.
func (o *Object) Class() *Class {
	return o.class
}

// Resident reports whether the object was allocated from an arena.
func (o *Object) Resident() bool {
	return o.state.kind == resident
}

// Dead reports whether an arena-resident object is no longer reachable from
// host code. Its storage and attributes are left intact.
func (o *Object) Dead() bool {
	return o.state.kind == resident && o.state.owner == nil
}

// Arena returns the arena the object holds a share of, or nil for heap and
// dead objects.
func (o *Object) Arena() *Arena {
	return o.state.owner
}

// Len returns the number of attributes stored on the instance.
func (o *Object) Len() int {
	o.checkUsable()
	return o.attrs.count()
}

// Keys returns the instance attribute names. The keys are borrowed.
func (o *Object) Keys() []host.Key {
	o.checkUsable()
	keys := make([]host.Key, 0, o.attrs.count())
	o.attrs.each(func(k host.Key, _ host.Value) {
		keys = append(keys, k)
	})
	return keys
}

// release runs when the count drops to zero.
func (o *Object) release() {
	switch o.state.kind {
	case resident:
		a := o.state.owner
		if a == nil {
			panic("objarena: releasing a dead object")
		}
		o.state.owner = nil
		a.Release()
	case global:
		o.teardown()
	}
}

// teardown releases everything a heap object holds and frees it.
func (o *Object) teardown() {
	attrs, cls := o.attrs, o.class
	o.attrs = attrMap{}
	o.class = nil
	o.state = refState{kind: freed}

	attrs.each(func(k host.Key, v host.Value) {
		k.DecRef()
		v.DecRef()
	})
	cls.DecRef()
}

func (o *Object) checkUsable() {
	if o.state.kind == freed {
		panic("objarena: use of freed object")
	}
}
