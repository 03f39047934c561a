package objarena

import (
	"unsafe"

	"github.com/pavanmanishd/objarena/host"
)

// SetAttr stores value under key. A data descriptor defined on the class
// takes precedence. A nil value deletes the attribute.
//
// On an arena-resident object the key, and the value unless it lives in the
// same arena, are recorded as external references of the arena; values of the
// same arena are stored without counting a reference.
func (o *Object) SetAttr(key host.Key, value host.Value) error {
	if value == nil {
		return o.DelAttr(key)
	}
	o.checkUsable()
	if d, ok := o.class.lookup(key).(DataDescriptor); ok {
		return d.Set(o, value)
	}
	if o.state.kind == resident {
		return o.setResident(key, value)
	}
	return o.setGlobal(key, value)
}

func (o *Object) setResident(key host.Key, value host.Value) error {
	a := o.state.owner
	if a == nil {
		panic("objarena: attribute write on a dead object")
	}
	if _, _, err := o.attrs.set(key, value, a.allocTable); err != nil {
		return err
	}
	a.RecordExternalReference(key)
	if !a.containsValue(value) {
		a.RecordExternalReference(value)
	}
	return nil
}

func (o *Object) setGlobal(key host.Key, value host.Value) error {
	// Take the new reference first: value may be the one being replaced.
	value.IncRef()
	prev, inserted, err := o.attrs.set(key, value, heapTable)
	if err != nil {
		value.DecRef()
		return err
	}
	if inserted {
		key.IncRef()
	} else {
		prev.DecRef()
	}
	return nil
}

// DelAttr removes key. A data descriptor defined on the class takes
// precedence. Deleting a missing attribute returns an *AttributeError.
func (o *Object) DelAttr(key host.Key) error {
	o.checkUsable()
	if d, ok := o.class.lookup(key).(DataDescriptor); ok {
		return d.Delete(o)
	}
	k, v, found, err := o.attrs.remove(key)
	if err != nil {
		return err
	}
	if !found {
		return &AttributeError{Key: key}
	}
	// Resident maps hold nothing; the arena's external list does.
	if o.state.kind == global {
		k.DecRef()
		v.DecRef()
	}
	return nil
}

// GetAttr returns a new reference to the value stored under key.
//
// Lookup order is: data descriptor on the class, instance attributes, any
// other descriptor on the class. A dead object found in the attributes is
// resurrected with a fresh share of this object's arena.
func (o *Object) GetAttr(key host.Key) (host.Value, error) {
	o.checkUsable()
	d := o.class.lookup(key)
	if dd, ok := d.(DataDescriptor); ok {
		return dd.Get(o, o.class)
	}
	v, found, err := o.attrs.get(key)
	if err != nil {
		return nil, err
	}
	if !found {
		if d != nil {
			return d.Get(o, o.class)
		}
		return nil, &AttributeError{Key: key}
	}
	if obj, ok := v.(*Object); ok && obj.Dead() {
		o.resurrect(obj)
	}
	v.IncRef()
	return v, nil
}

// resurrect gives a dead object of this object's arena a new share. The
// caller then takes the reference that brings its count to one.
func (o *Object) resurrect(dead *Object) {
	a := o.state.owner
	if a == nil || dead.state.count != 0 || !a.Contains(unsafe.Pointer(dead)) {
		panic("objarena: resurrecting an object outside its owning arena")
	}
	a.Retain()
	dead.state.owner = a
	o.class.reg.metrics.resurrections.Inc()
}
