package objarena

import (
	"github.com/pavanmanishd/objarena/host"
)

// Descriptor is a class-level attribute consulted during instance lookup.
// Descriptors that are not DataDescriptors only apply when the instance has
// no attribute of that name.
type Descriptor interface {
	Get(o *Object, cls *Class) (host.Value, error)
}

// DataDescriptor takes precedence over instance attributes for reads,
// writes and deletes.
type DataDescriptor interface {
	Descriptor
	Set(o *Object, v host.Value) error
	Delete(o *Object) error
}

// Property is a DataDescriptor backed by functions. A missing Setter or
// Deleter makes the attribute read-only.
type Property struct {
	Getter  func(o *Object) (host.Value, error)
	Setter  func(o *Object, v host.Value) error
	Deleter func(o *Object) error
}

var _ DataDescriptor = (*Property)(nil)

func (p *Property) Get(o *Object, _ *Class) (host.Value, error) {
	if p.Getter == nil {
		return nil, ErrUnreadableAttribute
	}
	return p.Getter(o)
}

func (p *Property) Set(o *Object, v host.Value) error {
	if p.Setter == nil {
		return ErrReadOnlyAttribute
	}
	return p.Setter(o, v)
}

func (p *Property) Delete(o *Object) error {
	if p.Deleter == nil {
		return ErrReadOnlyAttribute
	}
	return p.Deleter(o)
}

// ClassAttr is a constant shared by all instances. Instances may shadow it.
type ClassAttr struct {
	Value host.Value
}

func (c ClassAttr) Get(*Object, *Class) (host.Value, error) {
	c.Value.IncRef()
	return c.Value, nil
}
