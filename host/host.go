// Package host describes the object runtime that arena-allocated objects
// live in: reference counting, hashable keys and types.
//
// The objarena package only depends on these interfaces. The concrete values
// in this package (Str, Int, Box) are the small set of ordinary,
// never arena-resident objects used as attribute names and payloads.
package host

// Value is an object whose lifetime is managed by reference counting.
//
// DecRef that brings the count to zero runs the value's finalizer exactly
// once.
type Value interface {
	IncRef()
	DecRef()
	RefCount() int
}

// Key is a Value usable as an attribute name. Hash and Equal may fail, in
// which case the enclosing operation fails too.
type Key interface {
	Value
	Hash() (uint64, error)
	Equal(other Key) (bool, error)
}

// Type names a class of objects.
type Type interface {
	Name() string
}

// RefCount is an embeddable reference counter.
type RefCount struct {
	n int
}

// IncRef adds a reference.
func (r *RefCount) IncRef() {
	r.n++
}

// DecRef drops a reference and reports whether it was the last one.
func (r *RefCount) DecRef() bool {
	if r.n <= 0 {
		panic("host: reference count underflow")
	}
	r.n--
	return r.n == 0
}

// RefCount returns the current number of references.
func (r *RefCount) RefCount() int {
	return r.n
}

// plainType is an ordinary host type with no arena support.
type plainType struct {
	name string
}

// NewType returns an ordinary host type.
func NewType(name string) Type {
	return &plainType{name: name}
}

func (t *plainType) Name() string { return t.name }
