package host

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Str is a reference-counted string, the usual attribute name.
type Str struct {
	rc RefCount
	s  string
}

// NewStr returns a Str holding one reference.
func NewStr(s string) *Str {
	v := &Str{s: s}
	v.rc.IncRef()
	return v
}

func (v *Str) IncRef()       { v.rc.IncRef() }
func (v *Str) DecRef()       { v.rc.DecRef() }
func (v *Str) RefCount() int { return v.rc.RefCount() }
func (v *Str) String() string {
	return v.s
}

// Hash returns the xxhash of the string contents.
func (v *Str) Hash() (uint64, error) {
	return xxhash.Sum64String(v.s), nil
}

// Equal compares by value. Keys of other kinds are never equal.
func (v *Str) Equal(other Key) (bool, error) {
	o, ok := other.(*Str)
	if !ok {
		return false, nil
	}
	return o == v || o.s == v.s, nil
}

// Int is a reference-counted integer.
type Int struct {
	rc RefCount
	n  int64
}

// NewInt returns an Int holding one reference.
func NewInt(n int64) *Int {
	v := &Int{n: n}
	v.rc.IncRef()
	return v
}

func (v *Int) IncRef()       { v.rc.IncRef() }
func (v *Int) DecRef()       { v.rc.DecRef() }
func (v *Int) RefCount() int { return v.rc.RefCount() }
func (v *Int) Int64() int64  { return v.n }
func (v *Int) String() string {
	return strconv.FormatInt(v.n, 10)
}

func (v *Int) Hash() (uint64, error) {
	var b [8]byte
	u := uint64(v.n)
	for i := range b {
		b[i] = byte(u >> (8 * i))
	}
	return xxhash.Sum64(b[:]), nil
}

func (v *Int) Equal(other Key) (bool, error) {
	o, ok := other.(*Int)
	if !ok {
		return false, nil
	}
	return o.n == v.n, nil
}

// Box is a reference-counted opaque payload. OnRelease, when set, runs once
// the last reference is dropped.
type Box struct {
	rc        RefCount
	Payload   any
	OnRelease func(*Box)
}

// NewBox returns a Box holding one reference.
func NewBox(payload any) *Box {
	v := &Box{Payload: payload}
	v.rc.IncRef()
	return v
}

func (v *Box) IncRef()       { v.rc.IncRef() }
func (v *Box) RefCount() int { return v.rc.RefCount() }

func (v *Box) DecRef() {
	if v.rc.DecRef() && v.OnRelease != nil {
		v.OnRelease(v)
	}
}
