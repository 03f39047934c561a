package objarena

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/pavanmanishd/objarena/host"
)

var (
	// ErrContextClosed is returned when closing a Context twice.
	ErrContextClosed = errors.New("arena context was already closed")
	// ErrSlotsNotSupported is returned when a class asks for a fixed slot layout.
	ErrSlotsNotSupported = errors.New("cannot add slots to an arena-allocatable class")
	// ErrInvalidSlabSize is returned for a non-positive slab size.
	ErrInvalidSlabSize = errors.New("slab size must be positive")
	// ErrReadOnlyAttribute is returned when setting or deleting a property without a setter.
	ErrReadOnlyAttribute = errors.New("attribute is read-only")
	// ErrUnreadableAttribute is returned when reading a property without a getter.
	ErrUnreadableAttribute = errors.New("attribute is unreadable")
)

// AllocationSizeError is returned for a request that no slab can ever hold.
type AllocationSizeError struct {
	Size     int
	Capacity int
}

func (e *AllocationSizeError) Error() string {
	return fmt.Sprintf("cannot allocate objects larger than the slab size: %d > %d", e.Size, e.Capacity)
}

// NotAllocatableError is returned when an arena context is opened over a type
// that does not participate in arena allocation.
type NotAllocatableError struct {
	Type string
}

func (e *NotAllocatableError) Error() string {
	return fmt.Sprintf("%s is not a subclass of ArenaAllocatable", e.Type)
}

// AttributeError is returned when an attribute is missing.
type AttributeError struct {
	Key host.Key
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("attribute not found: %s", keyString(e.Key))
}

// ComparisonError wraps a failure of the host's hashing or equality.
//
// The original error can be accessed via errors.Unwrap.
type ComparisonError struct {
	Op    string
	cause error
}

func (e *ComparisonError) Error() string {
	return fmt.Sprintf("failed to %s attribute key: %v", e.Op, e.cause)
}

func (e *ComparisonError) Unwrap() error { return e.cause }

// EscapeWarning reports objects still reachable when their arena context
// closed. It is only returned as an error by contexts in strict mode.
type EscapeWarning struct {
	Alive int
}

func (e *EscapeWarning) Error() string {
	if e.Alive == 1 {
		return "1 object is still alive at arena exit"
	}
	return fmt.Sprintf("%d objects are still alive at arena exit", e.Alive)
}

func keyString(k host.Key) string {
	if s, ok := k.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", k)
}
