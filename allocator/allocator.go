// Package allocator provides the pluggable value-recycling abstraction used
// by the allocator-aware submission variants: a task that needs a scratch
// buffer, connection, or other reusable value borrows one from an Allocator
// for the lifetime of a single execution instead of allocating fresh every
// time.
package allocator

// Allocator produces and reclaims values of some task-defined type. Get may
// fail (the underlying resource may be exhausted or its constructor may
// return an error); Put never fails and must tolerate receiving back
// whatever Get most recently produced.
type Allocator interface {
	// Get returns a value ready for use, or an error if none could be
	// produced.
	Get() (any, error)

	// Put returns a value previously obtained from Get back to the
	// allocator for reuse.
	Put(any)
}
