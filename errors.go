package taskpool

import "errors"

// Namespace prefixes every sentinel error defined in this package, matching
// how callers typically grep logs for a single library's failures.
const Namespace = "taskpool"

var (
	// ErrCancelled is returned by Handle.Take when the envelope backing the
	// handle was destroyed by Abort or Reset before it ran or completed.
	ErrCancelled = errors.New(Namespace + ": task cancelled")

	// ErrSubmissionRejected is returned by Submit* when the pool is in the
	// terminated state (after Abort, before a matching Reset).
	ErrSubmissionRejected = errors.New(Namespace + ": submission rejected, pool is terminated")

	// ErrHandleDoubleTake is returned by a second call to Handle.Take.
	ErrHandleDoubleTake = errors.New(Namespace + ": handle already taken")

	// ErrAllocationFailure is returned by Handle.Take for a task submitted
	// with SubmitWithAllocator or SubmitCancellableWithAllocator when the
	// configured Allocator fails to produce a value at execution time; the
	// Submit* call itself has already returned without error.
	ErrAllocationFailure = errors.New(Namespace + ": allocator failed to produce a value")

	// ErrInvalidOption is wrapped by the error Construct panics with when an
	// Option is nil or carries an invalid value.
	ErrInvalidOption = errors.New(Namespace + ": invalid option")
)
