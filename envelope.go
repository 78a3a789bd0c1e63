package taskpool

import (
	"context"
	"fmt"
)

// envelope is the type-erased record coupling a callable, its bound
// arguments, its producer handle, and a readiness predicate. It is always
// handled through a pointer and lives in exactly one place at a time: the
// ready queue, the waiting set, or the deferred queue, or a worker's stack
// while executing.
//
// ready must be side-effect free, idempotent, and non-blocking, it is
// called both by workers during promotion and by Drain's quiescence check.
// execute must run at most once, and only while the envelope is not sitting
// in any queue or set. cancel is the alternative to execute used when an
// envelope is orphaned by Abort or Reset instead of ever running.
type envelope struct {
	ready   func() bool
	execute func(ctx context.Context)
	cancel  func(err error)

	// status reports the outcome of a completed execute call, for the
	// worker loop and RunDeferred to feed into metrics without needing to
	// know R.
	status func() Status
}

// newEnvelope builds an envelope for a callable with zero or more bound
// arguments. ready is the conjunction of the arguments' readiness, which
// degenerates to the constant true when every argument is a Value (no
// dependency on another Handle), matching spec's "immediate" classification
// without needing a separate code path.
func newEnvelope[R any](fn func(context.Context, []any) (R, error), args []Arg, h *Handle[R]) *envelope {
	return &envelope{
		ready: func() bool { return argsReady(args) },
		execute: func(ctx context.Context) {
			runGuarded(ctx, h, func(ctx context.Context) (R, error) {
				values, err := takeArgs(args)
				if err != nil {
					var zero R
					return zero, err
				}
				return fn(ctx, values)
			})
		},
		cancel: func(err error) {
			var zero R
			h.complete(zero, err)
		},
		status: h.Poll,
	}
}

// newCancellableEnvelope is the cancellation-aware counterpart: the callable
// receives a StopToken view as its last argument, supplied by the
// submission front-end rather than by the caller.
func newCancellableEnvelope[R any](
	fn func(context.Context, []any, StopToken) (R, error), args []Arg, h *Handle[R], tok StopToken,
) *envelope {
	return &envelope{
		ready: func() bool { return argsReady(args) },
		execute: func(ctx context.Context) {
			runGuarded(ctx, h, func(ctx context.Context) (R, error) {
				values, err := takeArgs(args)
				if err != nil {
					var zero R
					return zero, err
				}
				return fn(ctx, values, tok)
			})
		},
		cancel: func(err error) {
			var zero R
			h.complete(zero, err)
		},
		status: h.Poll,
	}
}

// newAllocatingEnvelope is the allocator-aware counterpart: an allocator
// value is acquired immediately before execute and released immediately
// after, regardless of outcome.
func newAllocatingEnvelope[R any](
	fn func(context.Context, Allocator, []any) (R, error), args []Arg, h *Handle[R], alloc Allocator,
) *envelope {
	return &envelope{
		ready: func() bool { return argsReady(args) },
		execute: func(ctx context.Context) {
			runGuarded(ctx, h, func(ctx context.Context) (R, error) {
				values, err := takeArgs(args)
				if err != nil {
					var zero R
					return zero, err
				}
				v, err := alloc.Get()
				if err != nil {
					var zero R
					return zero, fmt.Errorf("%w: %v", ErrAllocationFailure, err)
				}
				defer alloc.Put(v)
				return fn(ctx, v, values)
			})
		},
		cancel: func(err error) {
			var zero R
			h.complete(zero, err)
		},
		status: h.Poll,
	}
}

// newCancellableAllocatingEnvelope composes cancellation-awareness and
// allocator-awareness.
func newCancellableAllocatingEnvelope[R any](
	fn func(context.Context, Allocator, []any, StopToken) (R, error),
	args []Arg, h *Handle[R], alloc Allocator, tok StopToken,
) *envelope {
	return &envelope{
		ready: func() bool { return argsReady(args) },
		execute: func(ctx context.Context) {
			runGuarded(ctx, h, func(ctx context.Context) (R, error) {
				values, err := takeArgs(args)
				if err != nil {
					var zero R
					return zero, err
				}
				v, err := alloc.Get()
				if err != nil {
					var zero R
					return zero, fmt.Errorf("%w: %v", ErrAllocationFailure, err)
				}
				defer alloc.Put(v)
				return fn(ctx, v, values, tok)
			})
		},
		cancel: func(err error) {
			var zero R
			h.complete(zero, err)
		},
		status: h.Poll,
	}
}

// runGuarded invokes fn, recovering a panic into a failure, and completes h
// exactly once with whatever the callable produced.
func runGuarded[R any](ctx context.Context, h *Handle[R], fn func(context.Context) (R, error)) {
	var (
		result R
		err    error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s: task panicked: %v", Namespace, r)
			}
		}()
		result, err = fn(ctx)
	}()
	h.complete(result, err)
}
