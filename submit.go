package taskpool

import "context"

// Mode selects how a submitted task is scheduled: Async for the pool's
// normal ready-queue/waiting-set routing, Deferred to instead hold the
// envelope in the deferred queue until an explicit RunDeferred call.
type Mode int

const (
	// Async routes the envelope through the ready queue or waiting set,
	// like any ordinary submission.
	Async Mode = iota
	// Deferred holds the envelope in the deferred queue; it only ever
	// executes when RunDeferred is called and finds it ready.
	Deferred
)

// Submit accepts a plain callable with zero or more bound arguments. With
// no args, the envelope's readiness is trivially true (spec.md's
// "Immediate" classification); with one or more Dep args, readiness is the
// conjunction of their wrappers' readiness ("Deferred-on-args").
func Submit[R any](p *Pool, mode Mode, fn func(context.Context, []any) (R, error), args ...Arg) (*Handle[R], error) {
	index := p.nextSubmissionIndex()
	wrapped := func(ctx context.Context, args []any) (R, error) {
		v, err := fn(ctx, args)
		return v, tagError(p, index, err)
	}
	h := newHandle[R]()
	env := newEnvelope(wrapped, args, h)
	return route(p, mode, env, h)
}

// SubmitCancellable accepts a callable that additionally receives a
// StopToken view of the pool's cancellation flag as its last argument
// ("Cancellation-aware" classification).
func SubmitCancellable[R any](
	p *Pool, mode Mode, fn func(context.Context, []any, StopToken) (R, error), args ...Arg,
) (*Handle[R], error) {
	index := p.nextSubmissionIndex()
	tok := p.StopTokenView()
	wrapped := func(ctx context.Context, args []any, tok StopToken) (R, error) {
		v, err := fn(ctx, args, tok)
		return v, tagError(p, index, err)
	}
	h := newHandle[R]()
	env := newCancellableEnvelope(wrapped, args, h, tok)
	return route(p, mode, env, h)
}

// SubmitWithAllocator accepts a callable that additionally receives a value
// borrowed from the pool's configured Allocator ("Allocator-aware"
// classification). The value is returned to the allocator after execute
// completes, whether or not the callable succeeded.
func SubmitWithAllocator[R any](
	p *Pool, mode Mode, fn func(context.Context, Allocator, []any) (R, error), args ...Arg,
) (*Handle[R], error) {
	index := p.nextSubmissionIndex()
	wrapped := func(ctx context.Context, alloc Allocator, args []any) (R, error) {
		v, err := fn(ctx, alloc, args)
		return v, tagError(p, index, err)
	}
	h := newHandle[R]()
	env := newAllocatingEnvelope(wrapped, args, h, p.cfg.allocator)
	return route(p, mode, env, h)
}

// SubmitCancellableWithAllocator composes the Cancellation-aware and
// Allocator-aware classifications.
func SubmitCancellableWithAllocator[R any](
	p *Pool, mode Mode, fn func(context.Context, Allocator, []any, StopToken) (R, error), args ...Arg,
) (*Handle[R], error) {
	index := p.nextSubmissionIndex()
	tok := p.StopTokenView()
	wrapped := func(ctx context.Context, alloc Allocator, args []any, tok StopToken) (R, error) {
		v, err := fn(ctx, alloc, args, tok)
		return v, tagError(p, index, err)
	}
	h := newHandle[R]()
	env := newCancellableAllocatingEnvelope(wrapped, args, h, p.cfg.allocator, tok)
	return route(p, mode, env, h)
}

// tagError wraps err with the submission index assigned at Submit* call
// time when the pool was built with WithErrorTagging; otherwise it returns
// err unchanged. index is captured at submission rather than at execution
// so it reflects Submit* call order even when executions complete out of
// order across worker goroutines.
func tagError(p *Pool, index int64, err error) error {
	if err == nil || !p.cfg.errorTagging {
		return err
	}
	return newTaskMetaError(err, index)
}

// route applies submission-rejected handling and mode-based scheduling: a
// terminated pool rejects the submission outright; Deferred mode always
// goes to the deferred queue; Async mode routes to the ready queue or the
// waiting set depending on the envelope's readiness at submission time
// (spec.md §4.1's "classify once, route once").
func route[R any](p *Pool, mode Mode, env *envelope, h *Handle[R]) (*Handle[R], error) {
	if p.terminated.Load() {
		var zero R
		h.complete(zero, ErrSubmissionRejected)
		return h, ErrSubmissionRejected
	}

	p.instruments.submitted.Add(1)

	if mode == Deferred {
		p.deferred.push(env)
		return h, nil
	}

	if env.ready() {
		p.incQueued(1)
		p.ready.push(env)
	} else {
		p.incWaiting(1)
		p.waiting.add(env)
	}
	p.pulseDrain()
	return h, nil
}
