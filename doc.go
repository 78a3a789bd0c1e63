// Package taskpool implements a fixed-size worker pool for heterogeneous
// tasks whose inputs may not yet be available.
//
// Construct builds a Pool with a fixed number of worker goroutines:
//
//	p := taskpool.Construct(4)
//	defer p.Abort()
//
// Submit a task with Submit, SubmitCancellable, SubmitWithAllocator, or
// SubmitCancellableWithAllocator, depending on whether it needs a
// cooperative cancellation signal, a recyclable value from an Allocator,
// or both. Every Submit* call returns a Handle, through which a caller
// observes completion, retrieves a result, or propagates a failure:
//
//	h, err := taskpool.Submit(p, taskpool.Async, func(ctx context.Context, _ []any) (int, error) {
//		return 42, nil
//	})
//	v, err := h.Take()
//
// A task may depend on another task's result before it has been produced.
// Wrap the producing Handle with Dep and pass it as an Arg; the pool parks
// the dependent task until the dependency completes, then resolves it
// automatically. Dep consumes the producing Handle with Take, so that
// Handle must not also be taken by the caller:
//
//	a, _ := taskpool.Submit(p, taskpool.Async, func(ctx context.Context, _ []any) (int, error) {
//		return 41, nil
//	})
//	sum, _ := taskpool.Submit(p, taskpool.Async, func(ctx context.Context, args []any) (int, error) {
//		return args[0].(int) + 1, nil
//	}, taskpool.Dep(a))
//
// Deferred-mode submissions (taskpool.Deferred) never run automatically;
// call RunDeferred to attempt them once.
package taskpool
