package taskpool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubmit_RoutesImmediateToReadyQueue(t *testing.T) {
	p := Construct(1)
	p.Pause()
	defer p.Abort()

	_, err := Submit(p, Async, func(ctx context.Context, _ []any) (int, error) { return 0, nil })
	require.NoError(t, err)

	require.Equal(t, int64(1), p.QueuedCount())
	require.Equal(t, int64(0), p.WaitingCount())
}

func TestSubmit_RoutesDependentToWaitingSet(t *testing.T) {
	p := Construct(1)
	p.Pause()
	defer p.Abort()

	upstream := newHandle[int]()
	_, err := Submit(p, Async, func(ctx context.Context, args []any) (int, error) {
		return args[0].(int), nil
	}, Dep(upstream))
	require.NoError(t, err)

	require.Equal(t, int64(0), p.QueuedCount())
	require.Equal(t, int64(1), p.WaitingCount())
}

func TestSubmit_DeferredDoesNotTouchCounters(t *testing.T) {
	p := Construct(1)
	p.Pause()
	defer p.Abort()

	_, err := Submit(p, Deferred, func(ctx context.Context, _ []any) (int, error) { return 0, nil })
	require.NoError(t, err)

	require.Equal(t, int64(0), p.TotalCount())
}

func TestSubmitCancellableWithAllocator_Composes(t *testing.T) {
	p := Construct(1)
	defer p.Abort()

	h, err := SubmitCancellableWithAllocator(p, Async,
		func(ctx context.Context, a Allocator, args []any, tok StopToken) (string, error) {
			return "ok", nil
		})
	require.NoError(t, err)

	v, err := h.Take()
	require.NoError(t, err)
	require.Equal(t, "ok", v)
}
