package taskpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue_AlwaysReady(t *testing.T) {
	a := Value(10)
	require.True(t, a.readyFn())

	v, err := a.takeFn()
	require.NoError(t, err)
	require.Equal(t, 10, v)
}

func TestValue_DoubleTakePanics(t *testing.T) {
	a := Value(1)
	_, err := a.takeFn()
	require.NoError(t, err)
	require.Panics(t, func() { _, _ = a.takeFn() })
}

func TestDep_ReadinessTracksHandle(t *testing.T) {
	h := newHandle[int]()
	a := Dep(h)
	require.False(t, a.readyFn())

	h.complete(99, nil)
	require.True(t, a.readyFn())

	v, err := a.takeFn()
	require.NoError(t, err)
	require.Equal(t, 99, v)
}

func TestDep_SurfacesUpstreamFailure(t *testing.T) {
	h := newHandle[int]()
	h.complete(0, ErrCancelled)

	a := Dep(h)
	require.True(t, a.readyFn())
	_, err := a.takeFn()
	require.ErrorIs(t, err, ErrCancelled)
}

func TestArgsReady(t *testing.T) {
	h := newHandle[int]()
	args := []Arg{Value(1), Dep(h)}
	require.False(t, argsReady(args))

	h.complete(2, nil)
	require.True(t, argsReady(args))
}

func TestTakeArgs_ShortCircuitsOnFirstError(t *testing.T) {
	failed := newHandle[int]()
	failed.complete(0, ErrCancelled)

	secondTaken := false
	second := Arg{
		readyFn: func() bool { return true },
		takeFn:  func() (any, error) { secondTaken = true; return 1, nil },
	}

	_, err := takeArgs([]Arg{Dep(failed), second})
	require.ErrorIs(t, err, ErrCancelled)
	require.False(t, secondTaken, "takeArgs must stop at the first failure")
}
