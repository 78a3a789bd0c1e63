package taskpool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskMetaError_WrapAndUnwrap(t *testing.T) {
	sentinel := errors.New("boom")
	wrapped := newTaskMetaError(sentinel, 3)

	require.ErrorIs(t, wrapped, sentinel)

	idx, ok := ExtractTaskIndex(wrapped)
	require.True(t, ok)
	require.EqualValues(t, 3, idx)
}

func TestExtractTaskIndex_FalseWhenUntagged(t *testing.T) {
	_, ok := ExtractTaskIndex(errors.New("plain"))
	require.False(t, ok)
}

func TestTagError_NoopWhenDisabled(t *testing.T) {
	p := Construct(1)
	defer p.Abort()

	sentinel := errors.New("boom")
	err := tagError(p, 0, sentinel)
	require.Same(t, sentinel, err)
}

func TestTagError_WrapsWhenEnabled(t *testing.T) {
	p := Construct(1, WithErrorTagging())
	defer p.Abort()

	sentinel := errors.New("boom")
	err := tagError(p, 5, sentinel)
	idx, ok := ExtractTaskIndex(err)
	require.True(t, ok)
	require.EqualValues(t, 5, idx)
}
