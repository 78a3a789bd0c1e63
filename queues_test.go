package taskpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadyQueue_PushPopFIFO(t *testing.T) {
	q := newReadyQueue()
	e1 := &envelope{}
	e2 := &envelope{}
	q.push(e1)
	q.push(e2)
	require.Equal(t, 2, q.len())

	q.mu.Lock()
	got := q.pop()
	q.mu.Unlock()
	require.Same(t, e1, got)
	require.Equal(t, 1, q.len())
}

func TestReadyQueue_Wake(t *testing.T) {
	q := newReadyQueue()
	q.push(&envelope{})
	select {
	case <-q.wake:
	default:
		t.Fatalf("push did not signal wake")
	}
}

func TestReadyQueue_SetAbortedClosesOnce(t *testing.T) {
	q := newReadyQueue()
	q.setAborted()
	q.setAborted() // must not panic on double-close
	select {
	case <-q.abortCh:
	default:
		t.Fatalf("abortCh was not closed")
	}
	require.True(t, q.aborted)
}

func TestReadyQueue_DrainAll(t *testing.T) {
	q := newReadyQueue()
	q.push(&envelope{})
	q.push(&envelope{})
	envs := q.drainAll()
	require.Len(t, envs, 2)
	require.Equal(t, 0, q.len())
}

func TestWaitingSet_AddAndDrainAll(t *testing.T) {
	w := newWaitingSet()
	w.add(&envelope{})
	w.add(&envelope{})
	require.Equal(t, 2, w.len())

	envs := w.drainAll()
	require.Len(t, envs, 2)
	require.Equal(t, 0, w.len())
}

func TestDeferredQueue_SwapTakesEverything(t *testing.T) {
	d := newDeferredQueue()
	d.push(&envelope{})
	d.push(&envelope{})
	require.Equal(t, 2, d.len())

	envs := d.swap()
	require.Len(t, envs, 2)
	require.Equal(t, 0, d.len())
}

func TestDeferredQueue_PushAllPreservesOrder(t *testing.T) {
	d := newDeferredQueue()
	e1, e2 := &envelope{}, &envelope{}
	d.pushAll([]*envelope{e1, e2})
	require.Equal(t, 2, d.len())

	envs := d.swap()
	require.Same(t, e1, envs[0])
	require.Same(t, e2, envs[1])
}
