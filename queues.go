package taskpool

import "sync"

// readyQueue is the FIFO of envelopes whose arguments are all ready. Push
// appends and wakes one blocked worker via wake; pop is performed directly
// by the caller under mu (see worker.go's dequeue step). setAborted wakes
// every blocked worker via abortCh, which is closed exactly once.
type readyQueue struct {
	mu      sync.Mutex
	items   []*envelope
	aborted bool
	wake    chan struct{}
	abortCh chan struct{}
}

func newReadyQueue() *readyQueue {
	return &readyQueue{
		wake:    make(chan struct{}, 1),
		abortCh: make(chan struct{}),
	}
}

// push appends env and wakes one waiter. Ordering invariant: among
// envelopes pushed by the same goroutine, dequeue order matches push
// order (spec.md §3 "Ordering invariant").
func (q *readyQueue) push(env *envelope) {
	q.mu.Lock()
	q.items = append(q.items, env)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// pop removes and returns the envelope at the head of the queue. The
// caller must have already established, under mu, that the queue is
// non-empty.
func (q *readyQueue) pop() *envelope {
	env := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return env
}

// setAborted marks the queue aborted and wakes every blocked worker so it
// can observe the pool's abort state (spec.md §4.2 step 3). Safe to call
// more than once.
func (q *readyQueue) setAborted() {
	q.mu.Lock()
	already := q.aborted
	q.aborted = true
	q.mu.Unlock()
	if !already {
		close(q.abortCh)
	}
}

func (q *readyQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// drainAll removes and returns every envelope currently queued, for Abort
// and Reset to orphan them.
func (q *readyQueue) drainAll() []*envelope {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// waitingSet is the unordered collection of envelopes whose arguments were
// not ready at insertion time. It is guarded by a separate lock, acquired
// non-blockingly by workers during promotion (spec.md §4.2 step 1, §5).
type waitingSet struct {
	mu    sync.Mutex
	items []*envelope
}

func newWaitingSet() *waitingSet { return &waitingSet{} }

func (w *waitingSet) add(env *envelope) {
	w.mu.Lock()
	w.items = append(w.items, env)
	w.mu.Unlock()
}

func (w *waitingSet) len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// drainAll removes and returns every envelope currently in the set,
// regardless of readiness. Used by Abort/Reset to destroy outstanding
// envelopes (orphaning their handles with ErrCancelled).
func (w *waitingSet) drainAll() []*envelope {
	w.mu.Lock()
	defer w.mu.Unlock()
	items := w.items
	w.items = nil
	return items
}

// deferredQueue is the FIFO of envelopes submitted in deferred mode. It is
// drained only by an explicit RunDeferred call; workers never consult it
// (spec.md §3, §4.3).
type deferredQueue struct {
	mu    sync.Mutex
	items []*envelope
}

func newDeferredQueue() *deferredQueue { return &deferredQueue{} }

func (d *deferredQueue) push(env *envelope) {
	d.mu.Lock()
	d.items = append(d.items, env)
	d.mu.Unlock()
}

func (d *deferredQueue) len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// swap atomically takes ownership of the entire current queue contents,
// leaving the queue empty, and returns what was taken, mirroring
// original_source's invoke_deferred (std::swap on the underlying queue).
func (d *deferredQueue) swap() []*envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	items := d.items
	d.items = nil
	return items
}

// pushAll re-enqueues envelopes that were not yet ready when RunDeferred
// tried them, preserving their relative order at the tail.
func (d *deferredQueue) pushAll(envs []*envelope) {
	if len(envs) == 0 {
		return
	}
	d.mu.Lock()
	d.items = append(d.items, envs...)
	d.mu.Unlock()
}

// drainAll removes and returns every envelope currently queued, for Abort
// to destroy them.
func (d *deferredQueue) drainAll() []*envelope {
	return d.swap()
}
