package taskpool

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-taskpool/taskpool/metrics"
)

// Pool is the fixed-size worker pool. One Pool instance hosts heterogeneous
// task result types: each Submit* call is parameterized independently by
// its own result type, so Pool itself stays non-generic.
//
// A Pool is safe for concurrent use by any number of goroutines: submitting
// tasks, polling handles, and calling lifecycle methods may all happen
// concurrently.
type Pool struct {
	mu sync.Mutex // serializes Abort/Reset and the startLocked they share

	cfg config

	ready    *readyQueue
	waiting  *waitingSet
	deferred *deferredQueue
	counters counters

	stop       *stopFlag
	paused     atomic.Bool
	terminated atomic.Bool

	threadCount int
	workers     sync.WaitGroup

	drainPulse chan struct{}

	submissionIndex atomic.Int64

	instruments poolInstruments
}

// poolInstruments bundles the metrics.Provider instruments a Pool reports
// through; see SPEC_FULL.md's DOMAIN STACK section for the instrument
// names and what each tracks.
type poolInstruments struct {
	queued      metrics.UpDownCounter
	waiting     metrics.UpDownCounter
	running     metrics.UpDownCounter
	submitted   metrics.Counter
	completed   metrics.Counter
	failed      metrics.Counter
	execSeconds metrics.Histogram
}

func newPoolInstruments(p metrics.Provider) poolInstruments {
	return poolInstruments{
		queued:    p.UpDownCounter("taskpool.queued", metrics.WithDescription("envelopes in the ready queue")),
		waiting:   p.UpDownCounter("taskpool.waiting", metrics.WithDescription("envelopes in the waiting set")),
		running:   p.UpDownCounter("taskpool.running", metrics.WithDescription("envelopes currently executing")),
		submitted: p.Counter("taskpool.submitted", metrics.WithDescription("tasks accepted by Submit*")),
		completed: p.Counter("taskpool.completed", metrics.WithDescription("tasks that finished executing")),
		failed:    p.Counter("taskpool.failed", metrics.WithDescription("tasks that finished with a failure")),
		execSeconds: p.Histogram("taskpool.exec_seconds",
			metrics.WithUnit("seconds"), metrics.WithDescription("wall time of one task execution")),
	}
}

// Construct builds a Pool with threadCount worker goroutines. A threadCount
// of 0 or less resolves to runtime.NumCPU(), falling back to 1 if that
// reports 0. Construct panics if any Option is nil or produces an invalid
// configuration, these are programmer errors, not runtime conditions a
// caller should need to check for.
func Construct(threadCount int, opts ...Option) *Pool {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			panic(fmt.Errorf("%w: nil option", ErrInvalidOption))
		}
		opt(&cfg)
	}
	if err := validateConfig(&cfg); err != nil {
		panic(fmt.Errorf("%w: %v", ErrInvalidOption, err))
	}

	p := &Pool{cfg: cfg, instruments: newPoolInstruments(cfg.metrics)}
	p.startLocked(resolveThreadCount(threadCount))
	return p
}

func resolveThreadCount(n int) int {
	if n > 0 {
		return n
	}
	if c := runtime.NumCPU(); c > 0 {
		return c
	}
	return 1
}

// startLocked (re)populates the ready queue, waiting set, cancellation
// flag, and worker goroutines, and clears the terminated state. The
// deferred queue is preserved across calls. Reset tears down and rebuilds
// worker threads; it does not discard tasks a caller is holding back for a
// later RunDeferred. Callers other than Construct must hold mu.
func (p *Pool) startLocked(n int) {
	p.ready = newReadyQueue()
	p.waiting = newWaitingSet()
	if p.deferred == nil {
		p.deferred = newDeferredQueue()
	}
	p.stop = newStopFlag()
	p.drainPulse = make(chan struct{}, 1)
	p.threadCount = n
	p.terminated.Store(false)

	for i := 0; i < n; i++ {
		p.workers.Add(1)
		go func() {
			defer p.workers.Done()
			p.workerLoop(p.cfg.ctx)
		}()
	}
}

// nextSubmissionIndex hands out a monotonically increasing index, used by
// error tagging (see errortagging.go) to let a caller correlate a failure
// back to the Submit* call that produced it.
func (p *Pool) nextSubmissionIndex() int64 {
	return p.submissionIndex.Add(1) - 1
}

func (p *Pool) pulseDrain() {
	select {
	case p.drainPulse <- struct{}{}:
	default:
	}
}

func (p *Pool) incQueued(n int64) {
	p.counters.queued.Add(n)
	p.instruments.queued.Add(n)
}

func (p *Pool) incWaiting(n int64) {
	p.counters.waiting.Add(n)
	p.instruments.waiting.Add(n)
}

func (p *Pool) incRunning(n int64) {
	p.counters.running.Add(n)
	p.instruments.running.Add(n)
}

func (p *Pool) recordCompletion(status Status, elapsed time.Duration) {
	p.instruments.completed.Add(1)
	if status == StatusFailure {
		p.instruments.failed.Add(1)
	}
	p.instruments.execSeconds.Record(elapsed.Seconds())
}

// QueuedCount, WaitingCount, RunningCount, and TotalCount report the
// Counters component's three atomics (and their sum) at the moment of the
// call; by the time a caller observes the value it may already be stale.
func (p *Pool) QueuedCount() int64  { return p.counters.queuedCount() }
func (p *Pool) WaitingCount() int64 { return p.counters.waitingCount() }
func (p *Pool) RunningCount() int64 { return p.counters.runningCount() }
func (p *Pool) TotalCount() int64   { return p.counters.total() }

// ThreadCount reports how many worker goroutines the current generation of
// the pool runs (original_source's get_thread_count()).
func (p *Pool) ThreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.threadCount
}

// StopTokenView returns a read-only view of the pool's current
// cancellation flag. The flag it observes changes across a Reset, callers
// that hold a StopToken across a Reset will keep observing the old
// (already-fired) flag, not the new one.
func (p *Pool) StopTokenView() StopToken { return StopToken{flag: p.stop} }

// Paused reports whether the pool is currently paused.
func (p *Pool) Paused() bool { return p.paused.Load() }

// Pause stops workers from dequeuing new envelopes. Envelopes already
// running continue to completion; newly ready envelopes keep accumulating
// in the ready queue until Unpause.
func (p *Pool) Pause() {
	p.paused.Store(true)
	p.pulseDrain()
}

// Unpause resumes dequeuing. Workers notice within at most one
// idlePollInterval.
func (p *Pool) Unpause() {
	p.paused.Store(false)
}

// Drain blocks until the pool is quiescent (queued + waiting + running ==
// 0), or returns immediately if the pool is paused, matching
// original_source's wait()/wait_for_tasks(), which treats a paused pool as
// trivially "done waiting" rather than hanging until someone calls Unpause.
// Drain never interacts with the cancellation flag (invariant 7).
func (p *Pool) Drain() {
	for {
		if p.paused.Load() || p.counters.idle() {
			return
		}
		select {
		case <-p.drainPulse:
		case <-time.After(p.cfg.idlePollInterval):
		}
	}
}

// DrainContext is Drain with a deadline: it returns ctx.Err() (typically
// context.DeadlineExceeded) if ctx is done before the pool reaches
// quiescence or becomes paused.
func (p *Pool) DrainContext(ctx context.Context) error {
	for {
		if p.paused.Load() || p.counters.idle() {
			return nil
		}
		select {
		case <-p.drainPulse:
		case <-time.After(p.cfg.idlePollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Abort fires the cancellation flag, stops all worker threads, and
// destroys every envelope still in the ready queue, the waiting set, and
// the deferred queue, completing each of their handles with ErrCancelled.
// Already-running envelopes are allowed to finish. The pool becomes
// terminated: further Submit* calls fail with ErrSubmissionRejected until
// Reset. Calling Abort on an already-terminated pool is a no-op.
func (p *Pool) Abort() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.terminated.Load() {
		return
	}
	p.stop.fire()
	p.ready.setAborted()
	p.workers.Wait()
	p.destroyPending()
	p.destroyDeferred()
	p.terminated.Store(true)
	p.pulseDrain()
}

// Reset pauses, fires the current cancellation flag so any task spinning on
// its StopToken can observe it and return, tears down all worker threads
// (letting any in-flight envelope finish first), destroys whatever is left
// in the ready queue and waiting set (completing their handles with
// ErrCancelled, per this implementation's resolution of spec.md's
// orphaned-handle open question), then constructs a new cancellation flag
// and a new set of worker threads, and finally restores the pool's previous
// paused state. The deferred queue survives a Reset untouched: those
// envelopes were never scheduled for automatic execution in the first
// place, so tearing down worker threads does not orphan them.
func (p *Pool) Reset(threadCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	wasPaused := p.paused.Load()
	p.paused.Store(true)

	p.stop.fire()
	p.ready.setAborted()
	p.workers.Wait()
	p.destroyPending()

	p.startLocked(resolveThreadCount(threadCount))
	p.paused.Store(wasPaused)
}

// destroyPending drains the ready queue and the waiting set, completing
// every envelope's handle with ErrCancelled instead of running it.
func (p *Pool) destroyPending() {
	readyEnvs := p.ready.drainAll()
	p.incQueued(-int64(len(readyEnvs)))
	waitingEnvs := p.waiting.drainAll()
	p.incWaiting(-int64(len(waitingEnvs)))

	for _, e := range readyEnvs {
		e.cancel(ErrCancelled)
	}
	for _, e := range waitingEnvs {
		e.cancel(ErrCancelled)
	}
}

// destroyDeferred drains the deferred queue, completing every envelope's
// handle with ErrCancelled. Only Abort calls this; Reset leaves the
// deferred queue alone, see Reset's doc comment.
func (p *Pool) destroyDeferred() {
	for _, e := range p.deferred.drainAll() {
		e.cancel(ErrCancelled)
	}
}

// RunDeferred drains the deferred queue synchronously on the calling
// goroutine: each envelope whose arguments are now ready executes inline;
// the rest are re-queued, preserving their relative order, for a later
// RunDeferred call (original_source's invoke_deferred).
func (p *Pool) RunDeferred() {
	pending := p.deferred.swap()
	if len(pending) == 0 {
		return
	}

	var requeue []*envelope
	for _, env := range pending {
		if !env.ready() {
			requeue = append(requeue, env)
			continue
		}

		p.incRunning(1)
		start := time.Now()
		env.execute(p.cfg.ctx)
		elapsed := time.Since(start)
		p.incRunning(-1)
		p.recordCompletion(env.status(), elapsed)
		p.pulseDrain()
	}

	p.deferred.pushAll(requeue)
}
