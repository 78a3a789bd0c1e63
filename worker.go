package taskpool

import (
	"context"
	"runtime"
	"time"
)

// workerLoop is the persistent per-thread cycle every Construct/Reset
// goroutine runs until the ready queue is aborted. It implements the
// seven-step cycle of original_source's thread_worker(latency):
//
//  1. Opportunistically promote ready envelopes out of the waiting set.
//  2. Wait for work on the ready queue, with a latency that tightens while
//     the waiting set is non-empty.
//  3. Exit if the pool has been aborted.
//  4. Yield and restart the cycle if the pool is paused.
//  5. Dequeue the head envelope.
//  6. Execute it.
//  7. Account for completion and nudge anything waiting on Drain.
func (p *Pool) workerLoop(ctx context.Context) {
	timer := time.NewTimer(p.cfg.idlePollInterval)
	defer timer.Stop()

	for {
		p.promote()

		p.ready.mu.Lock()
		empty := len(p.ready.items) == 0
		aborted := p.ready.aborted

		if empty && !aborted {
			p.ready.mu.Unlock()

			timeout := p.cfg.idlePollInterval
			if p.counters.waitingCount() > 0 {
				timeout = p.cfg.checkLatency
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(timeout)

			select {
			case <-p.ready.wake:
			case <-p.ready.abortCh:
			case <-timer.C:
			}
			continue
		}

		if aborted {
			p.ready.mu.Unlock()
			return
		}

		if p.paused.Load() {
			p.ready.mu.Unlock()
			runtime.Gosched()
			continue
		}

		env := p.ready.pop()
		p.ready.mu.Unlock()

		p.incRunning(1)
		p.incQueued(-1)
		p.pulseDrain()

		if env.execute == nil {
			panic(Namespace + ": worker dequeued envelope with nil execute")
		}

		start := time.Now()
		env.execute(ctx)
		elapsed := time.Since(start)

		p.incRunning(-1)
		p.recordCompletion(env.status(), elapsed)
		p.pulseDrain()
	}
}

// promote moves every currently-ready envelope from the waiting set to the
// ready queue, without blocking if another goroutine already holds the
// waiting-set lock (spec.md §4.2 step 1, §5: a non-blocking try-lock, not a
// queue-wide scan under contention).
func (p *Pool) promote() {
	if !p.waiting.mu.TryLock() {
		return
	}
	if len(p.waiting.items) == 0 {
		p.waiting.mu.Unlock()
		return
	}

	items := p.waiting.items
	kept := items[:0]
	var promoted []*envelope
	for _, env := range items {
		if env.ready() {
			promoted = append(promoted, env)
		} else {
			kept = append(kept, env)
		}
	}
	p.waiting.items = kept
	p.waiting.mu.Unlock()

	if len(promoted) == 0 {
		return
	}

	p.incQueued(int64(len(promoted)))
	p.incWaiting(-int64(len(promoted)))
	for _, env := range promoted {
		p.ready.push(env)
	}
	p.pulseDrain()
}
