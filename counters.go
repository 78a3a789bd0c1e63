package taskpool

import "sync/atomic"

// counters tracks the three atomic non-negative integers spec.md §3
// mandates: queued, waiting, running. Each field is adjusted only at the
// transitions described there (submission routing, promotion, dequeue,
// and completion), when Abort or Reset destroys queued and waiting
// envelopes, and around each envelope RunDeferred executes.
type counters struct {
	queued  atomic.Int64
	waiting atomic.Int64
	running atomic.Int64
}

func (c *counters) queuedCount() int64  { return c.queued.Load() }
func (c *counters) waitingCount() int64 { return c.waiting.Load() }
func (c *counters) runningCount() int64 { return c.running.Load() }
func (c *counters) total() int64        { return c.queued.Load() + c.waiting.Load() + c.running.Load() }

// idle reports whether the pool currently has nothing queued, waiting, or
// running, the quiescence condition Drain waits for (invariant 1).
func (c *counters) idle() bool { return c.total() == 0 }
