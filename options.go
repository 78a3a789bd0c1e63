package taskpool

import (
	"context"
	"time"

	"github.com/go-taskpool/taskpool/metrics"
)

// Option configures a Pool at Construct time.
type Option func(*config)

// WithCheckLatency sets how long an idle worker waits on the ready queue
// before re-attempting promotion, when the waiting set is non-empty. Small
// values make newly-ready deferred tasks start sooner at the cost of more
// frequent wakeups.
func WithCheckLatency(d time.Duration) Option {
	return func(c *config) { c.checkLatency = d }
}

// WithIdlePollInterval sets the coarser timeout a worker waits on the ready
// queue when the waiting set is empty, so it still notices Pause, Abort, and
// Reset promptly without a dedicated wakeup channel for every transition.
func WithIdlePollInterval(d time.Duration) Option {
	return func(c *config) { c.idlePollInterval = d }
}

// WithAllocator supplies the Allocator consulted by SubmitWithAllocator and
// SubmitCancellableWithAllocator. The default allocator always succeeds and
// hands back an empty struct{}, so those variants work out of the box even
// when no real resource needs recycling.
func WithAllocator(a Allocator) Option {
	return func(c *config) { c.allocator = a }
}

// WithMetricsProvider supplies the metrics.Provider the pool reports
// lifecycle counters and task outcomes to. The default is
// metrics.NewNoopProvider.
func WithMetricsProvider(p metrics.Provider) Option {
	return func(c *config) { c.metrics = p }
}

// WithErrorTagging enables wrapping a failed task's error with its
// submission index before it reaches the handle, so a caller juggling many
// handles can tell which submission a given failure came from via
// ExtractTaskIndex.
func WithErrorTagging() Option {
	return func(c *config) { c.errorTagging = true }
}

// WithContext sets the base context.Context passed to every task callable.
// The default is context.Background(); cancelling a context supplied this
// way does not itself cancel the pool, use StopTokenView for cooperative
// pool-wide cancellation.
func WithContext(ctx context.Context) Option {
	return func(c *config) { c.ctx = ctx }
}
