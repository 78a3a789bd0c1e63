package taskpool

import "sync/atomic"

// stopFlag is the process-visible cancellation flag shared by one Pool
// instance. It is created at construction, set true during Abort or
// destruction of worker threads, and reset only by Reset constructing a
// fresh flag. Once true, it never returns to false within the lifetime of
// the flag value itself; Reset swaps in a brand new stopFlag rather than
// clearing this one, which is what lets that invariant hold unconditionally.
type stopFlag struct {
	set atomic.Bool
}

func newStopFlag() *stopFlag { return &stopFlag{} }

func (f *stopFlag) fire() { f.set.Store(true) }

func (f *stopFlag) isSet() bool { return f.set.Load() }

// StopToken is a lightweight, read-only view onto a Pool's cancellation
// flag. It does not imply ownership of the flag: copying a StopToken is
// cheap and safe, and many views may observe the same underlying flag.
//
// Tasks opt into cancellation awareness by accepting a StopToken argument
// (see SubmitCancellable and SubmitCancellableWithAllocator). Cancellation
// is advisory: the pool never interrupts a running task, so a task that
// never checks its token will run to completion, delaying Abort.
type StopToken struct {
	flag *stopFlag
}

// IsSet reports whether the owning pool has been aborted or is being torn
// down. It is safe to call from any goroutine at any rate.
func (s StopToken) IsSet() bool {
	if s.flag == nil {
		return false
	}
	return s.flag.isSet()
}
