package allocator

import "sync"

// dynamic is an unbounded, demand-sized Allocator built on sync.Pool: it
// never blocks and never limits how many values exist concurrently, trading
// that for no guarantee a Put value will ever be reused.
type dynamic struct {
	pool  sync.Pool
	newFn func() (any, error)
}

// NewDynamic wraps newFn in a sync.Pool-backed Allocator. newFn is called
// whenever the pool has nothing to offer; its error, if any, is returned
// from Get unchanged.
func NewDynamic(newFn func() (any, error)) Allocator {
	return &dynamic{newFn: newFn}
}

func (d *dynamic) Get() (any, error) {
	if v := d.pool.Get(); v != nil {
		return v, nil
	}
	return d.newFn()
}

func (d *dynamic) Put(v any) {
	d.pool.Put(v)
}
