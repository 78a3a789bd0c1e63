package taskpool

import (
	"context"
	"fmt"
	"time"

	"github.com/go-taskpool/taskpool/allocator"
	"github.com/go-taskpool/taskpool/metrics"
)

// Allocator is the value-recycling abstraction accepted by
// SubmitWithAllocator and SubmitCancellableWithAllocator. The pool neither
// defines nor constrains what it produces, that is left to the caller, as
// spec.md's out-of-scope list for "custom memory allocators" requires.
type Allocator = allocator.Allocator

// config holds every construct-time setting, built from defaultConfig and
// mutated by the Option values passed to Construct.
type config struct {
	ctx              context.Context
	checkLatency     time.Duration
	idlePollInterval time.Duration
	allocator        Allocator
	metrics          metrics.Provider
	errorTagging     bool
}

// defaultConfig returns the configuration Construct starts from before
// applying any Option.
func defaultConfig() config {
	return config{
		ctx:              context.Background(),
		checkLatency:     500 * time.Microsecond,
		idlePollInterval: time.Millisecond,
		allocator:        allocator.NewDynamic(func() (any, error) { return struct{}{}, nil }),
		metrics:          metrics.NewNoopProvider(),
		errorTagging:     false,
	}
}

// validateConfig rejects configurations Construct cannot run with. Called
// once, after every Option has been applied.
func validateConfig(cfg *config) error {
	if cfg.ctx == nil {
		return fmt.Errorf("context must not be nil")
	}
	if cfg.checkLatency <= 0 {
		return fmt.Errorf("check latency must be positive, got %s", cfg.checkLatency)
	}
	if cfg.idlePollInterval <= 0 {
		return fmt.Errorf("idle poll interval must be positive, got %s", cfg.idlePollInterval)
	}
	if cfg.allocator == nil {
		return fmt.Errorf("allocator must not be nil")
	}
	if cfg.metrics == nil {
		return fmt.Errorf("metrics provider must not be nil")
	}
	return nil
}
