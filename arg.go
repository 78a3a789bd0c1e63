package taskpool

// Arg is a uniform, type-erased wrapper around one submitted argument: a
// directly provided value, or a consumer Handle produced by an earlier
// submission. It exposes exactly the two operations spec.md §3 calls for:
// a non-blocking readiness check and a one-shot take.
//
// Build one with Value (always-ready) or Dep (ready once the referenced
// Handle completes). Once takeFn has been called, it must not be called
// again; callers only ever go through an envelope's execute, which runs at
// most once and takes each of its Args exactly once.
type Arg struct {
	readyFn func() bool
	takeFn  func() (any, error)
}

// Value wraps a directly provided value. Its readiness is always true.
func Value[T any](v T) Arg {
	taken := false
	return Arg{
		readyFn: func() bool { return true },
		takeFn: func() (any, error) {
			// Guard against accidental double-take even though an
			// envelope's execute only ever takes an Arg once; cheap to assert.
			if taken {
				panic("taskpool: Arg taken twice")
			}
			taken = true
			return v, nil
		},
	}
}

// Dep wraps a consumer Handle produced by an earlier submission. Its
// readiness reflects that handle's slot state (polled non-blockingly);
// taking it consumes the handle via Take, surfacing the original failure
// (if any) to the dependent task's conjunction step.
func Dep[T any](h *Handle[T]) Arg {
	taken := false
	return Arg{
		readyFn: func() bool { return h.Poll() != StatusEmpty },
		takeFn: func() (any, error) {
			if taken {
				panic("taskpool: Arg taken twice")
			}
			taken = true
			v, err := h.Take()
			return v, err
		},
	}
}

// argsReady reports whether every Arg in args is currently ready. It is
// side-effect free and safe to call from a worker during promotion or from
// the lifecycle controller during drain, per spec.md §4.4.
func argsReady(args []Arg) bool {
	for _, a := range args {
		if !a.readyFn() {
			return false
		}
	}
	return true
}

// takeArgs resolves every Arg in declared order, short-circuiting and
// returning the first dependency failure encountered: taking a Dep-backed
// Arg surfaces its upstream handle's stored failure.
func takeArgs(args []Arg) ([]any, error) {
	values := make([]any, len(args))
	for i, a := range args {
		v, err := a.takeFn()
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
