package taskpool

import (
	"errors"
	"fmt"
)

// TaskMetaError wraps a task failure with the submission index of the
// Submit* call that produced it, letting a caller juggling many handles
// correlate a failure back to its origin. It is only attached when the pool
// was built with WithErrorTagging.
type TaskMetaError struct {
	Index int64
	err   error
}

func (e *TaskMetaError) Error() string {
	return fmt.Sprintf("taskpool: submission %d: %v", e.Index, e.err)
}

func (e *TaskMetaError) Unwrap() error { return e.err }

func newTaskMetaError(err error, index int64) error {
	return &TaskMetaError{Index: index, err: err}
}

// ExtractTaskIndex reports the submission index tagged onto err, if any.
// It returns false if err (or anything it wraps) is not a *TaskMetaError,
// in particular if the pool was not built with WithErrorTagging.
func ExtractTaskIndex(err error) (int64, bool) {
	var meta *TaskMetaError
	if errors.As(err, &meta) {
		return meta.Index, true
	}
	return 0, false
}
