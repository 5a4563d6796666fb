package commands

import (
	"fmt"

	"github.com/tailored-agentic-units/worldbackup/core/category"
)

// RecordError describes a single record that was skipped. Index is the
// 1-based position of the step in the query or file sequence.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// BulkOperationError reports a failed delete of an entire category.
type BulkOperationError struct {
	Category category.Category
	Err      error
}

func (e *BulkOperationError) Error() string {
	return fmt.Sprintf("delete %s failed: %v", e.Category.Key(), e.Err)
}

func (e *BulkOperationError) Unwrap() error {
	return e.Err
}

// AggregateError reports the step that stopped an Aggregate. Step is the
// 0-based index of the failing command.
type AggregateError struct {
	Step int
	Err  error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("aggregate failed at step %d: %v", e.Step, e.Err)
}

func (e *AggregateError) Unwrap() error {
	return e.Err
}
