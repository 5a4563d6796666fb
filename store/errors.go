package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for store operations.
var (
	ErrLoadFailed  = errors.New("load failed")
	ErrSaveFailed  = errors.New("save failed")
	ErrClosed      = errors.New("store handle closed")
	ErrLineTooLong = errors.New("line exceeds maximum size")
)

// LineError reports a line of a backup file that could not be decoded.
// It affects only that line; the reader continues with the next one.
type LineError struct {
	Path string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
