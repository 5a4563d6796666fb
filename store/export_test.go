package store

import (
	"io"

	"github.com/tailored-agentic-units/worldbackup/core/record"
)

// NewAppenderOn returns an Appender writing through f.
func NewAppenderOn(f interface {
	io.WriteCloser
	io.Seeker
	Truncate(size int64) error
}, mode record.Mode) *Appender {
	return &Appender{file: f, path: "test", mode: mode}
}
