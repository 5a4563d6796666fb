// Package store persists world records as newline-delimited JSON files.
// Writes append one line per record so a dump of any size is never held in
// memory; reads decode one line at a time so replay can start before the
// whole file has been read.
package store

import (
	"context"

	"github.com/tailored-agentic-units/worldbackup/core/record"
)

// Store translates between entity records and a line-oriented backup file.
// Implementations open and close the underlying file per logical operation.
type Store interface {
	// Append writes one record as a single line, creating the file if needed.
	Append(ctx context.Context, r record.Record) error
	// OpenAppender opens the file once for a sequence of appends.
	OpenAppender(ctx context.Context) (*Appender, error)
	// Load opens the file for a single lazy pass over its records.
	Load(ctx context.Context) (*Reader, error)
}
