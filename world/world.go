// Package world defines the capabilities the backup commands need from a
// live world connection, and a registry of drivers that open one.
package world

import (
	"context"
	"io"
	"iter"

	"github.com/tailored-agentic-units/worldbackup/core/category"
	"github.com/tailored-agentic-units/worldbackup/core/record"
)

// Querier enumerates the entities of a category. The sequence is lazy and
// single-pass; a step error affects only that entity.
type Querier interface {
	Query(ctx context.Context, c category.Category) iter.Seq2[record.Record, error]
}

// Mutator applies records to, and clears, the live world. Each call is
// synchronous and may fail for a single malformed record.
type Mutator interface {
	DeleteAllObjects(ctx context.Context) error
	DeleteAllTerrain(ctx context.Context) error
	ResetWorldAttributes(ctx context.Context) error
	LoadObject(ctx context.Context, r record.Record) error
	LoadTerrainNode(ctx context.Context, r record.Record) error
	WriteWorldAttribute(ctx context.Context, name string, value any) error
}

// Connection is an open session with a world server.
type Connection interface {
	Querier
	Mutator
	io.Closer
}
