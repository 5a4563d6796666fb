// Package commands implements the backup operations as uniform units of
// work. A Save streams one category of a live world to a file, a Load
// replays a file into the world, a Delete clears a category, and an
// Aggregate runs several commands in order.
//
// Save and Load tolerate per-record failures: a record that cannot be
// encoded, decoded, or applied is skipped and counted. Everything else,
// including context cancellation, stops the command.
package commands

import (
	"context"
	"time"

	"github.com/tailored-agentic-units/worldbackup/core/category"
	"github.com/tailored-agentic-units/worldbackup/core/record"
	"github.com/tailored-agentic-units/worldbackup/observability"
	"github.com/tailored-agentic-units/worldbackup/store"
)

// Command is a single executable backup operation.
type Command interface {
	Execute(ctx context.Context) error
}

// StoreFactory opens the file store a Save or Load command works against.
type StoreFactory func(path string, mode record.Mode) store.Store

type options struct {
	observer observability.Observer
	newStore StoreFactory
}

// Option configures a command at construction.
type Option func(*options)

// WithObserver routes command events to obs.
func WithObserver(obs observability.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithStoreFactory replaces the file store used by Save and Load.
func WithStoreFactory(fn StoreFactory) Option {
	return func(o *options) {
		o.newStore = fn
	}
}

func newOptions(opts []Option) options {
	o := options{
		observer: observability.NoOpObserver{},
		newStore: store.NewFileStore,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = observability.NoOpObserver{}
	}
	if o.newStore == nil {
		o.newStore = store.NewFileStore
	}
	return o
}

// execution tracks one run of a command and reports its lifecycle.
type execution struct {
	observer observability.Observer
	source   string
	action   category.Action
	category category.Category
	start    time.Time
	records  int
	skipped  int
}

func begin(ctx context.Context, obs observability.Observer, source string, action category.Action, c category.Category, data map[string]any) *execution {
	e := &execution{
		observer: obs,
		source:   source,
		action:   action,
		category: c,
		start:    time.Now(),
	}

	attrs := e.attrs()
	for k, v := range data {
		attrs[k] = v
	}
	observability.Emit(ctx, obs, startEvents[action], observability.LevelInfo, source, attrs)
	return e
}

func (e *execution) attrs() map[string]any {
	return map[string]any{
		observability.AttrAction:   string(e.action),
		observability.AttrCategory: e.category.Key(),
	}
}

func (e *execution) skip(ctx context.Context, err *RecordError) {
	e.skipped++

	attrs := e.attrs()
	attrs["index"] = err.Index
	attrs[observability.AttrError] = err.Err.Error()
	observability.Emit(ctx, e.observer, EventRecordSkipped, observability.LevelVerbose, e.source, attrs)
}

// finish emits the completion or error event and returns err unchanged.
func (e *execution) finish(ctx context.Context, err error) error {
	attrs := e.attrs()
	attrs[observability.AttrRecords] = e.records
	attrs[observability.AttrSkipped] = e.skipped
	attrs[observability.AttrDuration] = time.Since(e.start)

	if err != nil {
		attrs[observability.AttrOutcome] = observability.OutcomeError
		attrs[observability.AttrError] = err.Error()
		observability.Emit(ctx, e.observer, EventCommandError, observability.LevelError, e.source, attrs)
		return err
	}

	attrs[observability.AttrOutcome] = observability.OutcomeOK
	observability.Emit(ctx, e.observer, completeEvents[e.action], observability.LevelInfo, e.source, attrs)
	return nil
}
