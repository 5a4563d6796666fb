// Package backup composes a world connection, the backup commands, and the
// invoker into a single runtime for one process run.
//
// The runtime is built from a live connection and the resolved command-line
// arguments. Options override the observer and file store for testing.
//
//	conn, err := world.Open(ctx, &cfg.World)
//	rt, err := backup.New(conn, backup.Args{File: "dump", Mode: record.Text})
//	err = rt.Run(ctx, category.ActionSave, category.AllToken)
package backup

import (
	"context"
	"time"

	"github.com/tailored-agentic-units/worldbackup/commands"
	"github.com/tailored-agentic-units/worldbackup/core/category"
	"github.com/tailored-agentic-units/worldbackup/invoker"
	"github.com/tailored-agentic-units/worldbackup/observability"
	"github.com/tailored-agentic-units/worldbackup/world"
)

type options struct {
	observer     observability.Observer
	storeFactory commands.StoreFactory
}

// Option configures a Runtime at construction.
type Option func(*options)

// WithObserver routes runtime, invoker, and command events to o.
func WithObserver(o observability.Observer) Option {
	return func(opts *options) { opts.observer = o }
}

// WithStoreFactory overrides the file store used by Save and Load commands.
func WithStoreFactory(fn commands.StoreFactory) Option {
	return func(opts *options) { opts.storeFactory = fn }
}

// Runtime dispatches actions against one world connection.
type Runtime struct {
	invoker  *invoker.Invoker
	observer observability.Observer
}

// New builds the action table for conn and wraps it in an invoker.
func New(conn world.Connection, args Args, opts ...Option) (*Runtime, error) {
	o := options{observer: observability.NoOpObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = observability.NoOpObserver{}
	}

	cmdOpts := []commands.Option{commands.WithObserver(o.observer)}
	if o.storeFactory != nil {
		cmdOpts = append(cmdOpts, commands.WithStoreFactory(o.storeFactory))
	}

	table, err := Commands(conn, args, cmdOpts...)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		invoker:  invoker.New(table, invoker.WithObserver(o.observer)),
		observer: o.observer,
	}, nil
}

// Invoker exposes the underlying registry.
func (r *Runtime) Invoker() *invoker.Invoker {
	return r.invoker
}

// Run invokes "<action> <token>", where token is a category key or
// category.AllToken.
func (r *Runtime) Run(ctx context.Context, action category.Action, token string) error {
	name := action.KeyFor(token)
	start := time.Now()

	observability.Emit(ctx, r.observer, EventRunStart, observability.LevelInfo, "backup.Run",
		map[string]any{"command": name})

	if err := r.invoker.Invoke(ctx, name); err != nil {
		observability.Emit(ctx, r.observer, EventRunError, observability.LevelError, "backup.Run",
			map[string]any{"command": name, observability.AttrError: err.Error()})
		return err
	}

	observability.Emit(ctx, r.observer, EventRunComplete, observability.LevelInfo, "backup.Run",
		map[string]any{"command": name, "elapsed": time.Since(start)})
	return nil
}
