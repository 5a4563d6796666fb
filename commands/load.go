package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/worldbackup/core/category"
	"github.com/tailored-agentic-units/worldbackup/core/record"
	"github.com/tailored-agentic-units/worldbackup/store"
	"github.com/tailored-agentic-units/worldbackup/world"
)

// ErrMissingName is recorded for a world attribute line without a name.
var ErrMissingName = errors.New("attribute record has no name")

// Load replays a file into the world, one mutation per line. Server
// assigned fields (id, number) are stripped before each mutation.
type Load struct {
	mutator  world.Mutator
	category category.Category
	file     string
	mode     record.Mode
	opts     options
}

// NewLoad resolves categoryName and binds a load of file into that category.
func NewLoad(m world.Mutator, categoryName, file string, mode record.Mode, opts ...Option) (*Load, error) {
	c, err := category.Resolve(categoryName)
	if err != nil {
		return nil, err
	}
	return &Load{
		mutator:  m,
		category: c,
		file:     file,
		mode:     mode,
		opts:     newOptions(opts),
	}, nil
}

func (l *Load) Category() category.Category { return l.category }
func (l *Load) File() string                 { return l.file }

func (l *Load) Execute(ctx context.Context) error {
	run := begin(ctx, l.opts.observer, "commands.Load", category.ActionLoad, l.category,
		map[string]any{"file": l.file, "mode": l.mode.String()})

	rd, err := l.opts.newStore(l.file, l.mode).Load(ctx)
	if err != nil {
		return run.finish(ctx, err)
	}
	defer rd.Close()

	index := 0
	for r, rerr := range rd.Records(ctx) {
		if err := ctx.Err(); err != nil {
			return run.finish(ctx, err)
		}
		index++

		if rerr != nil {
			var lineErr *store.LineError
			if !errors.As(rerr, &lineErr) {
				return run.finish(ctx, rerr)
			}
			run.skip(ctx, &RecordError{Index: index, Err: rerr})
			continue
		}

		if err := l.apply(ctx, r.StripTransient()); err != nil {
			run.skip(ctx, &RecordError{Index: index, Err: err})
			continue
		}
		run.records++
	}

	return run.finish(ctx, ctx.Err())
}

func (l *Load) apply(ctx context.Context, r record.Record) error {
	switch l.category {
	case category.Object:
		return l.mutator.LoadObject(ctx, r)
	case category.Terrain:
		return l.mutator.LoadTerrainNode(ctx, r)
	case category.World:
		name, ok := r.StringField("name")
		if !ok || name == "" {
			return ErrMissingName
		}
		return l.mutator.WriteWorldAttribute(ctx, name, r["value"])
	default:
		return fmt.Errorf("%w: %s", category.ErrUnknownCategory, l.category)
	}
}
