package commands

import (
	"context"

	"github.com/tailored-agentic-units/worldbackup/core/category"
	"github.com/tailored-agentic-units/worldbackup/core/record"
	"github.com/tailored-agentic-units/worldbackup/world"
)

// Save writes every entity of one category to a file, one line each.
// Lines are appended; an existing file is never truncated.
type Save struct {
	querier  world.Querier
	category category.Category
	file     string
	mode     record.Mode
	opts     options
}

// NewSave resolves categoryName and binds a save of that category to file.
func NewSave(q world.Querier, categoryName, file string, mode record.Mode, opts ...Option) (*Save, error) {
	c, err := category.Resolve(categoryName)
	if err != nil {
		return nil, err
	}
	return &Save{
		querier:  q,
		category: c,
		file:     file,
		mode:     mode,
		opts:     newOptions(opts),
	}, nil
}

func (s *Save) Category() category.Category { return s.category }
func (s *Save) File() string                 { return s.file }

func (s *Save) Execute(ctx context.Context) error {
	run := begin(ctx, s.opts.observer, "commands.Save", category.ActionSave, s.category,
		map[string]any{"file": s.file, "mode": s.mode.String()})

	app, err := s.opts.newStore(s.file, s.mode).OpenAppender(ctx)
	if err != nil {
		return run.finish(ctx, err)
	}

	index := 0
	for r, qerr := range s.querier.Query(ctx, s.category) {
		if err := ctx.Err(); err != nil {
			app.Close()
			return run.finish(ctx, err)
		}
		index++

		if qerr != nil {
			run.skip(ctx, &RecordError{Index: index, Err: qerr})
			continue
		}
		if err := app.Append(r); err != nil {
			run.skip(ctx, &RecordError{Index: index, Err: err})
			continue
		}
		run.records++
	}

	if err := app.Close(); err != nil {
		return run.finish(ctx, err)
	}
	return run.finish(ctx, ctx.Err())
}
