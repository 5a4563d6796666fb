package commands

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/worldbackup/core/category"
	"github.com/tailored-agentic-units/worldbackup/world"
)

// Delete clears every entity of one category with a single bulk call.
// World attributes are reset rather than deleted.
type Delete struct {
	mutator  world.Mutator
	category category.Category
	opts     options
}

// NewDelete resolves categoryName and binds a delete of that category.
func NewDelete(m world.Mutator, categoryName string, opts ...Option) (*Delete, error) {
	c, err := category.Resolve(categoryName)
	if err != nil {
		return nil, err
	}
	return &Delete{mutator: m, category: c, opts: newOptions(opts)}, nil
}

func (d *Delete) Category() category.Category { return d.category }

func (d *Delete) Execute(ctx context.Context) error {
	run := begin(ctx, d.opts.observer, "commands.Delete", category.ActionDelete, d.category, nil)

	if err := ctx.Err(); err != nil {
		return run.finish(ctx, err)
	}

	var err error
	switch d.category {
	case category.Object:
		err = d.mutator.DeleteAllObjects(ctx)
	case category.Terrain:
		err = d.mutator.DeleteAllTerrain(ctx)
	case category.World:
		err = d.mutator.ResetWorldAttributes(ctx)
	default:
		err = fmt.Errorf("%w: %s", category.ErrUnknownCategory, d.category)
	}

	if err != nil {
		return run.finish(ctx, &BulkOperationError{Category: d.category, Err: err})
	}
	return run.finish(ctx, nil)
}
