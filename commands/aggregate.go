package commands

import "context"

// Aggregate runs its commands sequentially in construction order and stops
// at the first failure.
type Aggregate struct {
	commands []Command
}

// NewAggregate composes cmds into one command. Nil entries are dropped.
func NewAggregate(cmds ...Command) *Aggregate {
	filtered := make([]Command, 0, len(cmds))
	for _, cmd := range cmds {
		if cmd != nil {
			filtered = append(filtered, cmd)
		}
	}
	return &Aggregate{commands: filtered}
}

// Len reports how many commands the aggregate runs.
func (a *Aggregate) Len() int {
	return len(a.commands)
}

// Execute returns an *AggregateError naming the failed step. Commands after
// it are not run.
func (a *Aggregate) Execute(ctx context.Context) error {
	for i, cmd := range a.commands {
		if err := ctx.Err(); err != nil {
			return &AggregateError{Step: i, Err: err}
		}
		if err := cmd.Execute(ctx); err != nil {
			return &AggregateError{Step: i, Err: err}
		}
	}
	return nil
}
