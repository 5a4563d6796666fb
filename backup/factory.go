package backup

import (
	"fmt"

	"github.com/tailored-agentic-units/worldbackup/commands"
	"github.com/tailored-agentic-units/worldbackup/core/category"
	"github.com/tailored-agentic-units/worldbackup/core/record"
	"github.com/tailored-agentic-units/worldbackup/world"
)

// Args are the per-run parameters resolved from the command line.
type Args struct {
	File string      // Backup file, or the base name for ALL actions.
	Mode record.Mode // Text or binary line encoding.
}

// Commands builds the full action table for conn. It always holds the nine
// per-category entries and "DELETE ALL". "SAVE ALL" and "LOAD ALL" are
// added only when args.File is set; each writes or reads one
// "<file>_<suffix>" file per category.
func Commands(conn world.Connection, args Args, opts ...commands.Option) (map[string]commands.Command, error) {
	table := make(map[string]commands.Command, 12)
	var deletes, loads, saves []commands.Command

	for _, c := range category.All() {
		name := c.Key()

		d, err := commands.NewDelete(conn, name, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s: %w", category.ActionDelete.Key(c), err)
		}
		l, err := commands.NewLoad(conn, name, args.File, args.Mode, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s: %w", category.ActionLoad.Key(c), err)
		}
		s, err := commands.NewSave(conn, name, args.File, args.Mode, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s: %w", category.ActionSave.Key(c), err)
		}

		table[category.ActionDelete.Key(c)] = d
		table[category.ActionLoad.Key(c)] = l
		table[category.ActionSave.Key(c)] = s
		deletes = append(deletes, d)

		if args.File == "" {
			continue
		}

		file := SuffixedFile(args.File, c)
		la, err := commands.NewLoad(conn, name, file, args.Mode, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s: %w", category.ActionLoad.KeyFor(category.AllToken), err)
		}
		sa, err := commands.NewSave(conn, name, file, args.Mode, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s: %w", category.ActionSave.KeyFor(category.AllToken), err)
		}
		loads = append(loads, la)
		saves = append(saves, sa)
	}

	table[category.ActionDelete.KeyFor(category.AllToken)] = commands.NewAggregate(deletes...)
	if args.File != "" {
		table[category.ActionLoad.KeyFor(category.AllToken)] = commands.NewAggregate(loads...)
		table[category.ActionSave.KeyFor(category.AllToken)] = commands.NewAggregate(saves...)
	}
	return table, nil
}

// SuffixedFile returns the file an ALL action uses for category c.
func SuffixedFile(base string, c category.Category) string {
	return fmt.Sprintf("%s_%s", base, c.Suffix())
}
