// Package invoker dispatches backup commands by name and keeps a history of
// the commands that ran successfully.
package invoker

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/worldbackup/commands"
	"github.com/tailored-agentic-units/worldbackup/observability"
)

// Invoker event types.
const (
	EventInvokeStart    observability.EventType = "invoker.invoke.start"
	EventInvokeComplete observability.EventType = "invoker.invoke.complete"
	EventInvokeError    observability.EventType = "invoker.invoke.error"
)

// Entry records one successful dispatch.
type Entry struct {
	ID        string
	Name      string
	Command   commands.Command
	StartedAt time.Time
	Duration  time.Duration
}

// Invoker maps action names such as "SAVE OBJECTS" to commands.
// History is owned by the instance and only grows.
type Invoker struct {
	entries  map[string]commands.Command
	history  []Entry
	observer observability.Observer
	mu       sync.RWMutex
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithObserver routes invoker events to obs.
func WithObserver(obs observability.Observer) Option {
	return func(inv *Invoker) {
		if obs != nil {
			inv.observer = obs
		}
	}
}

// New builds an Invoker holding a copy of cmds. Nil commands and empty
// names are dropped.
func New(cmds map[string]commands.Command, opts ...Option) *Invoker {
	inv := &Invoker{
		entries:  make(map[string]commands.Command, len(cmds)),
		observer: observability.NoOpObserver{},
	}
	for name, cmd := range cmds {
		if name != "" && cmd != nil {
			inv.entries[name] = cmd
		}
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Register adds or replaces the command bound to name.
func (inv *Invoker) Register(name string, cmd commands.Command) error {
	if name == "" {
		return ErrEmptyName
	}
	if cmd == nil {
		return fmt.Errorf("%w: %s", ErrNilCommand, name)
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	inv.entries[name] = cmd
	return nil
}

// Unregister removes the command bound to name.
// Returns ErrMissingKey if nothing is registered under it.
func (inv *Invoker) Unregister(name string) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if _, exists := inv.entries[name]; !exists {
		return fmt.Errorf("%w: %s", ErrMissingKey, name)
	}
	delete(inv.entries, name)
	return nil
}

// Has reports whether a command is registered under name.
func (inv *Invoker) Has(name string) bool {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	_, exists := inv.entries[name]
	return exists
}

// Names returns the registered names, sorted.
func (inv *Invoker) Names() []string {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	return slices.Sorted(maps.Keys(inv.entries))
}

// Invoke executes the command registered under name. The command runs
// outside the lock. On success an Entry is appended to the history; a
// failed or unknown command leaves the history unchanged.
func (inv *Invoker) Invoke(ctx context.Context, name string) error {
	inv.mu.RLock()
	cmd, exists := inv.entries[name]
	inv.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	started := time.Now()
	observability.Emit(ctx, inv.observer, EventInvokeStart, observability.LevelVerbose, "invoker.Invoke",
		map[string]any{"name": name})

	if err := cmd.Execute(ctx); err != nil {
		observability.Emit(ctx, inv.observer, EventInvokeError, observability.LevelError, "invoker.Invoke",
			map[string]any{"name": name, observability.AttrError: err.Error()})
		return fmt.Errorf("%s: %w", name, err)
	}

	entry := Entry{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      name,
		Command:   cmd,
		StartedAt: started,
		Duration:  time.Since(started),
	}

	inv.mu.Lock()
	inv.history = append(inv.history, entry)
	inv.mu.Unlock()

	observability.Emit(ctx, inv.observer, EventInvokeComplete, observability.LevelInfo, "invoker.Invoke",
		map[string]any{"name": name, "id": entry.ID, "elapsed": entry.Duration})
	return nil
}

// History returns a copy of the successful dispatches in call order.
func (inv *Invoker) History() []Entry {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	return slices.Clone(inv.history)
}
