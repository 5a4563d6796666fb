package commands_test

import (
	"context"
	"errors"
	"iter"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/tailored-agentic-units/worldbackup/core/category"
	"github.com/tailored-agentic-units/worldbackup/core/record"
	"github.com/tailored-agentic-units/worldbackup/observability"
)

var errBoom = errors.New("boom")

type step struct {
	rec record.Record
	err error
}

type mutation struct {
	kind  string
	rec   record.Record
	name  string
	value any
}

// stubWorld serves fixed query steps per category and records every
// mutation it receives.
type stubWorld struct {
	steps     map[category.Category][]step
	rejectKey string
	bulkErr   error

	mu        sync.Mutex
	mutations []mutation
}

func (w *stubWorld) Query(ctx context.Context, c category.Category) iter.Seq2[record.Record, error] {
	return func(yield func(record.Record, error) bool) {
		for _, s := range w.steps[c] {
			if !yield(s.rec, s.err) {
				return
			}
		}
	}
}

func (w *stubWorld) record(m mutation) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if m.rec != nil && w.rejectKey != "" {
		if _, ok := m.rec[w.rejectKey]; ok {
			return errBoom
		}
	}
	w.mutations = append(w.mutations, m)
	return nil
}

func (w *stubWorld) bulk(kind string) error {
	if w.bulkErr != nil {
		return w.bulkErr
	}
	return w.record(mutation{kind: kind})
}

func (w *stubWorld) DeleteAllObjects(context.Context) error     { return w.bulk("delete-objects") }
func (w *stubWorld) DeleteAllTerrain(context.Context) error     { return w.bulk("delete-terrain") }
func (w *stubWorld) ResetWorldAttributes(context.Context) error { return w.bulk("reset-attributes") }

func (w *stubWorld) LoadObject(_ context.Context, r record.Record) error {
	return w.record(mutation{kind: "object", rec: r})
}

func (w *stubWorld) LoadTerrainNode(_ context.Context, r record.Record) error {
	return w.record(mutation{kind: "terrain", rec: r})
}

func (w *stubWorld) WriteWorldAttribute(_ context.Context, name string, value any) error {
	return w.record(mutation{kind: "attribute", name: name, value: value})
}

func (w *stubWorld) kinds() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.mutations))
	for i, m := range w.mutations {
		out[i] = m.kind
	}
	return out
}

type captureObserver struct {
	mu     sync.Mutex
	events []observability.Event
}

func (c *captureObserver) OnEvent(_ context.Context, e observability.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureObserver) find(typ observability.EventType) []observability.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []observability.Event
	for _, e := range c.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
