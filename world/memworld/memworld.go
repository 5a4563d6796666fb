// Package memworld provides an in-process world that implements
// world.Connection. It backs dry runs and restore verification, and can
// persist its state to a snapshot file between runs.
package memworld

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/worldbackup/core/category"
	"github.com/tailored-agentic-units/worldbackup/core/record"
	"github.com/tailored-agentic-units/worldbackup/world"
)

func init() {
	if err := world.Register(world.DefaultDriver, Open); err != nil {
		panic(fmt.Sprintf("failed to register memworld driver: %v", err))
	}
}

// ErrInvalidRecord is returned when a mutation receives a record the world
// cannot place.
var ErrInvalidRecord = errors.New("invalid record")

type snapshot struct {
	Objects    []record.Record `json:"objects"`
	Terrain    []record.Record `json:"terrain"`
	Attributes map[string]any  `json:"attributes"`
	NextNumber int64           `json:"next_number"`
}

// World is an in-memory world. Objects and terrain nodes keep insertion
// order and receive a server-style number when loaded.
type World struct {
	id         string
	statePath  string
	objects    []record.Record
	terrain    []record.Record
	attributes map[string]any
	nextNumber int64
	mu         sync.RWMutex
}

// New creates an empty World with a unique UUIDv7 identifier.
func New() *World {
	return &World{
		id:         uuid.Must(uuid.NewV7()).String(),
		attributes: make(map[string]any),
		nextNumber: 1,
	}
}

// Open is the world.Driver for the memory driver. When cfg.StatePath is set
// the world is seeded from that file (a missing file is an empty world) and
// written back on Close.
func Open(_ context.Context, cfg *world.Config) (world.Connection, error) {
	w := New()
	w.statePath = cfg.StatePath

	if w.statePath == "" {
		return w, nil
	}

	data, err := os.ReadFile(w.statePath)
	if errors.Is(err, os.ErrNotExist) {
		return w, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read world state: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse world state: %w", err)
	}
	w.restore(snap)
	return w, nil
}

// ID returns the world's session identifier.
func (w *World) ID() string {
	return w.id
}

func (w *World) Query(ctx context.Context, c category.Category) iter.Seq2[record.Record, error] {
	return func(yield func(record.Record, error) bool) {
		for _, r := range w.list(c) {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

// Len returns the number of entities currently held for a category.
func (w *World) Len(c category.Category) int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	switch c {
	case category.Object:
		return len(w.objects)
	case category.Terrain:
		return len(w.terrain)
	case category.World:
		return len(w.attributes)
	default:
		return 0
	}
}

func (w *World) DeleteAllObjects(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.objects = nil
	return nil
}

func (w *World) DeleteAllTerrain(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.terrain = nil
	return nil
}

func (w *World) ResetWorldAttributes(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.attributes = make(map[string]any)
	return nil
}

func (w *World) LoadObject(_ context.Context, r record.Record) error {
	if err := requireFields(r, "x", "z"); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.objects = append(w.objects, w.place(r, "number"))
	return nil
}

func (w *World) LoadTerrainNode(_ context.Context, r record.Record) error {
	if err := requireFields(r, "x", "z"); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.terrain = append(w.terrain, w.place(r, "id"))
	return nil
}

func (w *World) WriteWorldAttribute(_ context.Context, name string, value any) error {
	if name == "" {
		return fmt.Errorf("%w: attribute name is empty", ErrInvalidRecord)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.attributes[name] = value
	return nil
}

// Close writes the world to its state file when one is configured.
func (w *World) Close() error {
	if w.statePath == "" {
		return nil
	}

	w.mu.RLock()
	snap := snapshot{
		Objects:    w.objects,
		Terrain:    w.terrain,
		Attributes: w.attributes,
		NextNumber: w.nextNumber,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	w.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal world state: %w", err)
	}

	return writeAtomic(w.statePath, data)
}

func (w *World) list(c category.Category) []record.Record {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var src []record.Record
	switch c {
	case category.Object:
		src = w.objects
	case category.Terrain:
		src = w.terrain
	case category.World:
		names := slices.Sorted(maps.Keys(w.attributes))
		out := make([]record.Record, 0, len(names))
		for _, name := range names {
			out = append(out, record.Record{"name": name, "value": w.attributes[name]})
		}
		return out
	}

	out := make([]record.Record, len(src))
	for i, r := range src {
		out[i] = r.Clone()
	}
	return out
}

// place copies r and stamps it with the next server number under key.
// Callers hold the write lock.
func (w *World) place(r record.Record, key string) record.Record {
	placed := r.Clone()
	placed[key] = w.nextNumber
	w.nextNumber++
	return placed
}

func (w *World) restore(snap snapshot) {
	w.objects = snap.Objects
	w.terrain = snap.Terrain
	if snap.Attributes != nil {
		w.attributes = snap.Attributes
	}
	if snap.NextNumber > 0 {
		w.nextNumber = snap.NextNumber
	}
}

func requireFields(r record.Record, keys ...string) error {
	for _, k := range keys {
		if _, ok := r[k]; !ok {
			return fmt.Errorf("%w: missing field %q", ErrInvalidRecord, k)
		}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write world state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write world state: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write world state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write world state: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write world state: %w", err)
	}
	return nil
}
