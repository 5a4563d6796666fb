package backup_test

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/worldbackup/backup"
	"github.com/tailored-agentic-units/worldbackup/core/category"
	"github.com/tailored-agentic-units/worldbackup/core/record"
	"github.com/tailored-agentic-units/worldbackup/invoker"
	"github.com/tailored-agentic-units/worldbackup/world/memworld"
)

func seededWorld(t *testing.T) *memworld.World {
	t.Helper()
	ctx := context.Background()
	w := memworld.New()

	require.NoError(t, w.LoadObject(ctx, record.Record{"x": 100, "y": 0, "z": -200, "model": "tree1.rwx", "description": "Café"}))
	require.NoError(t, w.LoadObject(ctx, record.Record{"x": 5, "y": 1, "z": 5, "model": "sign1.rwx", "action": "create sign"}))
	require.NoError(t, w.LoadTerrainNode(ctx, record.Record{"x": 0, "z": 0, "texture": 3, "heights": []any{1, 2, 3, 4}}))
	require.NoError(t, w.WriteWorldAttribute(ctx, "welcome_message", "Welcome to Alpha"))
	require.NoError(t, w.WriteWorldAttribute(ctx, "fog_enabled", true))
	return w
}

func snapshot(t *testing.T, w *memworld.World, c category.Category) []record.Record {
	t.Helper()
	var out []record.Record
	for r, err := range w.Query(context.Background(), c) {
		require.NoError(t, err)
		out = append(out, r.StripTransient())
	}
	return out
}

func TestCommands_WithFile(t *testing.T) {
	table, err := backup.Commands(memworld.New(), backup.Args{File: "dump"})
	require.NoError(t, err)

	want := []string{
		"DELETE ALL", "DELETE ATTRIBUTES", "DELETE OBJECTS", "DELETE TERRAIN",
		"LOAD ALL", "LOAD ATTRIBUTES", "LOAD OBJECTS", "LOAD TERRAIN",
		"SAVE ALL", "SAVE ATTRIBUTES", "SAVE OBJECTS", "SAVE TERRAIN",
	}
	assert.ElementsMatch(t, want, slices.Collect(maps.Keys(table)))
}

func TestCommands_WithoutFile(t *testing.T) {
	table, err := backup.Commands(memworld.New(), backup.Args{})
	require.NoError(t, err)

	assert.Len(t, table, 10)
	assert.Contains(t, table, "DELETE ALL")
	assert.NotContains(t, table, "SAVE ALL")
	assert.NotContains(t, table, "LOAD ALL")
	assert.Contains(t, table, "SAVE OBJECTS")
}

func TestSuffixedFile(t *testing.T) {
	assert.Equal(t, "dump_attributes", backup.SuffixedFile("dump", category.World))
	assert.Equal(t, "dump_objects", backup.SuffixedFile("dump", category.Object))
	assert.Equal(t, "dump_terrain", backup.SuffixedFile("dump", category.Terrain))
}

func TestRun_SaveAllWritesSuffixedFiles(t *testing.T) {
	base := filepath.Join(t.TempDir(), "dump")
	rt, err := backup.New(seededWorld(t), backup.Args{File: base, Mode: record.Text})
	require.NoError(t, err)

	require.NoError(t, rt.Run(context.Background(), category.ActionSave, category.AllToken))

	lines := map[string]int{"attributes": 2, "objects": 2, "terrain": 1}
	for suffix, want := range lines {
		data, err := os.ReadFile(base + "_" + suffix)
		require.NoError(t, err, suffix)
		got := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		assert.Len(t, got, want, suffix)
	}

	objects, err := os.ReadFile(base + "_objects")
	require.NoError(t, err)
	assert.Contains(t, string(objects), `Caf\u00e9`)

	history := rt.Invoker().History()
	require.Len(t, history, 1)
	assert.Equal(t, "SAVE ALL", history[0].Name)
}

func TestRun_SaveDeleteLoadRestoresWorld(t *testing.T) {
	for _, mode := range []record.Mode{record.Text, record.Binary} {
		t.Run(mode.String(), func(t *testing.T) {
			ctx := context.Background()
			w := seededWorld(t)
			base := filepath.Join(t.TempDir(), "dump")

			before := map[category.Category][]record.Record{}
			for _, c := range category.All() {
				before[c] = snapshot(t, w, c)
			}

			rt, err := backup.New(w, backup.Args{File: base, Mode: mode})
			require.NoError(t, err)

			require.NoError(t, rt.Run(ctx, category.ActionSave, category.AllToken))
			require.NoError(t, rt.Run(ctx, category.ActionDelete, category.AllToken))
			for _, c := range category.All() {
				assert.Zero(t, w.Len(c), c.String())
			}
			require.NoError(t, rt.Run(ctx, category.ActionLoad, category.AllToken))

			for _, c := range category.All() {
				after := snapshot(t, w, c)
				require.Len(t, after, len(before[c]), c.String())
				for i := range after {
					assert.Equal(t, normalize(t, before[c][i]), normalize(t, after[i]), "%s record %d", c, i)
				}
			}
		})
	}
}

func TestRun_SingleCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objects.json")
	rt, err := backup.New(seededWorld(t), backup.Args{File: path})
	require.NoError(t, err)

	require.NoError(t, rt.Run(context.Background(), category.ActionSave, category.Object.Key()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestRun_UnknownCommand(t *testing.T) {
	rt, err := backup.New(memworld.New(), backup.Args{})
	require.NoError(t, err)

	err = rt.Run(context.Background(), category.ActionSave, category.AllToken)
	assert.ErrorIs(t, err, invoker.ErrUnknownCommand)
	assert.Empty(t, rt.Invoker().History())
}

func TestNewObserver(t *testing.T) {
	cfg := backup.DefaultConfig()
	cfg.Observer = "noop"

	obs, metrics, err := backup.NewObserver(&cfg)
	require.NoError(t, err)
	assert.NotNil(t, obs)
	assert.Nil(t, metrics)

	cfg.Observer = "missing"
	_, _, err = backup.NewObserver(&cfg)
	assert.Error(t, err)
}

func TestNewObserver_Metrics(t *testing.T) {
	cfg := backup.DefaultConfig()
	cfg.Observer = "noop"
	cfg.MetricsFile = filepath.Join(t.TempDir(), "worldbackup.prom")

	obs, metrics, err := backup.NewObserver(&cfg)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	base := filepath.Join(t.TempDir(), "dump")
	rt, err := backup.New(seededWorld(t), backup.Args{File: base}, backup.WithObserver(obs))
	require.NoError(t, err)
	require.NoError(t, rt.Run(context.Background(), category.ActionSave, category.AllToken))

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Records().WithLabelValues("SAVE", "OBJECTS", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Commands().WithLabelValues("SAVE", "TERRAIN", "ok")))

	require.NoError(t, metrics.WriteToTextfile(cfg.MetricsFile))
	data, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "worldbackup_records_total")
}

// normalize renders r in its persisted form so records built in Go and
// records decoded from a file compare equal.
func normalize(t *testing.T, r record.Record) string {
	t.Helper()
	b, err := record.Encode(r, record.Binary)
	require.NoError(t, err)
	return string(b)
}
