package shaftdb_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaftlab/shaftdb"
	"github.com/shaftlab/shaftdb/internal/config"
	"github.com/shaftlab/shaftdb/internal/types"
	"github.com/shaftlab/shaftdb/internal/vocab"
)

func testSpec() *shaftdb.ShaftSpec {
	return &shaftdb.ShaftSpec{
		Manufacturer: "Fujikura",
		Model:        "Ventus Blue",
		Generation:   "TR",
		ClubType:     types.ClubWoods,
		Flex:         types.FlexStiff,
		WeightGrams:  65,
	}
}

func TestOpenMemoryRoundTrip(t *testing.T) {
	cfg := config.Default(t.TempDir())
	ctx := context.Background()

	store, err := shaftdb.Open(ctx, cfg)
	require.NoError(t, err)

	_, err = store.Get(ctx, testSpec().Key())
	require.ErrorIs(t, err, shaftdb.ErrNotFound)

	require.NoError(t, store.Insert(ctx, testSpec()))
	require.ErrorIs(t, store.Insert(ctx, testSpec()), shaftdb.ErrDuplicateKey)

	n, err := shaftdb.SaveSnapshot(ctx, store, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, store.Close())

	// A fresh open replays the snapshot.
	store, err = shaftdb.Open(ctx, cfg)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Get(ctx, testSpec().Key())
	require.NoError(t, err)
	assert.Equal(t, 65.0, got.WeightGrams)
}

func TestOpenSQLite(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Backend = config.BackendSQLite
	ctx := context.Background()

	store, err := shaftdb.Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, testSpec()))

	// Write-through backend: SaveSnapshot must not produce a snapshot file.
	n, err := shaftdb.SaveSnapshot(ctx, store, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	_, err = os.Stat(cfg.SnapshotPath())
	assert.ErrorIs(t, err, os.ErrNotExist, "snapshot file exists for sqlite backend")
	require.NoError(t, store.Close())

	store, err = shaftdb.Open(ctx, cfg)
	require.NoError(t, err)
	defer store.Close()

	count, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Backend = "dolt"
	_, err := shaftdb.Open(context.Background(), cfg)
	require.Error(t, err)
}

func TestWriteDefaultVocab(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vocab")

	written, err := shaftdb.WriteDefaultVocab(dir)
	require.NoError(t, err)
	require.NotZero(t, written, "no packaged packs written")

	registry, err := vocab.LoadDir(dir)
	require.NoError(t, err, "packaged packs do not load")
	table, ok := registry.Table("project x")
	require.True(t, ok, "packaged packs are missing Project X")
	flex, ok := table.Flex("6.0")
	require.True(t, ok)
	assert.Equal(t, types.FlexStiff, flex)

	// Re-running must keep operator edits.
	custom := filepath.Join(dir, "fujikura.toml")
	require.NoError(t, os.WriteFile(custom, []byte("manufacturer = \"Fujikura\"\n"), 0600))

	again, err := shaftdb.WriteDefaultVocab(dir)
	require.NoError(t, err)
	assert.Zero(t, again, "second run rewrote existing packs")

	data, err := os.ReadFile(custom)
	require.NoError(t, err)
	assert.Equal(t, "manufacturer = \"Fujikura\"\n", string(data), "operator edit was overwritten")
}
