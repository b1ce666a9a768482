package filterstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bloomgo"
)

func newTestFilter(t *testing.T, items ...string) *bloomgo.Filter {
	t.Helper()
	f, err := bloomgo.New(2048, 30)
	require.NoError(t, err)
	for _, item := range items {
		f.Insert([]byte(item))
	}
	return f
}

func TestManager_SaveLoad(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewMemoryStore())

	f := newTestFilter(t, "first", "second", "third")
	require.NoError(t, mgr.Save(ctx, "peers/alice", f))

	loaded, err := mgr.Load(ctx, "peers/alice")
	require.NoError(t, err)
	assert.True(t, loaded.Equal(f))
	assert.True(t, loaded.Contains([]byte("second")))
}

func TestManager_SaveLoadCompressed(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewMemoryStore(), WithCompressedFilters())

	f := newTestFilter(t, "only")
	require.NoError(t, mgr.Save(ctx, "f", f))

	loaded, err := mgr.Load(ctx, "f")
	require.NoError(t, err)
	assert.True(t, loaded.Equal(f))
}

func TestManager_LoadMissing(t *testing.T) {
	mgr := NewManager(NewMemoryStore())

	_, err := mgr.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_LoadCorrupt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	mgr := NewManager(store)

	require.NoError(t, store.Put(ctx, "junk", []byte("not a filter")))

	_, err := mgr.Load(ctx, "junk")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestManager_SaveAllLoadAll(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewMemoryStore(), WithConcurrency(4))

	filters := make(map[string]*bloomgo.Filter)
	var names []string
	for i := range 20 {
		name := fmt.Sprintf("shard/%02d", i)
		filters[name] = newTestFilter(t, name)
		names = append(names, name)
	}

	require.NoError(t, mgr.SaveAll(ctx, filters))

	listed, err := mgr.List(ctx, "shard/")
	require.NoError(t, err)
	assert.Len(t, listed, 20)

	loaded, err := mgr.LoadAll(ctx, names)
	require.NoError(t, err)
	require.Len(t, loaded, 20)
	for name, f := range filters {
		assert.True(t, loaded[name].Equal(f), "filter %q differs", name)
	}
}

func TestManager_LoadAllMissingFails(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewMemoryStore())

	require.NoError(t, mgr.Save(ctx, "exists", newTestFilter(t, "x")))

	_, err := mgr.LoadAll(ctx, []string{"exists", "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_Delete(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewMemoryStore())

	require.NoError(t, mgr.Save(ctx, "f", newTestFilter(t, "x")))
	require.NoError(t, mgr.Delete(ctx, "f"))

	_, err := mgr.Load(ctx, "f")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestManager_LogsFilterName(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := bloomgo.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mgr := NewManager(NewMemoryStore(), WithLogger(logger))

	require.NoError(t, mgr.Save(ctx, "peers/bob", newTestFilter(t, "x")))
	_, err := mgr.Load(ctx, "peers/bob")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"name":"peers/bob"`)
	assert.Contains(t, out, "filter saved")
	assert.Contains(t, out, "filter loaded")
}

func TestManager_RoundTripAcrossStores(t *testing.T) {
	// The encoded bytes are store-independent: save through one store,
	// copy the raw bytes into another, load from there.
	ctx := context.Background()
	mem := NewMemoryStore()
	local := NewLocalStore(t.TempDir())

	f := newTestFilter(t, "portable")
	require.NoError(t, NewManager(mem).Save(ctx, "f", f))

	raw, err := mem.Get(ctx, "f")
	require.NoError(t, err)
	require.NoError(t, local.Put(ctx, "f", raw))

	loaded, err := NewManager(local).Load(ctx, "f")
	require.NoError(t, err)
	assert.True(t, loaded.Equal(f))
}
