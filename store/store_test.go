package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/itglue-audit/store"
)

type entry struct {
	Name      string `json:"name"`
	Processed bool   `json:"processed"`
}

func TestJSONFile_MissingFileReadsEmpty(t *testing.T) {
	f := store.NewJSONFile[entry](filepath.Join(t.TempDir(), "nope.json"))

	entries, err := f.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJSONFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "org_cache.json")
	f := store.NewJSONFile[entry](path)

	want := map[string]entry{
		"1001": {Name: "Acme", Processed: true},
		"1002": {Name: "Globex"},
	}
	require.NoError(t, f.Write(context.Background(), want))

	got, err := f.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"processed": true`)

	// no temp files left behind
	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestJSONFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folder_cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := store.NewJSONFile[entry](path).Read(context.Background())
	require.Error(t, err)
}

func TestCache_MergeKeepsExistingEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "org_cache.json")
	backend := store.NewJSONFile[entry](path)
	require.NoError(t, backend.Write(ctx, map[string]entry{
		"1": {Name: "Acme", Processed: true},
	}))

	cache := store.NewCache[entry](backend)
	require.NoError(t, cache.Load(ctx))

	discovered := map[string]entry{
		"1": {Name: "Acme Renamed"},
		"2": {Name: "Globex"},
	}
	require.NoError(t, cache.Merge(discovered))
	// merging the same listing again changes nothing
	require.NoError(t, cache.Merge(discovered))

	assert.Equal(t, map[string]entry{
		"1": {Name: "Acme", Processed: true},
		"2": {Name: "Globex"},
	}, cache.Entries())
	assert.Equal(t, 2, cache.Len())

	require.NoError(t, cache.Flush(ctx))
	reloaded := store.NewCache[entry](backend)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, cache.Entries(), reloaded.Entries())
}

func TestCache_EntriesIsACopy(t *testing.T) {
	cache := store.NewCache[entry](store.NewJSONFile[entry](filepath.Join(t.TempDir(), "c.json")))
	cache.Put("1", entry{Name: "Acme"})

	entries := cache.Entries()
	entries["2"] = entry{Name: "Sneaky"}

	_, ok := cache.Get("2")
	assert.False(t, ok)
}

func TestCache_KeysSortNumerically(t *testing.T) {
	cache := store.NewCache[entry](store.NewJSONFile[entry](filepath.Join(t.TempDir(), "c.json")))
	for _, k := range []string{"100", "9", "20", "1001"} {
		cache.Put(k, entry{})
	}

	assert.Equal(t, []string{"9", "20", "100", "1001"}, cache.Keys())
}

func TestSQLite_BucketsAreIndependentAndRewrittenWhole(t *testing.T) {
	ctx := context.Background()
	db, err := store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "db", "audit.db"), zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	orgs := store.NewSQLite[entry](db, "organizations")
	other := store.NewSQLite[entry](db, "folders")

	require.NoError(t, orgs.Write(ctx, map[string]entry{
		"1": {Name: "Acme", Processed: true},
		"2": {Name: "Globex"},
	}))
	require.NoError(t, other.Write(ctx, map[string]entry{
		"F1": {Name: "Invoices"},
	}))

	// second write drops "2"
	require.NoError(t, orgs.Write(ctx, map[string]entry{
		"1": {Name: "Acme", Processed: true},
		"3": {Name: "Initech"},
	}))

	got, err := orgs.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]entry{
		"1": {Name: "Acme", Processed: true},
		"3": {Name: "Initech"},
	}, got)

	gotOther, err := other.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]entry{"F1": {Name: "Invoices"}}, gotOther)
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "audit.db")

	db, err := store.OpenSQLite(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	cache := store.NewCache[entry](store.NewSQLite[entry](db, "organizations"))
	cache.Put("7", entry{Name: "Umbrella"})
	require.NoError(t, cache.Flush(ctx))
	require.NoError(t, db.Close())

	db, err = store.OpenSQLite(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	reloaded := store.NewCache[entry](store.NewSQLite[entry](db, "organizations"))
	require.NoError(t, reloaded.Load(ctx))
	v, ok := reloaded.Get("7")
	require.True(t, ok)
	assert.Equal(t, "Umbrella", v.Name)
}

func TestCache_ClearAndDeleteReachBackendOnFlush(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "record_cache.json")
	cache := store.NewCache[[]entry](store.NewJSONFile[[]entry](path))

	cache.Put("1", []entry{{Name: "VPN"}})
	cache.Put("2", []entry{{Name: "Router"}, {Name: "Switch"}})
	require.NoError(t, cache.Flush(ctx))

	cache.Delete("1")
	require.NoError(t, cache.Flush(ctx))
	require.NoError(t, cache.Load(ctx))
	assert.Equal(t, []string{"2"}, cache.Keys())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
	require.NoError(t, cache.Flush(ctx))
	require.NoError(t, cache.Load(ctx))
	assert.Equal(t, 0, cache.Len())
}
