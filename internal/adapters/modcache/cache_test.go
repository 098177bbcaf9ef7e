package modcache_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/modcache"
	"go.trai.ch/kiln/internal/core/domain"
)

type resolverFunc func(string) (string, error)

func (f resolverFunc) RealPath(path string) (string, error) { return f(path) }

// links resolves the paths in the map and treats everything else as real.
func links(m map[string]string) resolverFunc {
	return func(path string) (string, error) {
		if target, ok := m[path]; ok {
			return target, nil
		}
		return path, nil
	}
}

func result(modules ...domain.ModuleRecord) *domain.BuildResult {
	return &domain.BuildResult{Target: "app", Modules: modules}
}

func module(id string, meta domain.ModuleMetadata) domain.ModuleRecord {
	return domain.ModuleRecord{ID: id, Metadata: meta}
}

func TestCache_SymlinkAliasSharesRecord(t *testing.T) {
	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	src := filepath.Join(tmp, "src")
	require.NoError(t, os.MkdirAll(src, 0o750))
	realFile := filepath.Join(src, "a.js")
	require.NoError(t, os.WriteFile(realFile, []byte("export {}"), 0o600))
	linked := filepath.Join(tmp, "linked")
	require.NoError(t, os.Symlink(src, linked))
	aliasFile := filepath.Join(linked, "a.js")

	cache := modcache.New(fs.NewResolver(), nil)

	cache.Put(result(module(realFile, domain.ModuleMetadata{"hash": uint64(1), "size": 9})))
	cache.Put(result(module(aliasFile, domain.ModuleMetadata{"hash": uint64(2)})))

	records := cache.ToConfig()
	require.Len(t, records, 1)
	assert.Equal(t, realFile, records[0].RealPath)
	assert.Equal(t, domain.ModuleMetadata{"hash": uint64(2), "size": 9}, records[0].Metadata)

	for _, path := range []string{realFile, aliasFile} {
		meta, ok := cache.Lookup(path)
		require.True(t, ok, path)
		assert.Equal(t, uint64(2), meta["hash"], path)
	}
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 1, cache.Aliases())
}

func TestCache_ShallowMerge(t *testing.T) {
	cache := modcache.New(links(nil), nil)

	cache.Put(result(module("/p/a.js", domain.ModuleMetadata{"hash": "x", "imports": []string{"/p/b.js"}})))
	cache.Put(result(module("/p/a.js", domain.ModuleMetadata{"hash": "y", "mtime": int64(5)})))

	meta, ok := cache.Lookup("/p/a.js")
	require.True(t, ok)
	assert.Equal(t, domain.ModuleMetadata{
		"hash":    "y",
		"imports": []string{"/p/b.js"},
		"mtime":   int64(5),
	}, meta)
}

func TestCache_UnresolvablePathIsItsOwnRecord(t *testing.T) {
	cache := modcache.New(resolverFunc(func(string) (string, error) {
		return "", errors.New("no such file")
	}), nil)

	cache.Put(result(module("/p/gone.js", domain.ModuleMetadata{"hash": "x"})))

	meta, ok := cache.Lookup("/p/gone.js")
	require.True(t, ok)
	assert.Equal(t, "x", meta["hash"])
	assert.Equal(t, 0, cache.Aliases())
}

func TestCache_RecordBecomesAlias(t *testing.T) {
	resolved := map[string]string{}
	cache := modcache.New(links(resolved), nil)

	cache.Put(result(module("/p/a.js", domain.ModuleMetadata{"size": 3})))
	require.Equal(t, 1, cache.Len())

	// /p/a.js is replaced by a symlink to /q/a.js.
	resolved["/p/a.js"] = "/q/a.js"
	cache.Put(result(module("/p/a.js", domain.ModuleMetadata{"hash": "z"})))

	records := cache.ToConfig()
	require.Len(t, records, 1)
	assert.Equal(t, "/q/a.js", records[0].RealPath)
	assert.Equal(t, domain.ModuleMetadata{"hash": "z", "size": 3}, records[0].Metadata)

	meta, ok := cache.Lookup("/p/a.js")
	require.True(t, ok)
	assert.Equal(t, "z", meta["hash"])
}

func TestCache_AliasFollowsFoldedRecord(t *testing.T) {
	resolved := map[string]string{"/l/a.js": "/p/a.js"}
	cache := modcache.New(links(resolved), nil)

	cache.Put(result(module("/l/a.js", domain.ModuleMetadata{"size": 3})))
	require.Equal(t, 1, cache.Aliases())

	// /p/a.js itself becomes a symlink to /q/a.js.
	resolved["/l/a.js"] = "/q/a.js"
	resolved["/p/a.js"] = "/q/a.js"
	cache.Put(result(module("/p/a.js", domain.ModuleMetadata{"hash": "z"})))

	require.Equal(t, 1, cache.Len())
	assert.Equal(t, 2, cache.Aliases())
	for _, path := range []string{"/l/a.js", "/p/a.js", "/q/a.js"} {
		meta, ok := cache.Lookup(path)
		require.True(t, ok, path)
		assert.Equal(t, domain.ModuleMetadata{"hash": "z", "size": 3}, meta, path)
	}
}

func TestCache_LookupReturnsCopy(t *testing.T) {
	cache := modcache.New(links(nil), nil)
	cache.Put(result(module("/p/a.js", domain.ModuleMetadata{"hash": "x"})))

	meta, _ := cache.Lookup("/p/a.js")
	meta["hash"] = "mutated"

	again, _ := cache.Lookup("/p/a.js")
	assert.Equal(t, "x", again["hash"])

	cfg := cache.ToConfig()
	cfg[0].Metadata["hash"] = "mutated"
	again, _ = cache.Lookup("/p/a.js")
	assert.Equal(t, "x", again["hash"])
}

func TestCache_Clear(t *testing.T) {
	cache := modcache.New(links(map[string]string{"/l/a.js": "/p/a.js"}), nil)
	cache.Put(result(
		module("/p/a.js", domain.ModuleMetadata{"hash": "x"}),
		module("/l/a.js", domain.ModuleMetadata{"size": 1}),
	))
	require.Equal(t, 1, cache.Len())
	require.Equal(t, 1, cache.Aliases())

	cache.Clear()

	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0, cache.Aliases())
	assert.Empty(t, cache.ToConfig())
	_, ok := cache.Lookup("/l/a.js")
	assert.False(t, ok)
}

func TestCache_NilAndEmptyResults(t *testing.T) {
	cache := modcache.New(links(nil), nil)

	cache.Put(nil)
	cache.Put(result(module("", domain.ModuleMetadata{"hash": "x"})))

	assert.Equal(t, 0, cache.Len())
	_, ok := cache.Lookup("/missing.js")
	assert.False(t, ok)
}

// Concurrent writers through the real path and an alias must converge on a
// single record carrying every key; for a shared key one writer wins whole.
func TestCache_ConcurrentPutsKeepOneRecord(t *testing.T) {
	cache := modcache.New(links(map[string]string{"/l/a.js": "/p/a.js"}), nil)

	var wg sync.WaitGroup
	for i := range 20 {
		id := "/p/a.js"
		if i%2 == 1 {
			id = "/l/a.js"
		}
		wg.Go(func() {
			cache.Put(result(module(id, domain.ModuleMetadata{
				"hash":                 i,
				fmt.Sprintf("k%d", i): true,
			})))
			_ = cache.ToConfig()
		})
	}
	wg.Wait()

	records := cache.ToConfig()
	require.Len(t, records, 1)
	meta := records[0].Metadata
	assert.Len(t, meta, 21)
	assert.Contains(t, meta, "hash")
	for i := range 20 {
		assert.Equal(t, true, meta[fmt.Sprintf("k%d", i)])
	}
}

type countingRecorder struct {
	last int
}

func (*countingRecorder) ObserveRebuild(string, time.Duration, error) {}
func (*countingRecorder) IncSuperseded(string)                        {}
func (r *countingRecorder) SetCacheRecords(n int)                     { r.last = n }
func (*countingRecorder) ObservePhase(string, time.Duration)          {}

func TestCache_ReportsRecordCount(t *testing.T) {
	rec := &countingRecorder{}
	cache := modcache.New(links(nil), rec)

	cache.Put(result(
		module("/p/a.js", nil),
		module("/p/b.js", nil),
	))
	assert.Equal(t, 2, rec.last)

	cache.Clear()
	assert.Equal(t, 0, rec.last)
}
