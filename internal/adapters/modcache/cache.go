// Package modcache keeps compiled-module metadata for the lifetime of the
// process, keyed by real path with symlinked paths stored as aliases.
package modcache

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.ModuleCache = (*Cache)(nil)

// Cache is a two-level map: alias path to real path, and real path to
// record. A lookup follows at most one alias hop and a physical file is
// never stored under two records.
type Cache struct {
	resolver ports.PathResolver
	recorder ports.Recorder

	mu      sync.RWMutex
	aliases map[string]string
	records map[string]domain.ModuleMetadata
}

// New creates an empty Cache. recorder may be nil.
func New(resolver ports.PathResolver, recorder ports.Recorder) *Cache {
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	return &Cache{
		resolver: resolver,
		recorder: recorder,
		aliases:  make(map[string]string),
		records:  make(map[string]domain.ModuleMetadata),
	}
}

// Put merges every module of a completed build into the cache. Fields in
// the new metadata overwrite matching keys; other cached fields are kept.
func (c *Cache) Put(result *domain.BuildResult) {
	if result == nil {
		return
	}

	// Resolve outside the lock; this touches the file system.
	type entry struct {
		id, canonical string
		meta          domain.ModuleMetadata
	}
	entries := make([]entry, 0, len(result.Modules))
	for _, m := range result.Modules {
		if m.ID == "" {
			continue
		}
		id := filepath.Clean(m.ID)
		entries = append(entries, entry{id: id, canonical: c.realPath(id), meta: m.Metadata})
	}

	c.mu.Lock()
	for _, e := range entries {
		c.putLocked(e.id, e.canonical, e.meta)
	}
	n := len(c.records)
	c.mu.Unlock()

	c.recorder.SetCacheRecords(n)
}

func (c *Cache) putLocked(id, canonical string, meta domain.ModuleMetadata) {
	record, ok := c.records[canonical]
	if !ok {
		record = domain.ModuleMetadata{}
		c.records[canonical] = record
	}

	if id != canonical {
		// id used to be a real record of its own; fold it in.
		if stale, ok := c.records[id]; ok {
			for k, v := range stale {
				if _, exists := record[k]; !exists {
					record[k] = v
				}
			}
			delete(c.records, id)
		}
		// Aliases of id keep pointing at a live record.
		for alias, target := range c.aliases {
			if target == id {
				c.aliases[alias] = canonical
			}
		}
		c.aliases[id] = canonical
	}
	// A real path is never an alias.
	delete(c.aliases, canonical)

	record.Merge(meta)
}

// Lookup returns a copy of the metadata cached for path, following at most
// one alias.
func (c *Cache) Lookup(path string) (domain.ModuleMetadata, bool) {
	path = filepath.Clean(path)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if canonical, ok := c.aliases[path]; ok {
		path = canonical
	}
	record, ok := c.records[path]
	if !ok {
		return nil, false
	}
	return record.Clone(), true
}

// ToConfig exports one record per real path, sorted by path. Metadata maps
// are copies.
func (c *Cache) ToConfig() []domain.CacheRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.CacheRecord, 0, len(c.records))
	for canonical, meta := range c.records {
		out = append(out, domain.CacheRecord{RealPath: canonical, Metadata: meta.Clone()})
	}
	slices.SortFunc(out, func(a, b domain.CacheRecord) int {
		return strings.Compare(a.RealPath, b.RealPath)
	})
	return out
}

// Clear drops every record and alias.
func (c *Cache) Clear() {
	c.mu.Lock()
	clear(c.aliases)
	clear(c.records)
	c.mu.Unlock()

	c.recorder.SetCacheRecords(0)
}

// Len returns the number of real records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Aliases returns the number of alias entries.
func (c *Cache) Aliases() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.aliases)
}

func (c *Cache) realPath(id string) string {
	if c.resolver == nil {
		return id
	}
	canonical, err := c.resolver.RealPath(id)
	if err != nil {
		return id
	}
	return filepath.Clean(canonical)
}
