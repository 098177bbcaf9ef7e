package ports

import "go.trai.ch/kiln/internal/core/domain"

//go:generate mockgen -source=module_cache.go -destination=mocks/mock_module_cache.go -package=mocks

// ModuleCache holds module metadata across builds of one process.
type ModuleCache interface {
	// Put merges every module of a completed build into the cache.
	Put(result *domain.BuildResult)
	// Lookup returns the metadata cached for path, following at most one alias.
	Lookup(path string) (domain.ModuleMetadata, bool)
	// ToConfig exports the cached records as a reuse hint for bundlers.
	ToConfig() []domain.CacheRecord
	// Clear drops every record and alias.
	Clear()
	// Len returns the number of real records.
	Len() int
}
