package domain

import "maps"

// ModuleMetadata is bundler-owned data about one compiled module.
// The engine only copies and merges it.
type ModuleMetadata map[string]any

// Clone returns a shallow copy of m.
func (m ModuleMetadata) Clone() ModuleMetadata {
	if m == nil {
		return ModuleMetadata{}
	}
	return maps.Clone(m)
}

// Merge copies every field of update into m, overwriting matching keys
// and keeping fields that update does not mention.
func (m ModuleMetadata) Merge(update ModuleMetadata) {
	maps.Copy(m, update)
}

// ModuleRecord is a module visited by a build, keyed by the id the bundler used for it.
type ModuleRecord struct {
	ID       string
	Metadata ModuleMetadata
}

// CacheRecord is a cached module keyed by its real path.
type CacheRecord struct {
	RealPath string
	Metadata ModuleMetadata
}
