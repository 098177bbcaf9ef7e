package domain

import "path/filepath"

// DependencyManifest records the source files a target was built from.
//
// A manifest grows while a build discovers dependencies and is then handed
// to the scheduler, which replaces it wholesale after the next successful
// rebuild. It is not safe for concurrent mutation.
type DependencyManifest struct {
	TargetID   string
	SourceRoot string
	OutputRoot string

	deps  map[string]struct{}
	order []string
}

// NewDependencyManifest creates an empty manifest for the given target.
func NewDependencyManifest(targetID, sourceRoot, outputRoot string) *DependencyManifest {
	return &DependencyManifest{
		TargetID:   targetID,
		SourceRoot: sourceRoot,
		OutputRoot: outputRoot,
		deps:       make(map[string]struct{}),
	}
}

// AddFile appends paths that are not yet part of the manifest.
func (m *DependencyManifest) AddFile(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if _, ok := m.deps[p]; ok {
			continue
		}
		m.deps[p] = struct{}{}
		m.order = append(m.order, p)
	}
}

// Depends reports whether path is one of the target's dependencies.
func (m *DependencyManifest) Depends(path string) bool {
	if m == nil || len(m.deps) == 0 {
		return false
	}
	_, ok := m.deps[filepath.Clean(path)]
	return ok
}

// Files returns the dependencies in insertion order.
func (m *DependencyManifest) Files() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of dependencies.
func (m *DependencyManifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// AffectedTargets returns the ids of every manifest that depends on changed,
// in the order the manifests were given.
func AffectedTargets(changed string, manifests []*DependencyManifest) []string {
	var ids []string
	for _, m := range manifests {
		if m.Depends(changed) {
			ids = append(ids, m.TargetID)
		}
	}
	return ids
}
