package domain

import (
	"slices"
	"time"
)

// WatchSettings configures a watch session.
type WatchSettings struct {
	PathDebounce   time.Duration
	TargetDebounce time.Duration
	Ignore         []IgnoreRule
}

// Project is the loaded kiln.yaml.
type Project struct {
	// Root is the absolute directory watched in watch mode.
	Root string
	// ConfigPath is the absolute path of the kiln.yaml that was loaded.
	ConfigPath string
	Targets    []Target
	Watch      WatchSettings
}

// Target returns the target with the given name.
func (p *Project) Target(name string) (Target, bool) {
	i := slices.IndexFunc(p.Targets, func(t Target) bool { return t.Name == name })
	if i < 0 {
		return Target{}, false
	}
	return p.Targets[i], true
}

// TargetNames returns the declared target names in order.
func (p *Project) TargetNames() []string {
	names := make([]string, len(p.Targets))
	for i, t := range p.Targets {
		names[i] = t.Name
	}
	return names
}
