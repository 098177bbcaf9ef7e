package config

import (
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Kilnfile represents the structure of the kiln.yaml configuration file.
type Kilnfile struct {
	Version  string                `yaml:"version"`
	Root     string                `yaml:"root"`
	Env      string                `yaml:"env"`
	Watch    WatchDTO              `yaml:"watch"`
	Targets  map[string]*TargetDTO `yaml:"targets"`
	Packages []string              `yaml:"packages"`
}

// WatchDTO represents the watch section of kiln.yaml.
type WatchDTO struct {
	Debounce       string      `yaml:"debounce"`
	TargetDebounce string      `yaml:"targetDebounce"`
	Ignore         []IgnoreDTO `yaml:"ignore"`
}

// TargetDTO represents a target definition in the configuration.
type TargetDTO struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Kind   string `yaml:"kind"`
}

// IgnoreDTO is an ignore entry: a plain string is a glob, a mapping with a
// regex key is a regular expression.
type IgnoreDTO struct {
	Pattern string
	Regex   string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *IgnoreDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&d.Pattern)
	}

	var raw struct {
		Pattern string `yaml:"pattern"`
		Regex   string `yaml:"regex"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if (raw.Pattern == "") == (raw.Regex == "") {
		return zerr.With(domain.ErrInvalidIgnoreRule, "line", node.Line)
	}
	d.Pattern = raw.Pattern
	d.Regex = raw.Regex
	return nil
}

// PackageJSON holds the package.json fields used to derive targets.
type PackageJSON struct {
	Name   string `json:"name"`
	Main   string `json:"main"`
	Module string `json:"module"`
	Style  string `json:"style"`
}
