package domain

import (
	"path/filepath"
	"strings"
)

// TargetKind selects how a target's modules are scanned and joined.
type TargetKind string

const (
	// KindScript bundles JavaScript-like sources.
	KindScript TargetKind = "script"
	// KindStyle bundles stylesheets.
	KindStyle TargetKind = "style"
)

var styleExtensions = map[string]bool{
	".css":  true,
	".scss": true,
	".sass": true,
}

// KindForPath infers the target kind from the input file extension.
func KindForPath(path string) TargetKind {
	if styleExtensions[strings.ToLower(filepath.Ext(path))] {
		return KindStyle
	}
	return KindScript
}

// Target is one declared build output.
type Target struct {
	// Name identifies the target in logs, metrics and the scheduler.
	Name string
	// Kind selects the bundling strategy.
	Kind TargetKind
	// Input is the absolute path of the entry module.
	Input string
	// Output is the absolute path of the written bundle.
	Output string
	// Production strips development annotations from the bundle.
	Production bool
}

// SourceRoot is the directory holding the target's entry module.
func (t Target) SourceRoot() string {
	return filepath.Dir(t.Input)
}

// OutputRoot is the directory the bundle is written into.
func (t Target) OutputRoot() string {
	return filepath.Dir(t.Output)
}

// BuildResult is what a bundler reports after a successful build.
type BuildResult struct {
	Target  string
	Modules []ModuleRecord
	// Output is the bundle content that Write will persist.
	Output []byte
}
