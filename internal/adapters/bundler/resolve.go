package bundler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
)

var (
	scriptExtensions = []string{"", ".js", ".mjs", ".cjs", ".jsx"}
	styleExtensions  = []string{"", ".css", ".scss", ".sass"}
)

// resolveImport maps specifier, imported from the module in dir, to a file. It
// returns "" when nothing matches.
func resolveImport(kind domain.TargetKind, dir, specifier string) string {
	if isRelative(specifier) {
		base := specifier
		if !filepath.IsAbs(base) {
			base = filepath.Join(dir, filepath.FromSlash(specifier))
		}
		return resolveFile(kind, base)
	}

	// Style imports without a prefix are relative to the importing sheet first.
	if kind == domain.KindStyle {
		if found := resolveFile(kind, filepath.Join(dir, filepath.FromSlash(specifier))); found != "" {
			return found
		}
	}

	// Bare specifiers are looked up in node_modules of every parent.
	for current := dir; ; {
		candidate := filepath.Join(current, "node_modules", filepath.FromSlash(specifier))
		if found := resolveFile(kind, candidate); found != "" {
			return found
		}
		if found := resolvePackage(kind, candidate); found != "" {
			return found
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}

func isRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") ||
		specifier == "." || specifier == ".." || filepath.IsAbs(specifier)
}

// resolveFile tries base with every known extension, then as a directory
// with an index file. Style imports also try Sass partials.
func resolveFile(kind domain.TargetKind, base string) string {
	exts := scriptExtensions
	index := []string{"index.js", "index.mjs"}
	if kind == domain.KindStyle {
		exts = styleExtensions
		index = []string{"index.css", "_index.scss", "index.scss"}
	}

	for _, ext := range exts {
		if isFile(base + ext) {
			return base + ext
		}
	}
	if kind == domain.KindStyle {
		partial := filepath.Join(filepath.Dir(base), "_"+filepath.Base(base))
		for _, ext := range exts[1:] {
			if isFile(partial + ext) {
				return partial + ext
			}
		}
	}
	for _, name := range index {
		if p := filepath.Join(base, name); isFile(p) {
			return p
		}
	}
	return ""
}

// resolvePackage reads dir/package.json and follows its entry field.
func resolvePackage(kind domain.TargetKind, dir string) string {
	// #nosec G304 -- dir is a node_modules lookup below the project
	data, err := os.ReadFile(filepath.Join(dir, domain.PackageFileName))
	if err != nil {
		return ""
	}
	var pkg struct {
		Main   string `json:"main"`
		Module string `json:"module"`
		Style  string `json:"style"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}

	fields := []string{pkg.Module, pkg.Main}
	if kind == domain.KindStyle {
		fields = []string{pkg.Style, pkg.Main}
	}
	for _, field := range fields {
		if field == "" {
			continue
		}
		if found := resolveFile(kind, filepath.Join(dir, field)); found != "" {
			return found
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
