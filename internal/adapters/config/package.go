package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// packageTargets expands pattern below root and derives targets from every
// matching directory that holds a package.json.
func (l *Loader) packageTargets(root, pattern string) ([]domain.Target, error) {
	matches, err := doublestar.Glob(os.DirFS(root), filepath.ToSlash(pattern))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid packages pattern"), "pattern", pattern)
	}
	slices.Sort(matches)

	var targets []domain.Target
	for _, match := range matches {
		dir := filepath.Join(root, filepath.FromSlash(match))
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, domain.PackageFileName)); err != nil {
			l.Logger.Warn(fmt.Sprintf("%s missing in %s, skipping", domain.PackageFileName, match))
			continue
		}

		found, err := PackageTargets(dir)
		if err != nil {
			return nil, err
		}
		targets = append(targets, found...)
	}
	return targets, nil
}

// PackageTargets derives the script and style targets of the package in dir.
// "module" is the script source and "style" the stylesheet source; both are
// written next to "main", or into it when "main" is a directory.
func PackageTargets(dir string) ([]domain.Target, error) {
	pkgPath := filepath.Join(dir, domain.PackageFileName)
	// #nosec G304 -- path is derived from the configured packages
	data, err := os.ReadFile(pkgPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPackageReadFailed.Error()), "path", pkgPath)
	}

	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPackageReadFailed.Error()), "path", pkgPath)
	}

	hasScript := pkg.Module != "" && domain.KindForPath(pkg.Module) == domain.KindScript
	hasStyle := pkg.Style != "" && domain.KindForPath(pkg.Style) == domain.KindStyle
	if !hasScript && !hasStyle {
		return nil, zerr.With(domain.ErrMissingInput, "path", pkgPath)
	}
	if pkg.Main == "" {
		return nil, zerr.With(domain.ErrPackageNoMain, "path", pkgPath)
	}

	name := targetNameFor(pkg.Name, dir)
	if err := validateTargetName(name); err != nil {
		return nil, zerr.With(err, "path", pkgPath)
	}

	var targets []domain.Target
	if hasScript {
		input := filepath.Join(dir, pkg.Module)
		targets = append(targets, domain.Target{
			Name:   name,
			Kind:   domain.KindScript,
			Input:  input,
			Output: outputFor(dir, pkg.Main, input),
		})
	}
	if hasStyle {
		input := filepath.Join(dir, pkg.Style)
		output := outputFor(dir, pkg.Main, input)
		if domain.KindForPath(output) != domain.KindStyle {
			output = strings.TrimSuffix(output, filepath.Ext(output)) + ".css"
		}
		targets = append(targets, domain.Target{
			Name:   name + ".style",
			Kind:   domain.KindStyle,
			Input:  input,
			Output: output,
		})
	}
	return targets, nil
}

func outputFor(dir, main, input string) string {
	mainPath := filepath.Join(dir, main)
	if info, err := os.Stat(mainPath); err == nil && info.IsDir() {
		return filepath.Join(mainPath, filepath.Base(input))
	}
	return mainPath
}

// targetNameFor turns an npm package name into a target name: "@scope/pkg"
// becomes "scope-pkg". Packages without a name use their directory name.
func targetNameFor(pkgName, dir string) string {
	if pkgName == "" {
		return filepath.Base(dir)
	}
	name := strings.TrimPrefix(pkgName, "@")
	return strings.ReplaceAll(name, "/", "-")
}
