// Package bundler joins a target's module graph into a single bundle.
package bundler

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Metadata keys the bundler stores per module. MetaStatements holds the
// resolved file of every import statement in source order, "" where nothing
// was inlined.
const (
	MetaHash       = "hash"
	MetaSize       = "size"
	MetaImports    = "imports"
	MetaModTime    = "mtime"
	MetaStatements = "statements"
)

var _ ports.Bundler = (*Bundler)(nil)

// Bundler concatenates a target's modules in dependency order.
type Bundler struct {
	target   domain.Target
	hasher   ports.Hasher
	resolver ports.PathResolver
	tracer   ports.Tracer
	hints    map[string]domain.ModuleMetadata

	linter *Linter
	result *domain.BuildResult
	files  []string
}

// module is one visited source file. statements keeps resolved as loaded,
// before cycle edges are dropped.
type module struct {
	path       string
	realPath   string
	source     []byte
	refs       []importRef
	resolved   []string
	statements []string
	hash       uint64
	modTime    int64
}

// New creates a Bundler for target. The hints are cache records from
// earlier builds; a module whose hash still matches reuses its imports.
func New(
	target domain.Target,
	hasher ports.Hasher,
	resolver ports.PathResolver,
	tracer ports.Tracer,
	hints []domain.CacheRecord,
) *Bundler {
	byPath := make(map[string]domain.ModuleMetadata, len(hints))
	for _, h := range hints {
		byPath[h.RealPath] = h.Metadata
	}
	return &Bundler{
		target:   target,
		hasher:   hasher,
		resolver: resolver,
		tracer:   tracer,
		hints:    byPath,
	}
}

// Build walks the module graph from the target's input and joins it.
func (b *Bundler) Build(ctx context.Context) (*domain.BuildResult, error) {
	ctx, span := b.tracer.Start(ctx, "bundle")
	defer span.End()
	span.SetAttribute("target", b.target.Name)

	b.linter = NewLinter()
	b.result = nil
	b.files = nil

	order, reused, err := b.collect(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("modules", len(order))
	span.SetAttribute("reused", reused)

	result := &domain.BuildResult{
		Target:  b.target.Name,
		Modules: make([]domain.ModuleRecord, 0, len(order)),
		Output:  b.join(order),
	}
	for _, m := range order {
		result.Modules = append(result.Modules, domain.ModuleRecord{
			ID: m.path,
			Metadata: domain.ModuleMetadata{
				MetaHash:       m.hash,
				MetaSize:       len(m.source),
				MetaImports:    compact(m.resolved),
				MetaModTime:    m.modTime,
				MetaStatements: m.statements,
			},
		})
		b.files = append(b.files, m.path)
		if m.realPath != m.path {
			b.files = append(b.files, m.realPath)
		}
	}

	b.result = result
	return result, nil
}

// collect visits every module reachable from the input and returns them
// dependencies first, with the number of modules whose imports were reused.
func (b *Bundler) collect(ctx context.Context) ([]*module, int, error) {
	_, span := b.tracer.Start(ctx, "resolve")
	defer span.End()

	var (
		order   []*module
		reused  int
		visited = make(map[string]bool)
		active  = make(map[string]bool)
	)

	var visit func(path string) error
	visit = func(path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		visited[path] = true
		active[path] = true
		defer delete(active, path)

		m, hit, err := b.load(path)
		if err != nil {
			return err
		}
		if hit {
			reused++
		}

		for i, dep := range m.resolved {
			switch {
			case dep == "":
				continue
			case active[dep]:
				b.linter.Warnf("%s: import cycle through %q", b.rel(path), m.refs[i].specifier)
				m.resolved[i] = ""
			case !visited[dep]:
				if err := visit(dep); err != nil {
					return err
				}
			default:
				// Already emitted earlier in the bundle.
			}
		}
		order = append(order, m)
		return nil
	}

	input, err := filepath.Abs(b.target.Input)
	if err != nil {
		return nil, 0, zerr.With(zerr.Wrap(err, domain.ErrModuleReadFailed.Error()), "path", b.target.Input)
	}
	if err := visit(input); err != nil {
		span.RecordError(err)
		return nil, 0, err
	}
	return order, reused, nil
}

// load reads path and resolves its imports.
func (b *Bundler) load(path string) (*module, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, domain.ErrModuleReadFailed.Error()), "path", path)
	}
	// #nosec G304 -- modules are reached from configured targets
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, domain.ErrModuleReadFailed.Error()), "path", path)
	}

	realPath, err := b.resolver.RealPath(path)
	if err != nil {
		realPath = path
	}

	m := &module{
		path:     path,
		realPath: realPath,
		source:   src,
		refs:     scanImports(b.target.Kind, src),
		hash:     b.hasher.ComputeContentHash(src),
		modTime:  info.ModTime().UnixNano(),
	}

	if b.target.Kind != domain.KindStyle && debuggerStatement.Match(src) {
		if b.target.Production {
			b.linter.Errorf("%s: debugger statement in production bundle", b.rel(path))
		} else {
			b.linter.Warnf("%s: debugger statement", b.rel(path))
		}
	}

	if cached, ok := b.cachedImports(m); ok {
		m.resolved = cached
		m.statements = slices.Clone(cached)
		for i, ref := range m.refs {
			if cached[i] == "" && !isExternal(ref.specifier) {
				b.linter.Warnf("%s: cannot resolve %q", b.rel(path), ref.specifier)
			}
		}
		return m, true, nil
	}

	m.resolved = make([]string, len(m.refs))
	dir := filepath.Dir(path)
	for i, ref := range m.refs {
		if isExternal(ref.specifier) {
			continue
		}
		found := resolveImport(b.target.Kind, dir, ref.specifier)
		if found == "" {
			b.linter.Warnf("%s: cannot resolve %q", b.rel(path), ref.specifier)
			continue
		}
		m.resolved[i] = found
	}
	m.statements = slices.Clone(m.resolved)
	return m, false, nil
}

// cachedImports returns the per-statement imports recorded for a module
// whose hash matches its cache record. Imports are not resolved again; the
// record is dropped only when one of its files is gone.
func (b *Bundler) cachedImports(m *module) ([]string, bool) {
	hint, ok := b.hints[m.realPath]
	if !ok {
		return nil, false
	}
	if hash, ok := hint[MetaHash].(uint64); !ok || hash != m.hash {
		return nil, false
	}
	statements, ok := hint[MetaStatements].([]string)
	if !ok || len(statements) != len(m.refs) {
		return nil, false
	}
	for _, file := range statements {
		if file != "" && !isFile(file) {
			return nil, false
		}
	}
	return slices.Clone(statements), true
}

// join concatenates modules, dropping inlined import statements.
func (b *Bundler) join(order []*module) []byte {
	var buf bytes.Buffer
	for i, m := range order {
		if i > 0 {
			buf.WriteByte('\n')
		}
		if !b.target.Production {
			buf.WriteString("/* " + filepath.ToSlash(b.rel(m.path)) + " */\n")
		}
		body := strip(m.source, m.refs, m.resolved)
		buf.Write(body)
		if len(body) > 0 && body[len(body)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// Write persists the last build to the target's output path.
func (b *Bundler) Write(ctx context.Context) error {
	_, span := b.tracer.Start(ctx, "write")
	defer span.End()

	if b.result == nil {
		return zerr.With(domain.ErrNotBuilt, "target", b.target.Name)
	}
	if err := os.MkdirAll(b.target.OutputRoot(), domain.DirPerm); err != nil {
		span.RecordError(err)
		return zerr.With(zerr.Wrap(err, domain.ErrWriteFailed.Error()), "path", b.target.Output)
	}
	if err := os.WriteFile(b.target.Output, b.result.Output, domain.FilePerm); err != nil {
		span.RecordError(err)
		return zerr.With(zerr.Wrap(err, domain.ErrWriteFailed.Error()), "path", b.target.Output)
	}
	span.SetAttribute("bytes", len(b.result.Output))
	return nil
}

// Files returns the modules of the last build, including the real path of
// every symlinked module.
func (b *Bundler) Files() []string {
	return slices.Clone(b.files)
}

// Linter returns the findings of the last build.
func (b *Bundler) Linter() ports.Linter {
	if b.linter == nil {
		return nil
	}
	return b.linter
}

func (b *Bundler) rel(path string) string {
	if r, err := filepath.Rel(b.target.SourceRoot(), path); err == nil {
		return r
	}
	return path
}

func compact(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
