package bundler_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/bundler"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/modcache"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// recordingTracer keeps every attribute set on its spans.
type recordingTracer struct {
	mu    sync.Mutex
	attrs map[string]any
}

func (r *recordingTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, &recordingSpan{tracer: r}
}

type recordingSpan struct{ tracer *recordingTracer }

func (s *recordingSpan) End() {}
func (s *recordingSpan) RecordError(error) {}
func (s *recordingSpan) SetAttribute(key string, value any) {
	s.tracer.mu.Lock()
	defer s.tracer.mu.Unlock()
	if s.tracer.attrs == nil {
		s.tracer.attrs = make(map[string]any)
	}
	s.tracer.attrs[key] = value
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func newBundler(target domain.Target, hints ...domain.CacheRecord) *bundler.Bundler {
	return bundler.New(target, fs.NewHasher(), fs.NewResolver(), telemetry.NewNoOpTracer(), hints)
}

func scriptTarget(root string) domain.Target {
	return domain.Target{
		Name:   "app",
		Kind:   domain.KindScript,
		Input:  filepath.Join(root, "src", "main.js"),
		Output: filepath.Join(root, "dist", "app.js"),
	}
}

func TestBuild_ConcatenatesDependenciesFirst(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/main.js":      "import a from './a';\nimport './lib';\nrun(a);\n",
		"src/a.js":         "import { b } from './b.js';\nexport default b + 1;\n",
		"src/b.js":         "export const b = 1;\n",
		"src/lib/index.js": "window.lib = true;\n",
	})

	b := newBundler(scriptTarget(root))
	res, err := b.Build(context.Background())
	require.NoError(t, err)

	want := "/* b.js */\nexport const b = 1;\n" +
		"\n/* a.js */\n\nexport default b + 1;\n" +
		"\n/* lib/index.js */\nwindow.lib = true;\n" +
		"\n/* main.js */\n\n\nrun(a);\n"
	assert.Equal(t, want, string(res.Output))

	ids := make([]string, 0, len(res.Modules))
	for _, m := range res.Modules {
		ids = append(ids, filepath.Base(m.ID))
	}
	assert.Equal(t, []string{"b.js", "a.js", "index.js", "main.js"}, ids)

	main := res.Modules[len(res.Modules)-1].Metadata
	assert.Equal(t, []string{filepath.Join(root, "src", "a.js"), filepath.Join(root, "src", "lib", "index.js")}, main[bundler.MetaImports])
	assert.Equal(t, len("import a from './a';\nimport './lib';\nrun(a);\n"), main[bundler.MetaSize])
	assert.IsType(t, uint64(0), main[bundler.MetaHash])
	assert.IsType(t, int64(0), main[bundler.MetaModTime])

	assert.False(t, b.Linter().HasWarnings())
}

func TestBuild_ProductionOmitsBanners(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/main.js": "import './a';\nmain();\n",
		"src/a.js":    "a();\n",
	})

	target := scriptTarget(root)
	target.Production = true
	res, err := newBundler(target).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "a();\n\n\nmain();\n", string(res.Output))
}

func TestBuild_Style(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"styles/site.scss":        "@import 'vars';\n@import url(\"https://fonts.example.com/x.css\");\nbody { color: $ink; }\n",
		"styles/_vars.scss":       "$ink: #222;\n",
		"styles/unused/other.css": "p {}\n",
	})

	target := domain.Target{
		Name:       "site.style",
		Kind:       domain.KindStyle,
		Input:      filepath.Join(root, "styles", "site.scss"),
		Output:     filepath.Join(root, "dist", "site.css"),
		Production: true,
	}
	b := newBundler(target)
	res, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t,
		"$ink: #222;\n\n\n@import url(\"https://fonts.example.com/x.css\");\nbody { color: $ink; }\n",
		string(res.Output))
	assert.Len(t, res.Modules, 2)
	assert.Contains(t, b.Files(), filepath.Join(root, "styles", "_vars.scss"))
	assert.False(t, b.Linter().HasWarnings())
}

func TestBuild_StylePrefersSiblingOverNodeModules(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"styles/site.css":                  "@import 'reset';\n",
		"styles/reset.css":                 "* { margin: 0; }\n",
		"styles/theme/main.css":            "@import 'normalize';\n",
		"node_modules/reset/package.json":  `{"style": "reset.css"}`,
		"node_modules/reset/reset.css":     "html {}\n",
		"node_modules/normalize/index.css": "body {}\n",
	})

	target := domain.Target{
		Name:       "site.style",
		Kind:       domain.KindStyle,
		Input:      filepath.Join(root, "styles", "site.css"),
		Output:     filepath.Join(root, "dist", "site.css"),
		Production: true,
	}
	b := newBundler(target)
	_, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Contains(t, b.Files(), filepath.Join(root, "styles", "reset.css"))
	assert.NotContains(t, b.Files(), filepath.Join(root, "node_modules", "reset", "reset.css"))

	target.Input = filepath.Join(root, "styles", "theme", "main.css")
	b = newBundler(target)
	_, err = b.Build(context.Background())
	require.NoError(t, err)
	assert.Contains(t, b.Files(), filepath.Join(root, "node_modules", "normalize", "index.css"))
}

func TestBuild_NodeModules(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/main.js":                          "import pad from 'left-pad';\nimport util from '@acme/util';\n",
		"node_modules/left-pad/package.json":   `{"main": "lib/pad.js"}`,
		"node_modules/left-pad/lib/pad.js":     "export default 'pad';\n",
		"node_modules/@acme/util/package.json": `{"main": "cjs/index.js", "module": "esm"}`,
		"node_modules/@acme/util/esm/index.js": "export default 'esm';\n",
		"node_modules/@acme/util/cjs/index.js": "module.exports = 'cjs';\n",
	})

	res, err := newBundler(scriptTarget(root)).Build(context.Background())
	require.NoError(t, err)

	out := string(res.Output)
	assert.Contains(t, out, "export default 'pad';")
	assert.Contains(t, out, "export default 'esm';")
	assert.NotContains(t, out, "module.exports")
}

func TestBuild_UnresolvedImportIsAWarning(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/main.js": "import gone from './gone';\ndebugger;\n",
	})

	b := newBundler(scriptTarget(root))
	res, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Contains(t, string(res.Output), "import gone from './gone';")
	linter := b.Linter()
	require.NotNil(t, linter)
	assert.True(t, linter.HasWarnings())
	assert.False(t, linter.HasErrors())
	assert.Equal(t,
		"warning: main.js: debugger statement\nwarning: main.js: cannot resolve \"./gone\"",
		linter.Report())
}

func TestBuild_ProductionDebuggerIsAnError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/main.js": "debugger;\nrun();\n",
	})

	target := scriptTarget(root)
	target.Production = true
	b := newBundler(target)
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	linter := b.Linter()
	assert.True(t, linter.HasErrors())
	assert.False(t, linter.HasWarnings())
	assert.Equal(t, "error: main.js: debugger statement in production bundle", linter.Report())
}

func TestBuild_ImportCycle(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/main.js": "import './a';\n",
		"src/a.js":    "import './b';\na();\n",
		"src/b.js":    "import './a';\nb();\n",
	})

	b := newBundler(scriptTarget(root))
	res, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Len(t, res.Modules, 3)
	assert.Equal(t, 1, strings.Count(string(res.Output), "a();"))
	assert.Contains(t, b.Linter().Report(), "import cycle")
}

func TestBuild_MissingInput(t *testing.T) {
	t.Parallel()

	b := newBundler(scriptTarget(t.TempDir()))
	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrModuleReadFailed.Error())
}

func TestBuild_Canceled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"src/main.js": "x();\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newBundler(scriptTarget(root)).Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWrite(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"src/main.js": "x();\n"})
	target := scriptTarget(root)
	b := newBundler(target)

	err := b.Write(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNotBuilt.Error())

	res, err := b.Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, b.Write(context.Background()))

	written, err := os.ReadFile(target.Output)
	require.NoError(t, err)
	assert.Equal(t, res.Output, written)
}

func TestFiles_IncludesRealPaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/main.js":      "import './linked';\n",
		"shared/linked.js": "shared();\n",
	})
	require.NoError(t, os.Symlink(
		filepath.Join(root, "shared", "linked.js"),
		filepath.Join(root, "src", "linked.js"),
	))

	b := newBundler(scriptTarget(root))
	assert.Empty(t, b.Files())

	_, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "src", "linked.js"),
		filepath.Join(root, "shared", "linked.js"),
		filepath.Join(root, "src", "main.js"),
	}, b.Files())
}

func TestFactory_ReusesCachedImports(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/main.js": "import './a';\n",
		"src/a.js":    "a();\n",
	})

	cache := modcache.New(fs.NewResolver(), nil)
	tracer := &recordingTracer{}
	factory := bundler.NewFactory(cache, fs.NewHasher(), fs.NewResolver(), tracer)

	first, err := factory.New(scriptTarget(root))
	require.NoError(t, err)
	res, err := first.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, tracer.attrs["reused"])
	cache.Put(res)

	// An unchanged module keeps its recorded imports without resolving
	// them again, so a new src/a file does not take over './a'.
	writeFiles(t, root, map[string]string{"src/a": "shadow();\n"})
	second, err := factory.New(scriptTarget(root))
	require.NoError(t, err)
	again, err := second.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, tracer.attrs["reused"])
	assert.Equal(t, res.Output, again.Output)
	assert.NotContains(t, second.Files(), filepath.Join(root, "src", "a"))

	writeFiles(t, root, map[string]string{"src/a.js": "a(2);\n"})
	third, err := factory.New(scriptTarget(root))
	require.NoError(t, err)
	_, err = third.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tracer.attrs["reused"])

	// A recorded import that disappeared sends the module through resolution.
	require.NoError(t, os.Remove(filepath.Join(root, "src", "a.js")))
	fourth, err := factory.New(scriptTarget(root))
	require.NoError(t, err)
	shadowed, err := fourth.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, tracer.attrs["reused"])
	assert.Contains(t, string(shadowed.Output), "shadow();")
}

func TestFactory_RejectsIncompleteTargets(t *testing.T) {
	t.Parallel()

	factory := bundler.NewFactory(nil, fs.NewHasher(), fs.NewResolver(), telemetry.NewNoOpTracer())

	_, err := factory.New(domain.Target{Name: "a", Output: "/out.js"})
	assert.ErrorContains(t, err, domain.ErrMissingInput.Error())

	_, err = factory.New(domain.Target{Name: "a", Input: "/in.js"})
	assert.ErrorContains(t, err, domain.ErrMissingOutput.Error())

	b, err := factory.New(domain.Target{Name: "a", Input: "/in.css", Output: "/out.css"})
	require.NoError(t, err)
	assert.Nil(t, b.Linter())
}

func TestBuild_Spans(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"src/main.js": "x();\n"})

	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)

	gomock.InOrder(
		tracer.EXPECT().Start(gomock.Any(), "bundle").Return(context.Background(), span),
		tracer.EXPECT().Start(gomock.Any(), "resolve").Return(context.Background(), span),
		tracer.EXPECT().Start(gomock.Any(), "write").Return(context.Background(), span),
	)
	span.EXPECT().SetAttribute("target", "app")
	span.EXPECT().SetAttribute("modules", 1)
	span.EXPECT().SetAttribute("reused", 0)
	span.EXPECT().SetAttribute("bytes", gomock.Any())
	span.EXPECT().End().Times(3)

	b := bundler.New(scriptTarget(root), fs.NewHasher(), fs.NewResolver(), tracer, nil)
	_, err := b.Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, b.Write(context.Background()))
}
