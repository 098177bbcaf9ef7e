// Package app implements the application layer for kiln.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/kiln/internal/adapters/detector" //nolint:depguard // Output mode is decided in the app layer
	"go.trai.ch/kiln/internal/adapters/watcher"  //nolint:depguard // Watch sessions are wired in the app layer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// BuildOptions configures a build.
type BuildOptions struct {
	// Watch keeps rebuilding affected targets after the initial build.
	Watch bool
	// Production omits development annotations and sets KILN_ENV.
	Production bool
	// NoCache clears the module cache before the initial build.
	NoCache bool
	// MetricsAddr serves Prometheus metrics on this address while watching.
	MetricsAddr string
	// LogFormat is "auto", "pretty" or "json".
	LogFormat string
	// Dir is where kiln.yaml is searched from. Defaults to ".".
	Dir string
}

// WatcherFactory creates the file watcher of a watch session.
type WatcherFactory func(cfg watcher.Config, logger ports.Logger) ports.Watcher

// jsonSwitch is implemented by loggers that can emit JSON.
type jsonSwitch interface {
	SetJSON(enable bool)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	factory      ports.BundlerFactory
	cache        ports.ModuleCache
	logger       ports.Logger
	recorder     ports.Recorder
	metrics      http.Handler
	newWatcher   WatcherFactory
	styled       bool
}

// New creates a new App instance. recorder and metrics may be nil.
func New(
	loader ports.ConfigLoader,
	factory ports.BundlerFactory,
	cache ports.ModuleCache,
	logger ports.Logger,
	recorder ports.Recorder,
	metrics http.Handler,
) *App {
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	return &App{
		configLoader: loader,
		factory:      factory,
		cache:        cache,
		logger:       logger,
		recorder:     recorder,
		metrics:      metrics,
		newWatcher: func(cfg watcher.Config, logger ports.Logger) ports.Watcher {
			return watcher.New(cfg, logger)
		},
	}
}

// WithWatcherFactory replaces how watch sessions create their watcher.
func (a *App) WithWatcherFactory(f WatcherFactory) *App {
	a.newWatcher = f
	return a
}

// Build builds the named targets, or every declared target when names is
// empty, and keeps rebuilding them on change when opts.Watch is set.
func (a *App) Build(ctx context.Context, names []string, opts BuildOptions) error {
	a.configureOutput(opts.LogFormat)

	if opts.Production && os.Getenv(domain.EnvVar) == "" {
		if err := os.Setenv(domain.EnvVar, "production"); err != nil {
			return zerr.Wrap(err, "failed to set "+domain.EnvVar)
		}
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	project, err := a.configLoader.Load(dir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	targets, err := selectTargets(project, names)
	if err != nil {
		return err
	}
	for i := range targets {
		targets[i].Production = opts.Production
	}

	if opts.NoCache {
		a.cache.Clear()
	}

	manifests := make([]*domain.DependencyManifest, len(targets))
	for i, target := range targets {
		manifest, err := a.buildTarget(ctx, project.Root, target)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrBuildFailed.Error()), "target", target.Name)
		}
		manifests[i] = manifest
	}

	if !opts.Watch {
		return nil
	}
	return a.watch(ctx, project, targets, manifests, opts.MetricsAddr)
}

func (a *App) configureOutput(format string) {
	mode := detector.ResolveMode(detector.DetectEnvironment(), format)
	a.styled = mode == detector.ModePretty
	if l, ok := a.logger.(jsonSwitch); ok {
		l.SetJSON(mode == detector.ModeJSON)
	}
}

func selectTargets(project *domain.Project, names []string) ([]domain.Target, error) {
	if len(project.Targets) == 0 {
		return nil, domain.ErrNoTargets
	}
	if len(names) == 0 {
		return slices.Clone(project.Targets), nil
	}

	targets := make([]domain.Target, 0, len(names))
	for _, name := range names {
		t, ok := project.Target(name)
		if !ok {
			return nil, zerr.With(domain.ErrTargetNotFound, "target", name)
		}
		if slices.ContainsFunc(targets, func(o domain.Target) bool { return o.Name == name }) {
			continue
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// buildTarget runs one bundler build, writes its output, feeds the module
// cache and returns the target's dependency manifest.
func (a *App) buildTarget(ctx context.Context, root string, target domain.Target) (*domain.DependencyManifest, error) {
	start := time.Now()

	b, err := a.factory.New(target)
	if err != nil {
		return nil, err
	}
	result, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}

	// Findings never fail a build.
	if linter := b.Linter(); linter != nil && (linter.HasErrors() || linter.HasWarnings()) {
		a.logger.Warn(linter.Report())
	}

	if err := b.Write(ctx); err != nil {
		return nil, err
	}
	a.cache.Put(result)

	manifest := domain.NewDependencyManifest(target.Name, target.SourceRoot(), target.OutputRoot())
	manifest.AddFile(b.Files()...)

	report, err := measure(target, relativeTo(root, target.Output), result.Output, time.Since(start))
	if err != nil {
		return nil, err
	}
	if a.styled {
		a.logger.Info(report.Styled())
	} else {
		a.logger.Info(report.String())
	}
	return manifest, nil
}

// watch runs a watch session until ctx is cancelled.
func (a *App) watch(
	ctx context.Context,
	project *domain.Project,
	targets []domain.Target,
	manifests []*domain.DependencyManifest,
	metricsAddr string,
) error {
	session := uuid.NewString()

	sched := scheduler.New(scheduler.Options{
		Window:   project.Watch.TargetDebounce,
		Logger:   a.logger,
		Recorder: a.recorder,
	})
	for i, target := range targets {
		sched.Register(target.Name, manifests[i], func(ctx context.Context) (*domain.DependencyManifest, error) {
			return a.buildTarget(ctx, project.Root, target)
		})
	}

	rules := slices.Clone(project.Watch.Ignore)
	rules = append(rules, domain.Predicate(func(path string) bool { return !sched.Tracks(path) }))
	w := a.newWatcher(watcher.Config{
		Root:     project.Root,
		Ignore:   rules,
		Debounce: project.Watch.PathDebounce,
		Recorder: a.recorder,
	}, a.logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(gctx)
	})

	if err := w.Watch(gctx, sched.Handle); err != nil {
		cancel()
		sched.Close()
		_ = w.Close()
		_ = g.Wait()
		return zerr.With(err, "session", session)
	}
	a.logger.Info(fmt.Sprintf("watching %s for %d target(s), session %s", project.Root, len(targets), session))

	if metricsAddr != "" && a.metrics != nil {
		a.serveMetrics(gctx, g, metricsAddr)
	}

	g.Go(func() error {
		<-gctx.Done()
		sched.Close()
		return w.Close()
	})

	return g.Wait()
}

func (a *App) serveMetrics(ctx context.Context, g *errgroup.Group, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: shutdownTimeout,
	}

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return zerr.With(zerr.Wrap(err, domain.ErrMetricsServerFailed.Error()), "addr", addr)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	a.logger.Info("serving metrics on " + addr + "/metrics")
}

func relativeTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
