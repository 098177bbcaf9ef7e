// Package scheduler turns settled file changes into serialized target rebuilds.
package scheduler

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/debounce"
	"go.trai.ch/zerr"
)

// TargetStatus represents where a target is in the rebuild cycle.
type TargetStatus string

const (
	// StatusIdle indicates the target has no pending work.
	StatusIdle TargetStatus = "Idle"
	// StatusPending indicates a change is waiting out the target debounce window.
	StatusPending TargetStatus = "Pending"
	// StatusQueued indicates the target is waiting on the build chain.
	StatusQueued TargetStatus = "Queued"
	// StatusBuilding indicates the rebuild function is running.
	StatusBuilding TargetStatus = "Building"
)

// RebuildFunc rebuilds one target and returns its fresh dependency manifest.
type RebuildFunc func(ctx context.Context) (*domain.DependencyManifest, error)

// Options configures a Scheduler.
type Options struct {
	// Window is the per-target debounce window. Defaults to domain.DefaultTargetDebounce.
	Window   time.Duration
	Logger   ports.Logger
	Recorder ports.Recorder
}

type entry struct {
	manifest *domain.DependencyManifest
	rebuild  RebuildFunc
	status   TargetStatus
	followUp bool
}

// Scheduler debounces rebuild requests per target and runs rebuilds one at
// a time on a single build chain.
//
// A change that settles while its target is Building schedules exactly one
// follow-up rebuild; further changes during the same build fold into it.
// A failing or panicking rebuild is logged and leaves the target's previous
// manifest in place. It never affects other targets.
type Scheduler struct {
	window   time.Duration
	logger   ports.Logger
	recorder ports.Recorder
	queue    *debounce.Queue[string]

	mu      sync.Mutex
	entries map[string]*entry
	order   []string
	chain   []string
	wake    chan struct{}
}

// New creates a Scheduler with its own target debounce queue.
func New(opts Options) *Scheduler {
	if opts.Window <= 0 {
		opts.Window = domain.DefaultTargetDebounce
	}
	if opts.Recorder == nil {
		opts.Recorder = ports.NopRecorder{}
	}
	return &Scheduler{
		window:   opts.Window,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		queue:    debounce.New[string](),
		entries:  make(map[string]*entry),
		wake:     make(chan struct{}, 1),
	}
}

// Register adds a target or replaces the manifest and rebuild function of an
// already registered one.
func (s *Scheduler) Register(id string, manifest *domain.DependencyManifest, rebuild RebuildFunc) {
	manifest = label(manifest, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok {
		e.manifest = manifest
		e.rebuild = rebuild
		return
	}
	s.entries[id] = &entry{manifest: manifest, rebuild: rebuild, status: StatusIdle}
	s.order = append(s.order, id)
}

// Unregister removes a target. A rebuild already running finishes but its
// manifest is discarded.
func (s *Scheduler) Unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
	s.chain = slices.DeleteFunc(s.chain, func(o string) bool { return o == id })
}

// Handle routes a settled change to every target whose manifest contains it.
// It is meant to be used as the watcher's change handler and never blocks on
// a rebuild.
func (s *Scheduler) Handle(_ context.Context, event ports.WatchEvent) error {
	s.mu.Lock()
	affected := domain.AffectedTargets(event.Path, s.manifestsLocked())
	for _, id := range affected {
		if e := s.entries[id]; e.status == StatusIdle {
			e.status = StatusPending
		}
	}
	s.mu.Unlock()

	for _, id := range affected {
		s.queue.TickFunc(id, s.window, func(settled bool) {
			if !settled {
				s.recorder.IncSuperseded("target")
				return
			}
			s.enqueue(id)
		})
	}
	return nil
}

// Run drives the build chain until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		id, ok := s.next()
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-s.wake:
			}
			continue
		}

		s.rebuild(ctx, id)
	}
}

// Close releases pending debounce tickets. Targets waiting out their window
// return to Idle.
func (s *Scheduler) Close() {
	s.queue.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.status == StatusPending {
			e.status = StatusIdle
		}
	}
}

// Tracks reports whether any registered target depends on path.
func (s *Scheduler) Tracks(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(domain.AffectedTargets(path, s.manifestsLocked())) > 0
}

// Manifest returns the current manifest of a target.
func (s *Scheduler) Manifest(id string) (*domain.DependencyManifest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return e.manifest, true
}

// Status returns the current state of a target.
func (s *Scheduler) Status(id string) TargetStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		return e.status
	}
	return ""
}

func (s *Scheduler) manifestsLocked() []*domain.DependencyManifest {
	manifests := make([]*domain.DependencyManifest, 0, len(s.order))
	for _, id := range s.order {
		if m := s.entries[id].manifest; m != nil {
			manifests = append(manifests, m)
		}
	}
	return manifests
}

// enqueue moves a settled target onto the build chain, or marks a follow-up
// when it is already building.
func (s *Scheduler) enqueue(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return
	}

	switch e.status {
	case StatusBuilding:
		e.followUp = true
	case StatusQueued:
	default:
		e.status = StatusQueued
		s.chain = append(s.chain, id)
		s.signal()
	}
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) next() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.chain) == 0 {
		return "", false
	}
	id := s.chain[0]
	s.chain = s.chain[1:]
	return id, true
}

func (s *Scheduler) rebuild(ctx context.Context, id string) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	e.status = StatusBuilding
	fn := e.rebuild
	s.mu.Unlock()

	start := time.Now()
	manifest, err := invoke(ctx, fn)
	s.recorder.ObserveRebuild(id, time.Since(start), err)

	s.mu.Lock()
	if current, ok := s.entries[id]; ok && current == e {
		if err == nil && manifest != nil {
			e.manifest = label(manifest, id)
		}
		if e.followUp {
			e.followUp = false
			e.status = StatusQueued
			s.chain = append(s.chain, id)
			s.signal()
		} else {
			e.status = StatusIdle
		}
	}
	s.mu.Unlock()

	if err != nil && s.logger != nil {
		s.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrRebuildFailed.Error()), "target", id))
	}
}

func invoke(ctx context.Context, fn RebuildFunc) (manifest *domain.DependencyManifest, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(domain.ErrRebuildPanicked, "panic", fmt.Sprint(r))
		}
	}()
	return fn(ctx)
}

// label makes sure a manifest reports the id it is registered under.
func label(m *domain.DependencyManifest, id string) *domain.DependencyManifest {
	if m == nil || m.TargetID == id {
		return m
	}
	out := domain.NewDependencyManifest(id, m.SourceRoot, m.OutputRoot)
	out.AddFile(m.Files()...)
	return out
}
