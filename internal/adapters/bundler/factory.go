package bundler

import (
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BundlerFactory = (*Factory)(nil)

// Factory creates Bundlers seeded from the module cache.
type Factory struct {
	cache    ports.ModuleCache
	hasher   ports.Hasher
	resolver ports.PathResolver
	tracer   ports.Tracer
}

// NewFactory creates a Factory.
func NewFactory(
	cache ports.ModuleCache,
	hasher ports.Hasher,
	resolver ports.PathResolver,
	tracer ports.Tracer,
) *Factory {
	return &Factory{cache: cache, hasher: hasher, resolver: resolver, tracer: tracer}
}

// New returns a Bundler for target.
func (f *Factory) New(target domain.Target) (ports.Bundler, error) {
	if target.Input == "" {
		return nil, zerr.With(domain.ErrMissingInput, "target", target.Name)
	}
	if target.Output == "" {
		return nil, zerr.With(domain.ErrMissingOutput, "target", target.Name)
	}
	if target.Kind == "" {
		target.Kind = domain.KindForPath(target.Input)
	}

	var hints []domain.CacheRecord
	if f.cache != nil {
		hints = f.cache.ToConfig()
	}
	return New(target, f.hasher, f.resolver, f.tracer, hints), nil
}
