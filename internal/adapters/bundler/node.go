package bundler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/modcache"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the bundler factory Graft node.
const NodeID graft.ID = "adapter.bundler"

func init() {
	graft.Register(graft.Node[ports.BundlerFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{modcache.NodeID, fs.HasherNodeID, fs.ResolverNodeID, telemetry.TracerNodeID},
		Run: func(ctx context.Context) (ports.BundlerFactory, error) {
			cache, err := graft.Dep[ports.ModuleCache](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[ports.PathResolver](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(cache, hasher, resolver, tracer), nil
		},
	})
}
