package modcache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/metrics"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the module cache Graft node.
const NodeID graft.ID = "adapter.modcache"

func init() {
	graft.Register(graft.Node[ports.ModuleCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.ResolverNodeID, metrics.NodeID},
		Run: func(ctx context.Context) (ports.ModuleCache, error) {
			resolver, err := graft.Dep[ports.PathResolver](ctx)
			if err != nil {
				return nil, err
			}
			recorder, err := graft.Dep[ports.Recorder](ctx)
			if err != nil {
				return nil, err
			}
			return New(resolver, recorder), nil
		},
	})
}
