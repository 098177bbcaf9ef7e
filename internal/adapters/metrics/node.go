package metrics

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// PrometheusNodeID is the graft node ID for the concrete recorder.
	PrometheusNodeID graft.ID = "adapter.metrics.prometheus"
	// NodeID is the graft node ID for the Recorder port.
	NodeID graft.ID = "adapter.metrics"
)

func init() {
	graft.Register(graft.Node[*PrometheusRecorder]{
		ID:        PrometheusNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*PrometheusRecorder, error) {
			return NewPrometheusRecorder(nil), nil
		},
	})

	graft.Register(graft.Node[ports.Recorder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{PrometheusNodeID},
		Run: func(ctx context.Context) (ports.Recorder, error) {
			return graft.Dep[*PrometheusRecorder](ctx)
		},
	})
}
