package telemetry

import (
	"context"

	"github.com/grindlemire/graft"

	"go.keyframe.sh/onion/internal/core/ports"
)

const NodeID graft.ID = "adapter.telemetry"

func init() {
	// The default reporter stays silent; commands layer their own on top.
	graft.Register(graft.Node[ports.Reporter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Reporter, error) {
			return NewNoop(), nil
		},
	})
}
