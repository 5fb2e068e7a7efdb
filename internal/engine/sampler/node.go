package sampler

import (
	"context"

	"github.com/grindlemire/graft"
)

const NodeID graft.ID = "engine.sampler"

func init() {
	graft.Register(graft.Node[*Sampler]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Sampler, error) {
			return New(), nil
		},
	})
}
