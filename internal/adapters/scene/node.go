package scene

import (
	"context"

	"github.com/grindlemire/graft"
)

const NodeID graft.ID = "adapter.scene"

func init() {
	graft.Register(graft.Node[*Scene]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Scene, error) {
			return New(), nil
		},
	})
}
