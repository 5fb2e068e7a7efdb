package style

import (
	"context"

	"github.com/grindlemire/graft"
)

const NodeID graft.ID = "engine.style"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Resolver, error) {
			return New(), nil
		},
	})
}
