package fingerprint

import (
	"context"

	"github.com/grindlemire/graft"

	"go.keyframe.sh/onion/internal/adapters/scene"
	"go.keyframe.sh/onion/internal/core/ports"
)

const NodeID graft.ID = "adapter.fingerprint"

func init() {
	graft.Register(graft.Node[ports.Fingerprinter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{scene.NodeID},
		Run: func(ctx context.Context) (ports.Fingerprinter, error) {
			sc, err := graft.Dep[*scene.Scene](ctx)
			if err != nil {
				return nil, err
			}
			return New(sc), nil
		},
	})
}
