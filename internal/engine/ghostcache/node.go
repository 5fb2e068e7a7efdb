package ghostcache

import (
	"context"

	"github.com/grindlemire/graft"

	"go.keyframe.sh/onion/internal/adapters/fingerprint"
	"go.keyframe.sh/onion/internal/adapters/logger"
	"go.keyframe.sh/onion/internal/adapters/scene"
	"go.keyframe.sh/onion/internal/core/ports"
)

const NodeID graft.ID = "engine.ghostcache"

func init() {
	graft.Register(graft.Node[*Cache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{scene.NodeID, fingerprint.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Cache, error) {
			sc, err := graft.Dep[*scene.Scene](ctx)
			if err != nil {
				return nil, err
			}
			fp, err := graft.Dep[ports.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(sc, fp, log), nil
		},
	})
}
