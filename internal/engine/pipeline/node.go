package pipeline

import (
	"context"

	"github.com/grindlemire/graft"

	"go.keyframe.sh/onion/internal/adapters/logger"
	"go.keyframe.sh/onion/internal/adapters/scene"
	"go.keyframe.sh/onion/internal/core/ports"
	"go.keyframe.sh/onion/internal/engine/ghostcache"
	"go.keyframe.sh/onion/internal/engine/sampler"
	"go.keyframe.sh/onion/internal/engine/style"
)

const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{sampler.NodeID, ghostcache.NodeID, style.NodeID, scene.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Pipeline, error) {
			smp, err := graft.Dep[*sampler.Sampler](ctx)
			if err != nil {
				return nil, err
			}
			cache, err := graft.Dep[*ghostcache.Cache](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[*style.Resolver](ctx)
			if err != nil {
				return nil, err
			}
			sc, err := graft.Dep[*scene.Scene](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(smp, cache, resolver, sc, log), nil
		},
	})
}
