package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.keyframe.sh/onion/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.keyframe.sh/onion/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.keyframe.sh/onion/internal/adapters/scene"     //nolint:depguard // Wired in app layer
	"go.keyframe.sh/onion/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.keyframe.sh/onion/internal/core/ports"
	"go.keyframe.sh/onion/internal/engine/ghostcache"
	"go.keyframe.sh/onion/internal/engine/pipeline"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			pipeline.NodeID,
			ghostcache.NodeID,
			scene.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[ports.SettingsStore](ctx)
	if err != nil {
		return nil, err
	}

	pl, err := graft.Dep[*pipeline.Pipeline](ctx)
	if err != nil {
		return nil, err
	}

	cache, err := graft.Dep[*ghostcache.Cache](ctx)
	if err != nil {
		return nil, err
	}

	sc, err := graft.Dep[*scene.Scene](ctx)
	if err != nil {
		return nil, err
	}

	reporter, err := graft.Dep[ports.Reporter](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(settings, pl, cache, sc, reporter, log), nil
}
