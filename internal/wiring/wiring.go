// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.keyframe.sh/onion/internal/adapters/config"
	_ "go.keyframe.sh/onion/internal/adapters/fingerprint"
	_ "go.keyframe.sh/onion/internal/adapters/logger"
	_ "go.keyframe.sh/onion/internal/adapters/scene"
	_ "go.keyframe.sh/onion/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.keyframe.sh/onion/internal/app"
	_ "go.keyframe.sh/onion/internal/engine/ghostcache"
	_ "go.keyframe.sh/onion/internal/engine/pipeline"
	_ "go.keyframe.sh/onion/internal/engine/sampler"
	_ "go.keyframe.sh/onion/internal/engine/style"
)
