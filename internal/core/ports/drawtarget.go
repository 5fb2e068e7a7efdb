package ports

import "go.keyframe.sh/onion/internal/core/domain"

// DrawTarget is the rendering boundary. The pipeline hands it fully
// resolved ghosts in painter's order (farthest first); the target owns
// projection, blending, and output.
//
//go:generate mockgen -source=drawtarget.go -destination=mocks/mock_drawtarget.go -package=mocks
type DrawTarget interface {
	// Begin starts a new overlay frame at the given playhead frame,
	// discarding anything drawn previously. Output dimensions belong to
	// the target.
	Begin(current int)
	// DrawGhost paints one snapshot with the given style. Called in draw
	// order; implementations must not reorder.
	DrawGhost(g *domain.Geometry, style domain.RenderStyle) error
	// Flush completes the overlay frame.
	Flush() error
}
