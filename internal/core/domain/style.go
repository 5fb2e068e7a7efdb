package domain

// RenderStyle is everything the draw target needs to paint one ghost.
// It is fully resolved: the renderer applies it without consulting
// settings or recomputing falloff.
type RenderStyle struct {
	Color RGBA
	// Opacity is the final per-ghost alpha, base opacity times falloff,
	// in [0, 1].
	Opacity   float64
	Wireframe bool
	// XRay draws the ghost without depth testing so it shows through
	// current-frame geometry.
	XRay bool
	// InFront paints the ghost over everything else in the overlay.
	InFront bool
}
