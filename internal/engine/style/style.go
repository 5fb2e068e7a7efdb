// Package style derives per-ghost display styles from settings and
// playhead distance.
package style

import (
	"github.com/fogleman/ease"

	"go.keyframe.sh/onion/internal/core/domain"
)

// Resolver maps ghost frames to fully resolved render styles. Pure and
// stateless; safe to share across goroutines.
type Resolver struct{}

// New creates a Resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve computes the color, opacity, and draw-mode flags for one ghost.
// Color picks the configured side tint; opacity is the base opacity
// scaled by the falloff curve at the ghost's normalized distance. Mode
// flags pass through from settings unchanged.
func (r *Resolver) Resolve(g domain.GhostFrame, set domain.Settings) domain.RenderStyle {
	color := set.ColorAfter
	if g.Side == domain.SideBefore {
		color = set.ColorBefore
	}

	return domain.RenderStyle{
		Color:     color,
		Opacity:   clamp01(set.BaseOpacity * Falloff(set.Falloff, g.NormDistance)),
		Wireframe: set.Wireframe,
		XRay:      set.XRay,
		InFront:   set.InFront,
	}
}

// Falloff evaluates the opacity multiplier for a curve at normalized
// distance x in [0, 1]. Distance 0 always yields 1 and distance 1 yields
// exactly 0; there is no residual floor, the farthest ghost on the longer
// side fades out completely.
func Falloff(curve domain.FalloffCurve, x float64) float64 {
	remaining := 1 - clamp01(x)
	switch curve {
	case domain.FalloffLinear:
		return ease.Linear(remaining)
	case domain.FalloffExponential:
		return ease.InQuad(remaining)
	default:
		return smoothstep(remaining)
	}
}

// smoothstep is the cubic Hermite 3t^2 - 2t^3 on [0, 1].
func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
