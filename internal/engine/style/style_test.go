package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/engine/style"
)

func TestResolveSideColors(t *testing.T) {
	r := style.New()
	set := domain.DefaultSettings()

	before := r.Resolve(domain.GhostFrame{Side: domain.SideBefore}, set)
	after := r.Resolve(domain.GhostFrame{Side: domain.SideAfter}, set)

	assert.Equal(t, set.ColorBefore, before.Color)
	assert.Equal(t, set.ColorAfter, after.Color)
}

func TestResolveModeFlags(t *testing.T) {
	r := style.New()
	set := domain.DefaultSettings()
	set.Wireframe = true
	set.XRay = false
	set.InFront = true

	got := r.Resolve(domain.GhostFrame{}, set)

	assert.True(t, got.Wireframe)
	assert.False(t, got.XRay)
	assert.True(t, got.InFront)
}

func TestResolveOpacityScalesBase(t *testing.T) {
	r := style.New()
	set := domain.DefaultSettings()
	set.BaseOpacity = 0.8
	set.Falloff = domain.FalloffLinear

	got := r.Resolve(domain.GhostFrame{NormDistance: 0.5}, set)

	assert.InDelta(t, 0.4, got.Opacity, 1e-9)
}

func TestFalloffEndpoints(t *testing.T) {
	curves := []domain.FalloffCurve{
		domain.FalloffLinear,
		domain.FalloffSmooth,
		domain.FalloffExponential,
	}
	for _, c := range curves {
		assert.InDelta(t, 1.0, style.Falloff(c, 0), 1e-9, "curve %s at 0", c)
		// The farthest ghost fades out completely; there is no opacity
		// floor.
		assert.InDelta(t, 0.0, style.Falloff(c, 1), 1e-9, "curve %s at 1", c)
	}
}

func TestFalloffShapes(t *testing.T) {
	// At the halfway point the curves must order: exponential below
	// linear, smooth exactly at one half by symmetry.
	lin := style.Falloff(domain.FalloffLinear, 0.5)
	smo := style.Falloff(domain.FalloffSmooth, 0.5)
	exp := style.Falloff(domain.FalloffExponential, 0.5)

	assert.InDelta(t, 0.5, lin, 1e-9)
	assert.InDelta(t, 0.5, smo, 1e-9)
	assert.InDelta(t, 0.25, exp, 1e-9)

	// Smooth fades gently near the playhead: more opacity retained than
	// linear at small distances.
	assert.Greater(t, style.Falloff(domain.FalloffSmooth, 0.2), style.Falloff(domain.FalloffLinear, 0.2))
}

func TestFalloffClampsDistance(t *testing.T) {
	assert.InDelta(t, 1.0, style.Falloff(domain.FalloffLinear, -3), 1e-9)
	assert.InDelta(t, 0.0, style.Falloff(domain.FalloffLinear, 42), 1e-9)
}

func TestResolveMonotonic(t *testing.T) {
	r := style.New()
	set := domain.DefaultSettings()

	prev := 2.0
	for _, d := range []float64{0, 0.25, 0.5, 0.75, 1} {
		got := r.Resolve(domain.GhostFrame{NormDistance: d}, set)
		assert.Less(t, got.Opacity, prev, "opacity must strictly fall with distance at %v", d)
		prev = got.Opacity
	}
}
