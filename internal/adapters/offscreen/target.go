// Package offscreen renders ghost overlays into an image instead of a
// viewport: a software rasterizer with a z-buffer, supersampled and
// encoded to WebP. It is the draw target the CLI uses.
package offscreen

import (
	"image"
	"math"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports"
	"go.keyframe.sh/onion/internal/mathutil"
	"go.trai.ch/zerr"
)

// supersample is the raster oversize factor before the final downscale.
const supersample = 2

// fitMargin keeps the projected scene off the image border.
const fitMargin = 0.1

var _ ports.DrawTarget = (*Target)(nil)

// referenceStyle paints the current-frame geometry: opaque, neutral, and
// depth-writing, so non-xray ghosts can hide behind it.
var referenceStyle = domain.RenderStyle{
	Color:   domain.RGBA{R: 0.72, G: 0.72, B: 0.74, A: 1},
	Opacity: 1,
}

type queued struct {
	geo   *domain.Geometry
	style domain.RenderStyle
}

// Target collects ghosts between Begin and Flush and rasterizes the whole
// overlay at Flush, once the world bounds are known. Not safe for
// concurrent use; the draw pipeline calls it from one goroutine.
type Target struct {
	width      int
	height     int
	output     string
	background domain.RGBA

	current   int
	reference []*domain.Geometry
	ghosts    []queued
	img       *image.NRGBA
}

// Option configures a Target.
type Option func(*Target)

// WithSize sets the output image dimensions.
func WithSize(w, h int) Option {
	return func(t *Target) {
		if w > 0 {
			t.width = w
		}
		if h > 0 {
			t.height = h
		}
	}
}

// WithOutput makes every Flush encode the overlay to a WebP file at path.
func WithOutput(path string) Option {
	return func(t *Target) { t.output = path }
}

// WithBackground sets the canvas color behind the gradient.
func WithBackground(c domain.RGBA) Option {
	return func(t *Target) { t.background = c.Clamped() }
}

// New creates a Target. Without options it renders 512x512 on a dark
// neutral background and keeps the result in memory only.
func New(opts ...Option) *Target {
	t := &Target{
		width:      512,
		height:     512,
		background: domain.RGBA{R: 0.16, G: 0.17, B: 0.20, A: 1},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetReference supplies the current-frame geometry drawn under the
// ghosts. It persists across Begin calls until replaced.
func (t *Target) SetReference(geos ...*domain.Geometry) {
	t.reference = append(t.reference[:0], geos...)
}

// Begin implements ports.DrawTarget.
func (t *Target) Begin(current int) {
	t.current = current
	t.ghosts = t.ghosts[:0]
}

// DrawGhost implements ports.DrawTarget. Ghosts are queued in received
// order; rasterization happens at Flush when the projection is known.
func (t *Target) DrawGhost(g *domain.Geometry, style domain.RenderStyle) error {
	if g == nil {
		return zerr.With(domain.ErrInvalidGeometry, "reason", "nil snapshot")
	}
	t.ghosts = append(t.ghosts, queued{geo: g, style: style})
	return nil
}

// Flush implements ports.DrawTarget: it projects, rasterizes, downsamples,
// and, when an output path is configured, encodes the overlay.
func (t *Target) Flush() error {
	fb := newFrameBuffer(t.width*supersample, t.height*supersample, t.background)
	proj := t.fitProjection(fb.w, fb.h)

	// Current-frame geometry first: it owns the depth buffer.
	for _, geo := range t.reference {
		fb.draw(geo, referenceStyle, proj, depthReadWrite)
	}
	// Ghosts arrive farthest-first and only ever test depth. XRay and
	// in-front ghosts ignore the reference depth entirely.
	for _, q := range t.ghosts {
		mode := depthRead
		if q.style.XRay || q.style.InFront {
			mode = depthNone
		}
		fb.draw(q.geo, q.style, proj, mode)
	}

	t.img = downsample(fb.image(), t.width, t.height)

	if t.output == "" {
		return nil
	}
	return t.encode()
}

// Image returns the overlay produced by the last Flush, nil before any.
func (t *Target) Image() *image.NRGBA {
	return t.img
}

func (t *Target) encode() error {
	if dir := filepath.Dir(t.output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerr.Wrap(err, "failed to create output directory")
		}
	}
	f, err := os.Create(t.output)
	if err != nil {
		return zerr.Wrap(err, "failed to create overlay file")
	}
	defer f.Close()

	if err := nativewebp.Encode(f, t.img, nil); err != nil {
		return zerr.With(zerr.Wrap(err, "webp encode failed"), "path", t.output)
	}
	return nil
}

// fitProjection builds an orthographic world-to-pixel mapping that fits
// everything queued this frame, preserving aspect. The camera looks down
// -Z: screen depth is world Z, larger is closer.
func (t *Target) fitProjection(w, h int) projection {
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	seen := false
	grow := func(geo *domain.Geometry) {
		for _, p := range geo.Positions {
			lo = lo.Min(p)
			hi = hi.Max(p)
			seen = true
		}
	}
	for _, geo := range t.reference {
		grow(geo)
	}
	for _, q := range t.ghosts {
		grow(q.geo)
	}
	if !seen {
		return projection{scale: 1, cx: float64(w) / 2, cy: float64(h) / 2}
	}

	center := lo.Add(hi).Scale(0.5)
	extentX := math.Max(hi[0]-lo[0], 1e-9)
	extentY := math.Max(hi[1]-lo[1], 1e-9)
	scale := math.Min(
		float64(w)*(1-2*fitMargin)/extentX,
		float64(h)*(1-2*fitMargin)/extentY,
	)
	return projection{
		scale:   scale,
		world:   center,
		cx:      float64(w) / 2,
		cy:      float64(h) / 2,
		flipped: true,
	}
}

// projection maps world space onto the supersampled raster.
type projection struct {
	scale   float64
	world   mathutil.Vec3 // world point mapped to the image center
	cx, cy  float64
	flipped bool // world +Y is screen up
}

func (p projection) apply(v mathutil.Vec3) (x, y, z float64) {
	x = p.cx + (v[0]-p.world[0])*p.scale
	dy := (v[1] - p.world[1]) * p.scale
	if p.flipped {
		y = p.cy - dy
	} else {
		y = p.cy + dy
	}
	z = v[2]
	return x, y, z
}
