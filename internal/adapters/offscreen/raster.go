package offscreen

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"go.keyframe.sh/onion/internal/core/domain"
)

// depthMode selects how a draw interacts with the z-buffer. Ghosts never
// write depth; only the current-frame reference does.
type depthMode uint8

const (
	depthNone      depthMode = iota // no test, no write
	depthRead                       // test against the reference
	depthReadWrite                  // test and write
)

// Fixed overlay light, pointing over the viewer's shoulder.
var lightDir = [3]float64{0.35, 0.55, 0.76}

const (
	shadeAmbient = 0.35
	shadeDirect  = 0.65
)

// frameBuffer is the supersampled raster: straight-alpha RGBA interleaved
// plus a depth value per pixel, larger meaning closer.
type frameBuffer struct {
	w, h  int
	color []uint8
	zbuf  []float64
}

// newFrameBuffer allocates the raster with a vertical background gradient
// and the depth plane at -inf.
func newFrameBuffer(w, h int, bg domain.RGBA) *frameBuffer {
	fb := &frameBuffer{
		w:     w,
		h:     h,
		color: make([]uint8, w*h*4),
		zbuf:  make([]float64, w*h),
	}
	for i := range fb.zbuf {
		fb.zbuf[i] = math.Inf(-1)
	}

	floor := bg.Lerp(domain.RGBA{A: bg.A}, 0.4)
	for y := 0; y < h; y++ {
		c := bg
		if h > 1 {
			c = bg.Lerp(floor, float64(y)/float64(h-1))
		}
		r, g, b, a := channel(c.R), channel(c.G), channel(c.B), channel(c.A)
		row := y * w * 4
		for x := 0; x < w; x++ {
			fb.color[row] = r
			fb.color[row+1] = g
			fb.color[row+2] = b
			fb.color[row+3] = a
			row += 4
		}
	}
	return fb
}

// draw rasterizes one snapshot. Solid geometry fills triangles with flat
// shading; wireframe style, and geometry without a surface, stroke edges.
func (fb *frameBuffer) draw(geo *domain.Geometry, style domain.RenderStyle, proj projection, mode depthMode) {
	alpha := style.Opacity * style.Color.A
	if alpha <= 0 || len(geo.Positions) == 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}

	px := make([]float64, len(geo.Positions))
	py := make([]float64, len(geo.Positions))
	pz := make([]float64, len(geo.Positions))
	for i, p := range geo.Positions {
		px[i], py[i], pz[i] = proj.apply(p)
	}

	if style.Wireframe || len(geo.Triangles) == 0 {
		for i := 0; i+1 < len(geo.Edges); i += 2 {
			a, b := geo.Edges[i], geo.Edges[i+1]
			fb.strokeLine(px[a], py[a], pz[a], px[b], py[b], pz[b], style.Color, alpha, mode)
		}
		return
	}
	for i := 0; i+2 < len(geo.Triangles); i += 3 {
		fb.fillTriangle(px, py, pz,
			geo.Triangles[i], geo.Triangles[i+1], geo.Triangles[i+2],
			style.Color, alpha, mode)
	}
}

// fillTriangle is the hot path: barycentric coverage over the bounding
// box, flat shading from the screen-space face normal, no allocation in
// the pixel loop.
func (fb *frameBuffer) fillTriangle(px, py, pz []float64, i0, i1, i2 uint32, tint domain.RGBA, alpha float64, mode depthMode) {
	x0, y0, z0 := px[i0], py[i0], pz[i0]
	x1, y1, z1 := px[i1], py[i1], pz[i1]
	x2, y2, z2 := px[i2], py[i2], pz[i2]

	// Face normal for flat shading.
	e1x, e1y, e1z := x1-x0, y1-y0, z1-z0
	e2x, e2y, e2z := x2-x0, y2-y0, z2-z0
	nx := e1y*e2z - e1z*e2y
	ny := e1z*e2x - e1x*e2z
	nz := e1x*e2y - e1y*e2x
	nl := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if nl < 1e-8 {
		return
	}
	ndl := math.Abs(nx*lightDir[0]+ny*lightDir[1]+nz*lightDir[2]) / nl
	shade := shadeAmbient + shadeDirect*ndl

	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1
	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.w {
		maxX = fb.w - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.h {
		maxY = fb.h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det
	dy12, dx21 := y1-y2, x2-x1
	dy20, dx02 := y2-y0, x0-x2

	r := tint.R * shade
	g := tint.G * shade
	b := tint.B * shade

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.w
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}
			z := w0*z0 + w1*z1 + w2*z2
			fb.blendPixel(rowOff+sx, z, r, g, b, alpha, mode)
		}
	}
}

// strokeLine walks the segment one pixel per step, interpolating depth.
func (fb *frameBuffer) strokeLine(x0, y0, z0, x1, y1, z1 float64, tint domain.RGBA, alpha float64, mode depthMode) {
	steps := int(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(x0 + (x1-x0)*t + 0.5)
		y := int(y0 + (y1-y0)*t + 0.5)
		if x < 0 || x >= fb.w || y < 0 || y >= fb.h {
			continue
		}
		z := z0 + (z1-z0)*t
		fb.blendPixel(y*fb.w+x, z, tint.R, tint.G, tint.B, alpha, mode)
	}
}

// blendPixel applies the depth rule, then straight-alpha blends the color
// over what is already there.
func (fb *frameBuffer) blendPixel(idx int, z, r, g, b, alpha float64, mode depthMode) {
	if mode != depthNone && z <= fb.zbuf[idx] {
		return
	}
	if mode == depthReadWrite {
		fb.zbuf[idx] = z
	}

	p := idx * 4
	inv := 1 - alpha
	fb.color[p] = channel(r*alpha + float64(fb.color[p])/255*inv)
	fb.color[p+1] = channel(g*alpha + float64(fb.color[p+1])/255*inv)
	fb.color[p+2] = channel(b*alpha + float64(fb.color[p+2])/255*inv)
	fb.color[p+3] = channel(alpha + float64(fb.color[p+3])/255*inv)
}

// image copies the raster into a straight-alpha image.
func (fb *frameBuffer) image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.w, fb.h))
	copy(img.Pix, fb.color)
	return img
}

// downsample scales the supersampled raster to its final size through
// premultiplied alpha, so transparent edges pick up no dark halo.
func downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}

	premul := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := premul.PixOffset(x, y)
			a := float64(img.Pix[si+3]) / 255.0
			premul.Pix[di] = uint8(float64(img.Pix[si])*a + 0.5)
			premul.Pix[di+1] = uint8(float64(img.Pix[si+1])*a + 0.5)
			premul.Pix[di+2] = uint8(float64(img.Pix[si+2])*a + 0.5)
			premul.Pix[di+3] = img.Pix[si+3]
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	out := image.NewNRGBA(dst.Bounds())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := dst.PixOffset(x, y)
			di := out.PixOffset(x, y)
			a := float64(dst.Pix[si+3])
			if a > 1 {
				inv := 255.0 / a
				out.Pix[di] = channel(float64(dst.Pix[si]) * inv / 255)
				out.Pix[di+1] = channel(float64(dst.Pix[si+1]) * inv / 255)
				out.Pix[di+2] = channel(float64(dst.Pix[si+2]) * inv / 255)
			}
			out.Pix[di+3] = dst.Pix[si+3]
		}
	}
	return out
}

// channel converts a [0, 1] value to a byte, clamping overshoot.
func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
