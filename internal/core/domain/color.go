package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"go.trai.ch/zerr"
)

// RGBA is a straight-alpha color with components in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// ParseHex reads a "#rrggbb" or "#rrggbbaa" color string. A missing
// alpha component defaults to fully opaque.
func ParseHex(s string) (RGBA, error) {
	hex := strings.ToLower(strings.TrimSpace(s))
	if len(hex) != 4 && len(hex) != 7 && len(hex) != 9 {
		return RGBA{}, zerr.With(ErrBadColor, "value", s)
	}
	alpha := 1.0
	if strings.HasPrefix(hex, "#") && len(hex) == 9 {
		a, err := strconv.ParseUint(hex[7:9], 16, 8)
		if err != nil {
			return RGBA{}, zerr.With(ErrBadColor, "value", s)
		}
		alpha = float64(a) / 255
		hex = hex[:7]
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return RGBA{}, zerr.With(ErrBadColor, "value", s)
	}
	return RGBA{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// Hex renders the color as "#rrggbbaa".
func (c RGBA) Hex() string {
	cl := colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
	return fmt.Sprintf("%s%02x", cl.Hex(), uint8(clamp01(c.A)*255+0.5))
}

// Lerp blends toward other by t in [0, 1]. Color channels travel through
// HCL space so midpoints stay perceptually between the endpoints; alpha
// interpolates linearly.
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	t = clamp01(t)
	a := colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
	b := colorful.Color{R: clamp01(other.R), G: clamp01(other.G), B: clamp01(other.B)}
	m := a.BlendHcl(b, t).Clamped()
	return RGBA{R: m.R, G: m.G, B: m.B, A: c.A + (other.A-c.A)*t}
}

// Clamped returns the color with every component clamped to [0, 1].
func (c RGBA) Clamped() RGBA {
	return RGBA{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
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
