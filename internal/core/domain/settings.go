package domain

import "go.trai.ch/zerr"

// FalloffCurve selects how ghost opacity fades with distance from the
// playhead.
type FalloffCurve uint8

const (
	// FalloffLinear fades proportionally to distance.
	FalloffLinear FalloffCurve = iota
	// FalloffSmooth fades along a smoothstep curve, gentle near the
	// playhead and near the far end.
	FalloffSmooth
	// FalloffExponential fades quadratically, keeping only the nearest
	// ghosts prominent.
	FalloffExponential
)

// String returns the curve name as used in configuration files.
func (f FalloffCurve) String() string {
	switch f {
	case FalloffLinear:
		return "linear"
	case FalloffExponential:
		return "exponential"
	default:
		return "smooth"
	}
}

// ParseFalloff maps a configuration name to a curve.
func ParseFalloff(s string) (FalloffCurve, error) {
	switch s {
	case "linear":
		return FalloffLinear, nil
	case "smooth":
		return FalloffSmooth, nil
	case "exponential":
		return FalloffExponential, nil
	default:
		return FalloffSmooth, zerr.With(ErrUnknownFalloff, "value", s)
	}
}

// Settings is the full onion-skin configuration. It is a value type:
// engines copy it at the start of an operation and never observe a
// mid-operation change. Changing settings never invalidates cached
// ghosts; sampling, style, and draw mode all re-derive on the next redraw.
type Settings struct {
	Enabled bool

	// CountBefore and CountAfter are how many ghosts to show on each side
	// of the playhead.
	CountBefore int
	CountAfter  int
	// Step is the keyframe stride between consecutive ghosts.
	Step int

	ShowBefore bool
	ShowAfter  bool

	// UseFrameRange restricts ghosts to [RangeStart, RangeEnd]. Frames
	// outside the range are dropped, never clamped to the edge.
	UseFrameRange bool
	RangeStart    int
	RangeEnd      int

	ColorBefore RGBA
	ColorAfter  RGBA

	// BaseOpacity scales every ghost before falloff is applied.
	BaseOpacity float64
	Falloff     FalloffCurve

	Wireframe bool
	XRay      bool
	// InFront paints ghosts over everything, ignoring depth entirely.
	InFront bool

	// IncludeChildren extends armature ghosts (and armature invalidation)
	// to the meshes the armature deforms.
	IncludeChildren bool

	// CacheCapacity is the maximum number of ghosts kept in memory.
	// Zero means unlimited.
	CacheCapacity int

	// Track names the objects to onion-skin. Empty means every top-level
	// object in the scene.
	Track []ObjectID
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		Enabled:         false,
		CountBefore:     3,
		CountAfter:      3,
		Step:            2,
		ShowBefore:      true,
		ShowAfter:       true,
		UseFrameRange:   false,
		RangeStart:      1,
		RangeEnd:        250,
		ColorBefore:     RGBA{R: 0.2, G: 0.5, B: 1.0, A: 0.5},
		ColorAfter:      RGBA{R: 1.0, G: 0.3, B: 0.2, A: 0.5},
		BaseOpacity:     0.5,
		Falloff:         FalloffSmooth,
		Wireframe:       false,
		XRay:            true,
		InFront:         false,
		IncludeChildren: true,
		CacheCapacity:   500,
	}
}

// Normalize clamps out-of-range values instead of rejecting them: negative
// counts become zero, step is at least one, an inverted frame range is
// swapped, and opacity is clamped to [0, 1].
func (s Settings) Normalize() Settings {
	if s.CountBefore < 0 {
		s.CountBefore = 0
	}
	if s.CountAfter < 0 {
		s.CountAfter = 0
	}
	if s.Step < 1 {
		s.Step = 1
	}
	if s.RangeStart > s.RangeEnd {
		s.RangeStart, s.RangeEnd = s.RangeEnd, s.RangeStart
	}
	if s.BaseOpacity < 0 {
		s.BaseOpacity = 0
	}
	if s.BaseOpacity > 1 {
		s.BaseOpacity = 1
	}
	if s.CacheCapacity < 0 {
		s.CacheCapacity = 0
	}
	s.ColorBefore = s.ColorBefore.Clamped()
	s.ColorAfter = s.ColorAfter.Clamped()
	return s
}
