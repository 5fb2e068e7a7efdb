package domain

import (
	"go.keyframe.sh/onion/internal/mathutil"
	"go.trai.ch/zerr"
)

// CacheKey addresses one ghost: object identity, frame, and the content
// fingerprint that was current when the entry was computed. A stale
// fingerprint simply never matches again; the entry ages out by LRU.
type CacheKey struct {
	Object ObjectID
	Frame  int
	Print  Fingerprint
}

// Geometry is an immutable world-space snapshot of one object evaluated at
// one frame. Instances are never mutated after creation, so callers may
// keep the pointer across cache evictions; the memory lives as long as
// someone holds it.
//
// Both triangle and edge index sets are captured at evaluation time so
// switching between solid and wireframe ghosts is a draw-mode change, not
// a re-evaluation.
type Geometry struct {
	Object ObjectID
	Frame  int
	Print  Fingerprint

	Positions []mathutil.Vec3
	Normals   []mathutil.Vec3
	// Triangles holds index triples into Positions.
	Triangles []uint32
	// Edges holds index pairs into Positions.
	Edges []uint32
}

// Validate checks index alignment and bounds.
func (g *Geometry) Validate() error {
	if len(g.Triangles)%3 != 0 {
		return zerr.With(ErrInvalidGeometry, "reason", "triangle indices not a multiple of 3")
	}
	if len(g.Edges)%2 != 0 {
		return zerr.With(ErrInvalidGeometry, "reason", "edge indices not a multiple of 2")
	}
	if len(g.Normals) != 0 && len(g.Normals) != len(g.Positions) {
		return zerr.With(ErrInvalidGeometry, "reason", "normal count does not match position count")
	}
	n := uint32(len(g.Positions))
	for _, idx := range g.Triangles {
		if idx >= n {
			return zerr.With(ErrInvalidGeometry, "reason", "triangle index out of range")
		}
	}
	for _, idx := range g.Edges {
		if idx >= n {
			return zerr.With(ErrInvalidGeometry, "reason", "edge index out of range")
		}
	}
	return nil
}

// ApproxBytes estimates the memory held by the snapshot. Used for cache
// accounting only; not exact.
func (g *Geometry) ApproxBytes() int {
	const vec3Bytes = 24
	return len(g.Positions)*vec3Bytes +
		len(g.Normals)*vec3Bytes +
		len(g.Triangles)*4 +
		len(g.Edges)*4
}
