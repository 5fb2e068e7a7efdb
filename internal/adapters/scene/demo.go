package scene

import (
	"math"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/mathutil"
)

// bone is one link in a straight chain rig. Each bone's head sits at its
// parent's tail; the swing angle follows a sine of the frame number.
type bone struct {
	length float64
	amp    float64 // swing amplitude, radians
	period float64 // frames per full cycle
	phase  float64
	axis   int // 0 swings about Z, 1 about X
}

// rig is a chain of bones rooted at origin. Bones are immutable after
// construction; nudge is the accumulated Pose offset.
type rig struct {
	origin mathutil.Vec3
	bones  []bone
	nudge  float64
}

// pose returns world matrices per bone at the given frame. grow scales
// bone lengths, anchor replaces the rest origin (drift applied by the
// caller).
func (r *rig) pose(frame int, anchor mathutil.Vec3, grow float64) []mathutil.Mat4 {
	worlds := make([]mathutil.Mat4, len(r.bones))
	parent := mathutil.Mat4Translate(anchor)
	offset := mathutil.Vec3{}
	for i, b := range r.bones {
		angle := b.amp*math.Sin(2*math.Pi*float64(frame)/b.period+b.phase) + r.nudge
		rot := mathutil.Mat4RotateZ(angle)
		if b.axis == 1 {
			rot = mathutil.Mat4RotateX(angle)
		}
		local := mathutil.Mat4Mul(mathutil.Mat4Translate(offset), rot)
		worlds[i] = mathutil.Mat4Mul(parent, local)
		parent = worlds[i]
		offset = mathutil.Vec3{0, b.length * grow, 0}
	}
	return worlds
}

// restHeads returns each bone's head position in rig-local space at rest:
// a straight chain up the Y axis.
func (r *rig) restHeads() []mathutil.Vec3 {
	heads := make([]mathutil.Vec3, len(r.bones))
	y := 0.0
	for i, b := range r.bones {
		heads[i] = mathutil.Vec3{0, y, 0}
		y += b.length
	}
	return heads
}

// restCenters returns each bone's midpoint in rig-local space at rest.
// Vertex weights bind to the nearest center.
func (r *rig) restCenters() []mathutil.Vec3 {
	centers := r.restHeads()
	for i, b := range r.bones {
		centers[i] = centers[i].Add(mathutil.Vec3{0, b.length / 2, 0})
	}
	return centers
}

// mesh is an immutable rest-pose surface in object-local coordinates.
// weights holds the nearest-bone index per vertex for skinned meshes and
// is nil for free meshes.
type mesh struct {
	base      []mathutil.Vec3
	normals   []mathutil.Vec3
	triangles []uint32
	edges     []uint32
	weights   []int
	home      mathutil.Vec3 // world anchor for free meshes
}

// evalSnapshot is the lock-free copy of one object's evaluation inputs.
type evalSnapshot struct {
	kind  domain.ObjectKind
	rig   *rig
	mesh  *mesh
	drift mathutil.Vec3
	grow  float64

	// Deforming rig of a skinned mesh, nil otherwise.
	parentRig   *rig
	parentDrift mathutil.Vec3
	parentGrow  float64
}

// evaluate runs the pose-and-deform math for one frame.
func (snap *evalSnapshot) evaluate(frame int) *domain.Geometry {
	switch {
	case snap.kind == domain.KindArmature:
		return snap.evaluateWire(frame)
	case snap.parentRig != nil:
		return snap.evaluateSkinned(frame)
	default:
		return snap.evaluateFree(frame)
	}
}

// evaluateWire returns the posed bone chain as joints and connecting
// edges. Armatures have no surface, so no normals and no triangles.
func (snap *evalSnapshot) evaluateWire(frame int) *domain.Geometry {
	r := snap.rig
	anchor := r.origin.Add(snap.drift)
	worlds := r.pose(frame, anchor, snap.grow)

	joints := make([]mathutil.Vec3, 0, len(r.bones)+1)
	joints = append(joints, anchor)
	for i, b := range r.bones {
		joints = append(joints, worlds[i].MulPoint(mathutil.Vec3{0, b.length * snap.grow, 0}))
	}

	edges := make([]uint32, 0, 2*len(r.bones))
	for i := 0; i < len(r.bones); i++ {
		edges = append(edges, uint32(i), uint32(i+1))
	}
	return &domain.Geometry{Positions: joints, Edges: edges}
}

// evaluateSkinned deforms the rest mesh by its rig: rigid one-bone
// skinning, each vertex carried from its rest offset by the bone's world
// matrix.
func (snap *evalSnapshot) evaluateSkinned(frame int) *domain.Geometry {
	m := snap.mesh
	r := snap.parentRig
	anchor := r.origin.Add(snap.parentDrift)
	worlds := r.pose(frame, anchor, snap.parentGrow)
	heads := r.restHeads()

	positions := make([]mathutil.Vec3, len(m.base))
	normals := make([]mathutil.Vec3, len(m.normals))
	for i, v := range m.base {
		bi := m.weights[i]
		rest := v.Scale(snap.grow).Sub(heads[bi])
		positions[i] = worlds[bi].MulPoint(rest)
		normals[i] = worlds[bi].MulDir(m.normals[i])
	}
	return &domain.Geometry{
		Positions: positions,
		Normals:   normals,
		Triangles: m.triangles,
		Edges:     m.edges,
	}
}

// Free-mesh animation: a bounce on Y with a slow spin.
const (
	bobAmp     = 1.1
	bobPeriod  = 24.0
	spinPeriod = 48.0
)

// evaluateFree transforms an unskinned mesh by its bounce-and-spin curve.
func (snap *evalSnapshot) evaluateFree(frame int) *domain.Geometry {
	m := snap.mesh
	bob := bobAmp * math.Abs(math.Sin(math.Pi*float64(frame)/bobPeriod))
	spin := mathutil.Mat4RotateY(2 * math.Pi * float64(frame) / spinPeriod)
	world := mathutil.Mat4Mul(
		mathutil.Mat4Translate(m.home.Add(snap.drift).Add(mathutil.Vec3{0, bob, 0})),
		mathutil.Mat4Mul(spin, mathutil.Mat4Scale(snap.grow)),
	)

	positions := make([]mathutil.Vec3, len(m.base))
	normals := make([]mathutil.Vec3, len(m.normals))
	for i, v := range m.base {
		positions[i] = world.MulPoint(v)
		normals[i] = spin.MulDir(m.normals[i])
	}
	return &domain.Geometry{
		Positions: positions,
		Normals:   normals,
		Triangles: m.triangles,
		Edges:     m.edges,
	}
}

// populate builds the demo cast: a three-bone hero rig and a two-bone
// prop rig, each deforming a tube, plus a free bouncing ball.
func (s *Scene) populate() {
	heroRig := &rig{
		origin: mathutil.Vec3{0, 0, 0},
		bones: []bone{
			{length: 1.0, amp: 0.45, period: 24, phase: 0, axis: 0},
			{length: 0.8, amp: 0.35, period: 18, phase: 0.7, axis: 1},
			{length: 0.6, amp: 0.55, period: 12, phase: 1.3, axis: 0},
		},
	}
	propRig := &rig{
		origin: mathutil.Vec3{2.4, 0, 0},
		bones: []bone{
			{length: 0.9, amp: 0.3, period: 36, phase: 0.4, axis: 1},
			{length: 0.7, amp: 0.5, period: 20, phase: 1.9, axis: 0},
		},
	}

	hero := s.add("rig.hero", domain.ObjectState{
		Kind: domain.KindArmature, DataVersion: 1, PoseVersion: 1,
	}, heroRig, nil)
	s.add("mesh.hero", domain.ObjectState{
		Kind: domain.KindMesh, DataVersion: 1,
		ModifierSig: "armature:rig.hero", Parent: hero, HasParent: true,
	}, nil, buildTube(heroRig, 8, 3, 0.22))

	prop := s.add("rig.prop", domain.ObjectState{
		Kind: domain.KindArmature, DataVersion: 1, PoseVersion: 1,
	}, propRig, nil)
	s.add("mesh.prop", domain.ObjectState{
		Kind: domain.KindMesh, DataVersion: 1,
		ModifierSig: "armature:rig.prop", Parent: prop, HasParent: true,
	}, nil, buildTube(propRig, 6, 2, 0.16))

	s.add("mesh.ball", domain.ObjectState{
		Kind: domain.KindMesh, DataVersion: 1,
	}, nil, buildBall(0.5, mathutil.Vec3{-2.2, 0.6, 0}))
}

// buildTube wraps a rig in an open cylinder: rings of sides vertices from
// the chain base to its rest tip, each vertex bound to the nearest bone.
func buildTube(r *rig, sides, ringsPerBone int, radius float64) *mesh {
	total := 0.0
	for _, b := range r.bones {
		total += b.length
	}
	rings := ringsPerBone*len(r.bones) + 1
	centers := r.restCenters()

	m := &mesh{
		base:    make([]mathutil.Vec3, 0, rings*sides),
		normals: make([]mathutil.Vec3, 0, rings*sides),
		weights: make([]int, 0, rings*sides),
	}
	for k := 0; k < rings; k++ {
		y := total * float64(k) / float64(rings-1)
		for j := 0; j < sides; j++ {
			a := 2 * math.Pi * float64(j) / float64(sides)
			p := mathutil.Vec3{radius * math.Cos(a), y, radius * math.Sin(a)}
			m.base = append(m.base, p)
			m.normals = append(m.normals, mathutil.Vec3{math.Cos(a), 0, math.Sin(a)})
			m.weights = append(m.weights, nearestBone(p, centers))
		}
	}

	for k := 0; k+1 < rings; k++ {
		for j := 0; j < sides; j++ {
			jn := (j + 1) % sides
			a := uint32(k*sides + j)
			b := uint32(k*sides + jn)
			c := uint32((k+1)*sides + j)
			d := uint32((k+1)*sides + jn)
			m.triangles = append(m.triangles, a, b, c, b, d, c)
			m.edges = append(m.edges, a, b, a, c)
		}
	}
	// The top ring has no ring above to stitch its horizontal edges.
	for j := 0; j < sides; j++ {
		jn := (j + 1) % sides
		m.edges = append(m.edges, uint32((rings-1)*sides+j), uint32((rings-1)*sides+jn))
	}
	return m
}

func nearestBone(p mathutil.Vec3, centers []mathutil.Vec3) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range centers {
		d := p.Sub(c)
		if dist := d.Dot(d); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// buildBall returns an octahedron of the given radius, anchored at home.
func buildBall(radius float64, home mathutil.Vec3) *mesh {
	base := []mathutil.Vec3{
		{radius, 0, 0}, {-radius, 0, 0},
		{0, radius, 0}, {0, -radius, 0},
		{0, 0, radius}, {0, 0, -radius},
	}
	normals := make([]mathutil.Vec3, len(base))
	for i, v := range base {
		normals[i] = v.Normalize()
	}
	return &mesh{
		base:    base,
		normals: normals,
		triangles: []uint32{
			0, 2, 4, 2, 1, 4, 1, 3, 4, 3, 0, 4,
			2, 0, 5, 1, 2, 5, 3, 1, 5, 0, 3, 5,
		},
		edges: []uint32{
			0, 2, 0, 3, 0, 4, 0, 5,
			1, 2, 1, 3, 1, 4, 1, 5,
			2, 4, 2, 5, 3, 4, 3, 5,
		},
		home: home,
	}
}
