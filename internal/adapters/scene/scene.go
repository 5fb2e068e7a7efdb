// Package scene is an in-process host: a small procedural rig-and-mesh
// population with parametric animation. It stands in for a real DCC scene
// so the rest of the system can evaluate, fingerprint, and react to edits
// without a host integration.
package scene

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports"
	"go.keyframe.sh/onion/internal/mathutil"
	"go.trai.ch/zerr"
)

// ErrScriptedFailure is what Evaluate returns for (object, frame) pairs
// registered through WithFailOn.
var ErrScriptedFailure = zerr.New("scripted evaluation failure")

var errNotArmature = zerr.New("object is not an armature")

// eventBuffer sizes subscriber channels. A full subscriber drops events;
// the cache re-validates fingerprints on every lookup, so a lost event
// costs one recompute, never a stale ghost.
const eventBuffer = 64

// poseNudgeStep is how far one Pose call swings every bone, in radians.
const poseNudgeStep = 0.15

type failKey struct {
	id    domain.ObjectID
	frame int
}

// object is one scene member. The rig and mesh payloads are immutable
// after construction; mutable state (versions, drift, edit count, pose
// nudge) lives in fields guarded by the scene lock.
type object struct {
	state domain.ObjectState
	rig   *rig
	mesh  *mesh

	// drift accumulates Move deltas, edits counts Edit calls.
	drift mathutil.Vec3
	edits int
}

var (
	_ ports.Evaluator   = (*Scene)(nil)
	_ ports.StateSource = (*Scene)(nil)
	_ ports.Events      = (*Scene)(nil)
)

// Scene is the demo host. It satisfies the evaluation, state, and event
// ports, and exposes the mutators (Edit, Pose, Move, Remove, Scrub) that a
// real host would fire from user actions.
//
// All methods are safe for concurrent use.
type Scene struct {
	mu      sync.RWMutex
	objects map[domain.ObjectID]*object
	order   []domain.ObjectID
	frame   int

	evalDelay time.Duration
	failOn    map[failKey]struct{}
	evals     atomic.Int64

	subMu   sync.Mutex
	subs    map[uint64]chan domain.ChangeEvent
	nextSub uint64
}

// Option configures a Scene.
type Option func(*Scene)

// WithEvalDelay makes every Evaluate call take d, simulating real
// dependency-graph cost. Zero means immediate.
func WithEvalDelay(d time.Duration) Option {
	return func(s *Scene) {
		if d < 0 {
			d = 0
		}
		s.evalDelay = d
	}
}

// WithFailOn makes Evaluate fail for one (object, frame) pair.
func WithFailOn(id domain.ObjectID, frame int) Option {
	return func(s *Scene) {
		s.failOn[failKey{id: id, frame: frame}] = struct{}{}
	}
}

// New builds the demo population: two animated bone rigs each deforming a
// skinned tube, plus one free bouncing mesh.
func New(opts ...Option) *Scene {
	s := &Scene{
		objects: make(map[domain.ObjectID]*object),
		failOn:  make(map[failKey]struct{}),
		subs:    make(map[uint64]chan domain.ChangeEvent),
		frame:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.populate()
	return s
}

// State implements ports.StateSource.
func (s *Scene) State(id domain.ObjectID) (domain.ObjectState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[id]
	if !ok {
		return domain.ObjectState{}, zerr.With(domain.ErrUnknownObject, "object", id.String())
	}
	return obj.state, nil
}

// Children implements ports.StateSource. Order follows scene insertion
// order, so repeated calls agree.
func (s *Scene) Children(id domain.ObjectID) []domain.ObjectID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ObjectID
	for _, other := range s.order {
		st := s.objects[other].state
		if st.HasParent && st.Parent == id {
			out = append(out, other)
		}
	}
	return out
}

// Objects implements ports.StateSource.
func (s *Scene) Objects() []domain.ObjectID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ObjectID, len(s.order))
	copy(out, s.order)
	return out
}

// Roots returns the top-level objects, the natural set to track: rigs and
// unparented meshes, in insertion order.
func (s *Scene) Roots() []domain.ObjectID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ObjectID
	for _, id := range s.order {
		if !s.objects[id].state.HasParent {
			out = append(out, id)
		}
	}
	return out
}

// Frame returns the playhead position.
func (s *Scene) Frame() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// Evals returns how many evaluations have run. Cache tests and the stats
// command use it to tell hits from recomputes.
func (s *Scene) Evals() int64 {
	return s.evals.Load()
}

// Evaluate implements ports.Evaluator: it poses the object at the frame
// and returns a world-space snapshot. Armatures yield their bone chain as
// a wire (positions and edges only); meshes yield skinned or transformed
// triangles.
func (s *Scene) Evaluate(ctx context.Context, id domain.ObjectID, frame int) (*domain.Geometry, error) {
	if ctx.Err() != nil {
		return nil, zerr.Wrap(context.Cause(ctx), "evaluation cancelled")
	}

	snap, err := s.snapshot(id)
	if err != nil {
		return nil, err
	}

	s.evals.Add(1)
	if s.evalDelay > 0 {
		select {
		case <-time.After(s.evalDelay):
		case <-ctx.Done():
			return nil, zerr.Wrap(context.Cause(ctx), "evaluation cancelled")
		}
	}
	if _, fail := s.failOn[failKey{id: id, frame: frame}]; fail {
		return nil, zerr.With(zerr.With(ErrScriptedFailure, "object", id.String()), "frame", frame)
	}

	geo := snap.evaluate(frame)
	geo.Object = id
	geo.Frame = frame
	return geo, nil
}

// snapshot copies everything an evaluation needs under the read lock, so
// the math can run unlocked. Rig and mesh payloads are immutable; only
// the small mutable values are copied.
func (s *Scene) snapshot(id domain.ObjectID) (*evalSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[id]
	if !ok {
		return nil, zerr.With(domain.ErrUnknownObject, "object", id.String())
	}

	snap := &evalSnapshot{
		kind:  obj.state.Kind,
		drift: obj.drift,
		grow:  growFactor(obj.edits),
	}
	if obj.rig != nil {
		r := *obj.rig
		snap.rig = &r
	}
	if obj.mesh != nil {
		snap.mesh = obj.mesh
	}

	if obj.state.Kind == domain.KindMesh && obj.state.HasParent {
		parent, ok := s.objects[obj.state.Parent]
		if !ok || parent.rig == nil {
			return nil, zerr.With(zerr.With(domain.ErrUnknownObject,
				"object", id.String()), "armature", obj.state.Parent.String())
		}
		r := *parent.rig
		snap.parentRig = &r
		snap.parentDrift = parent.drift
		snap.parentGrow = growFactor(parent.edits)
	}
	return snap, nil
}

// Edit simulates a data edit: topology, modifier stack, anything that
// changes the object's own data. The geometry grows a little so repeated
// edits stay observable.
func (s *Scene) Edit(id domain.ObjectID) error {
	s.mu.Lock()
	obj, ok := s.objects[id]
	if !ok {
		s.mu.Unlock()
		return zerr.With(domain.ErrUnknownObject, "object", id.String())
	}
	obj.edits++
	obj.state.DataVersion++
	s.mu.Unlock()

	s.emit(domain.ChangeEvent{Kind: domain.EventObjectEdited, Object: id})
	return nil
}

// Pose swings every bone of an armature a bit further and bumps the pose
// version. Meshes cannot be posed.
func (s *Scene) Pose(id domain.ObjectID) error {
	s.mu.Lock()
	obj, ok := s.objects[id]
	if !ok {
		s.mu.Unlock()
		return zerr.With(domain.ErrUnknownObject, "object", id.String())
	}
	if obj.rig == nil {
		s.mu.Unlock()
		return zerr.With(errNotArmature, "object", id.String())
	}
	obj.rig.nudge += poseNudgeStep
	obj.state.PoseVersion++
	s.mu.Unlock()

	s.emit(domain.ChangeEvent{Kind: domain.EventPoseChanged, Object: id})
	return nil
}

// Move shifts the object's anchor in world space. A transform change
// alters world-space snapshots, so it counts as a data change for
// fingerprinting.
func (s *Scene) Move(id domain.ObjectID, delta mathutil.Vec3) error {
	s.mu.Lock()
	obj, ok := s.objects[id]
	if !ok {
		s.mu.Unlock()
		return zerr.With(domain.ErrUnknownObject, "object", id.String())
	}
	obj.drift = obj.drift.Add(delta)
	obj.state.DataVersion++
	s.mu.Unlock()

	s.emit(domain.ChangeEvent{Kind: domain.EventTransformChanged, Object: id})
	return nil
}

// Remove deletes the object. Meshes skinned to a removed rig stop
// evaluating; the draw path notices and drops them.
func (s *Scene) Remove(id domain.ObjectID) error {
	s.mu.Lock()
	if _, ok := s.objects[id]; !ok {
		s.mu.Unlock()
		return zerr.With(domain.ErrUnknownObject, "object", id.String())
	}
	delete(s.objects, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.emit(domain.ChangeEvent{Kind: domain.EventObjectRemoved, Object: id})
	return nil
}

// Scrub moves the playhead and announces it.
func (s *Scene) Scrub(frame int) {
	s.mu.Lock()
	s.frame = frame
	s.mu.Unlock()

	s.emit(domain.ChangeEvent{Kind: domain.EventFrameChanged, Frame: frame})
}

// Subscribe implements ports.Events. The channel closes when ctx is done.
func (s *Scene) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	ch := make(chan domain.ChangeEvent, eventBuffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	go func() {
		<-ctx.Done()
		s.subMu.Lock()
		delete(s.subs, id)
		close(ch)
		s.subMu.Unlock()
	}()
	return ch, nil
}

// emit delivers an event to every subscriber. Sends never block: a full
// subscriber misses the event and the fingerprint check picks up the slack.
func (s *Scene) emit(ev domain.ChangeEvent) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Scene) add(name string, st domain.ObjectState, r *rig, m *mesh) domain.ObjectID {
	id := domain.NewObjectID(name)
	s.objects[id] = &object{state: st, rig: r, mesh: m}
	s.order = append(s.order, id)
	return id
}

// growFactor converts an edit count into a geometry scale.
func growFactor(edits int) float64 {
	return 1 + 0.05*float64(edits)
}
