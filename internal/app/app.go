// Package app implements the application layer for onion.
package app

import (
	"context"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports"
	"go.keyframe.sh/onion/internal/engine/bake"
	"go.keyframe.sh/onion/internal/engine/ghostcache"
	"go.keyframe.sh/onion/internal/engine/invalidator"
	"go.keyframe.sh/onion/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// Host is the scene a session drives: the read model the engines
// consume plus the edit surface the commands exercise.
type Host interface {
	ports.StateSource
	ports.Events
	// Roots lists the top-level objects, the default tracking set.
	Roots() []domain.ObjectID
	// Frame reports the playhead.
	Frame() int
	// Evals counts geometry evaluations since startup.
	Evals() int64
	// Scrub moves the playhead.
	Scrub(frame int)
	// Edit bumps an object's geometry version.
	Edit(id domain.ObjectID) error
	// Pose nudges an armature's pose.
	Pose(id domain.ObjectID) error
}

// ReferenceFeeder is implemented by draw targets that paint the
// current-frame geometry under the ghosts.
type ReferenceFeeder interface {
	SetReference(geos ...*domain.Geometry)
}

// App wires settings, scene, and engines into the operations the CLI
// exposes.
type App struct {
	settings ports.SettingsStore
	pipeline *pipeline.Pipeline
	cache    *ghostcache.Cache
	scene    Host
	reporter ports.Reporter
	log      ports.Logger
}

// New creates an App.
func New(
	settings ports.SettingsStore,
	pl *pipeline.Pipeline,
	cache *ghostcache.Cache,
	sc Host,
	reporter ports.Reporter,
	log ports.Logger,
) *App {
	return &App{
		settings: settings,
		pipeline: pl,
		cache:    cache,
		scene:    sc,
		reporter: reporter,
		log:      log,
	}
}

// LoadSettings reads the overlay configuration from path and resizes
// the ghost cache to match. An empty path means defaults.
func (a *App) LoadSettings(path string) (domain.Settings, error) {
	set, err := a.settings.Load(path)
	if err != nil {
		return domain.Settings{}, err
	}
	a.cache.SetCapacity(set.CacheCapacity)
	return set, nil
}

// Render draws one onion-skin overlay for frame onto target. An
// explicit render request overrides a disabled config; the enabled
// flag gates the implicit redraw and precache paths, not this one.
func (a *App) Render(ctx context.Context, target ports.DrawTarget, frame int, set domain.Settings) error {
	set = set.Normalize()
	set.Enabled = true

	a.scene.Scrub(frame)
	roots := a.roots(set)

	// Targets that can show the scene itself get the current-frame
	// geometry of every tracked object, children included.
	if feeder, ok := target.(ReferenceFeeder); ok {
		feeder.SetReference(a.referenceGeometry(ctx, roots, frame)...)
	}

	return a.pipeline.RenderFrame(ctx, target, frame, set, roots)
}

// BakeOptions shape one bake run.
type BakeOptions struct {
	// Frames is the explicit frame list. Empty bakes the configured
	// frame range.
	Frames  []int
	Workers int
	// Rebake recomputes ghosts that are already cached.
	Rebake bool
	// Reporter observes progress. Nil uses the app default.
	Reporter ports.Reporter
}

// Bake warms every tracked ghost for the requested frames. The report
// says what was computed, what was already warm, and what failed.
func (a *App) Bake(ctx context.Context, set domain.Settings, opts BakeOptions) (domain.BakeReport, error) {
	set = set.Normalize()

	frames := opts.Frames
	if len(frames) == 0 {
		for f := set.RangeStart; f <= set.RangeEnd; f += set.Step {
			frames = append(frames, f)
		}
	}

	objects := pipeline.ExpandObjects(a.scene, a.roots(set), set.IncludeChildren)
	reporter := opts.Reporter
	if reporter == nil {
		reporter = a.reporter
	}

	// Controllers are single-use; each bake gets a fresh one.
	ctl := bake.New(a.cache, reporter, a.log)
	return ctl.Run(ctx, bake.Request{
		Objects: objects,
		Frames:  frames,
		Current: a.scene.Frame(),
		Workers: opts.Workers,
		Rebake:  opts.Rebake,
	})
}

// ScrubOptions shape one scrub session.
type ScrubOptions struct {
	From, To int
	Workers  int
	// PoseEvery fires a pose edit every n visited frames to exercise
	// invalidation mid-scrub. Zero leaves the scene untouched.
	PoseEvery int
}

// Scrub sweeps the playhead from From to To, warming ghosts around each
// visited frame and applying scene change events to the cache as they
// arrive. Returns the cache counters accumulated across the sweep.
func (a *App) Scrub(ctx context.Context, set domain.Settings, opts ScrubOptions) (domain.CacheStats, error) {
	set = set.Normalize()
	set.Enabled = true

	events, err := a.scene.Subscribe(ctx)
	if err != nil {
		return a.cache.Stats(), zerr.Wrap(err, "failed to subscribe to scene events")
	}

	keep := max(set.CountBefore, set.CountAfter)*set.Step + pipeline.LookAhead
	inv := invalidator.New(a.cache, a.scene, a.log, invalidator.WithKeepRadius(keep))

	roots := a.roots(set)
	rigs := a.armatures(roots)

	step := 1
	if opts.To < opts.From {
		step = -1
	}

	visited := 0
	for f := opts.From; ; f += step {
		if ctx.Err() != nil {
			return a.cache.Stats(), zerr.Wrap(context.Cause(ctx), "scrub interrupted")
		}

		a.scene.Scrub(f)
		visited++
		if opts.PoseEvery > 0 && len(rigs) > 0 && visited%opts.PoseEvery == 0 {
			rig := rigs[(visited/opts.PoseEvery-1)%len(rigs)]
			if err := a.scene.Pose(rig); err != nil {
				a.log.Warn("pose nudge failed", "object", rig.String(), "error", err.Error())
			}
		}

		drainEvents(inv, events)
		a.pipeline.Precache(ctx, f, set, roots, 0, opts.Workers)

		if f == opts.To {
			break
		}
	}
	drainEvents(inv, events)

	a.log.Info("scrub finished", "from", opts.From, "to", opts.To, "frames", visited)
	return a.cache.Stats(), nil
}

// SessionStats summarizes a short scripted editing session.
type SessionStats struct {
	Cache   domain.CacheStats
	Objects int
	// Evals counts geometry evaluations the scene performed. The gap
	// between this and cache misses is work the cache absorbed.
	Evals int64
}

// Stats runs a scripted session against the scene: a cold overlay, a
// warm repeat, an edit that stales one object, and a redraw. The
// returned counters show how much evaluation the cache absorbed.
func (a *App) Stats(ctx context.Context, set domain.Settings) (SessionStats, error) {
	set = set.Normalize()
	set.Enabled = true

	events, err := a.scene.Subscribe(ctx)
	if err != nil {
		return SessionStats{}, zerr.Wrap(err, "failed to subscribe to scene events")
	}
	inv := invalidator.New(a.cache, a.scene, a.log)

	roots := a.roots(set)
	frame := a.scene.Frame()
	target := discardTarget{}

	if err := a.pipeline.RenderFrame(ctx, target, frame, set, roots); err != nil {
		return SessionStats{}, zerr.Wrap(err, "cold overlay failed")
	}
	if err := a.pipeline.RenderFrame(ctx, target, frame, set, roots); err != nil {
		return SessionStats{}, zerr.Wrap(err, "warm overlay failed")
	}

	if id, ok := a.firstMesh(roots, set.IncludeChildren); ok {
		if err := a.scene.Edit(id); err != nil {
			return SessionStats{}, zerr.Wrap(err, "scene edit failed")
		}
		drainEvents(inv, events)
		if err := a.pipeline.RenderFrame(ctx, target, frame, set, roots); err != nil {
			return SessionStats{}, zerr.Wrap(err, "overlay after edit failed")
		}
	}

	return SessionStats{
		Cache:   a.cache.Stats(),
		Objects: len(a.scene.Objects()),
		Evals:   a.scene.Evals(),
	}, nil
}

// roots picks the tracked objects: the configured set when one is
// given, every top-level object otherwise.
func (a *App) roots(set domain.Settings) []domain.ObjectID {
	if len(set.Track) > 0 {
		return set.Track
	}
	return a.scene.Roots()
}

func (a *App) referenceGeometry(ctx context.Context, roots []domain.ObjectID, frame int) []*domain.Geometry {
	leaves := pipeline.ExpandObjects(a.scene, roots, true)
	geos := make([]*domain.Geometry, 0, len(leaves))
	for _, id := range leaves {
		geo, err := a.cache.GetOrCompute(ctx, id, frame)
		if err != nil {
			a.log.Warn("reference snapshot unavailable",
				"object", id.String(), "frame", frame, "error", err.Error())
			continue
		}
		geos = append(geos, geo)
	}
	return geos
}

func (a *App) armatures(roots []domain.ObjectID) []domain.ObjectID {
	var rigs []domain.ObjectID
	for _, id := range roots {
		if st, err := a.scene.State(id); err == nil && st.Kind == domain.KindArmature {
			rigs = append(rigs, id)
		}
	}
	return rigs
}

func (a *App) firstMesh(roots []domain.ObjectID, includeChildren bool) (domain.ObjectID, bool) {
	for _, id := range pipeline.ExpandObjects(a.scene, roots, includeChildren) {
		if st, err := a.scene.State(id); err == nil && st.Kind == domain.KindMesh {
			return id, true
		}
	}
	return domain.ObjectID{}, false
}

// drainEvents applies every change event already queued, without
// blocking for more.
func drainEvents(inv *invalidator.Invalidator, events <-chan domain.ChangeEvent) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			inv.Apply(ev)
		default:
			return
		}
	}
}

// discardTarget measures pipeline work without rasterizing anything.
type discardTarget struct{}

func (discardTarget) Begin(int)                                            {}
func (discardTarget) DrawGhost(*domain.Geometry, domain.RenderStyle) error { return nil }
func (discardTarget) Flush() error                                         { return nil }
