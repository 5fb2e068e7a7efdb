// Package invalidator turns host change events into cache evictions.
package invalidator

import (
	"context"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports"
)

// Evictor is the slice of the ghost cache the invalidator drives.
type Evictor interface {
	EvictObject(id domain.ObjectID) int
	EvictDistant(current, keep int) int
}

// Invalidator applies eviction policy per event kind. Push eviction is a
// memory optimization, not a correctness mechanism: the cache re-checks
// fingerprints on every lookup, so a missed or dropped event costs one
// recompute, never a stale ghost.
type Invalidator struct {
	cache Evictor
	src   ports.StateSource
	log   ports.Logger

	keepRadius int
}

// Option configures an Invalidator.
type Option func(*Invalidator)

// WithKeepRadius enables distance-based housekeeping on playhead moves:
// ghosts farther than keep frames from the new playhead are shed. Zero
// (the default) keeps everything.
func WithKeepRadius(keep int) Option {
	return func(inv *Invalidator) {
		if keep < 0 {
			keep = 0
		}
		inv.keepRadius = keep
	}
}

// New creates an Invalidator evicting through cache and resolving armature
// children through src.
func New(cache Evictor, src ports.StateSource, log ports.Logger, opts ...Option) *Invalidator {
	inv := &Invalidator{cache: cache, src: src, log: log}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Apply processes one change event. Eviction on an already absent object
// is a no-op, so duplicate or late events are harmless.
func (inv *Invalidator) Apply(ev domain.ChangeEvent) {
	switch ev.Kind {
	case domain.EventObjectEdited, domain.EventPoseChanged, domain.EventTransformChanged, domain.EventObjectRemoved:
		n := inv.cache.EvictObject(ev.Object)
		// Armature changes cascade to every mesh the rig deforms. For
		// anything else Children is empty and this is a no-op.
		for _, child := range inv.src.Children(ev.Object) {
			n += inv.cache.EvictObject(child)
		}
		if n > 0 {
			inv.log.Debug("invalidated ghosts",
				"event", ev.Kind.String(), "object", ev.Object.String(), "count", n)
		}
	case domain.EventFrameChanged:
		if inv.keepRadius > 0 {
			if n := inv.cache.EvictDistant(ev.Frame, inv.keepRadius); n > 0 {
				inv.log.Debug("shed distant ghosts",
					"frame", ev.Frame, "keep", inv.keepRadius, "count", n)
			}
		}
	case domain.EventSettingsChanged:
		// Settings never affect evaluated geometry; sampling and style
		// re-derive on the next redraw.
	}
}

// Run drains events until ctx is done or the feed closes.
func (inv *Invalidator) Run(ctx context.Context, events <-chan domain.ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			inv.Apply(ev)
		}
	}
}
