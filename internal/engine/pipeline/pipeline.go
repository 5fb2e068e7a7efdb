// Package pipeline orchestrates one onion-skin redraw: sample, fetch,
// style, draw.
package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports"
	"go.keyframe.sh/onion/internal/engine/ghostcache"
	"go.keyframe.sh/onion/internal/engine/sampler"
	"go.keyframe.sh/onion/internal/engine/style"
	"go.trai.ch/zerr"
)

// LookAhead pads the precache radius so scrubbing past the warmed
// window still finds its first few ghosts ready. The invalidator keeps
// the same margin when shedding distant entries.
const LookAhead = 5

// Pipeline drives redraws and cache warming. It owns no state of its own;
// everything flows from settings and the playhead through the sampler,
// cache, and resolver into the draw target.
type Pipeline struct {
	sampler  *sampler.Sampler
	cache    *ghostcache.Cache
	resolver *style.Resolver
	src      ports.StateSource
	log      ports.Logger
}

// New creates a Pipeline.
func New(smp *sampler.Sampler, cache *ghostcache.Cache, resolver *style.Resolver, src ports.StateSource, log ports.Logger) *Pipeline {
	return &Pipeline{
		sampler:  smp,
		cache:    cache,
		resolver: resolver,
		src:      src,
		log:      log,
	}
}

// RenderFrame produces one overlay on target for the given playhead.
// Ghosts paint farthest first so nearer frames layer over farther ones.
// A ghost that fails to evaluate is skipped, never fatal: the overlay
// completes without it and the failures come back joined after the flush.
// A root whose object has vanished is evicted from the cache and dropped
// with a warning.
func (p *Pipeline) RenderFrame(ctx context.Context, target ports.DrawTarget, current int, set domain.Settings, roots []domain.ObjectID) error {
	set = set.Normalize()
	target.Begin(current)

	if !set.Enabled {
		return target.Flush()
	}

	sample := p.sampler.Sample(current, set)
	objects := ExpandObjects(p.src, roots, set.IncludeChildren)

	// Farthest first. The sample is sorted ascending by frame, so ties in
	// distance keep the before ghost under the after ghost.
	ordered := append(domain.Sample(nil), sample...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return abs(ordered[i].Offset) > abs(ordered[j].Offset)
	})

	var failures []error
	skip := make(map[domain.ObjectID]struct{})

draw:
	for _, ghost := range ordered {
		ghostStyle := p.resolver.Resolve(ghost, set)
		for _, id := range objects {
			if _, gone := skip[id]; gone {
				continue
			}
			if ctx.Err() != nil {
				failures = append(failures, zerr.Wrap(context.Cause(ctx), "redraw interrupted"))
				break draw
			}

			geo, err := p.cache.GetOrCompute(ctx, id, ghost.Frame)
			if err != nil {
				if errors.Is(err, domain.ErrUnknownObject) {
					p.cache.EvictObject(id)
					skip[id] = struct{}{}
					p.log.Warn("tracked object vanished, dropping it", "object", id.String())
					continue
				}
				failures = append(failures, zerr.With(zerr.With(zerr.Wrap(err, "ghost skipped"),
					"object", id.String()), "frame", ghost.Frame))
				continue
			}
			if err := target.DrawGhost(geo, ghostStyle); err != nil {
				failures = append(failures, zerr.With(zerr.With(zerr.Wrap(err, "ghost draw failed"),
					"object", id.String()), "frame", ghost.Frame))
			}
		}
	}

	if err := target.Flush(); err != nil {
		failures = append(failures, zerr.Wrap(err, "overlay flush failed"))
	}

	p.log.Debug("overlay drawn",
		"current", current, "ghosts", len(ordered), "objects", len(objects), "failures", len(failures))
	return errors.Join(failures...)
}

// Precache warms ghosts in a frame window around the playhead, nearest
// first, so scrubbing hits warm entries. Individual failures are skipped;
// the draw path retries and reports them. Returns how many ghosts were
// freshly computed.
func (p *Pipeline) Precache(ctx context.Context, current int, set domain.Settings, roots []domain.ObjectID, radius, workers int) int {
	set = set.Normalize()
	if !set.Enabled {
		return 0
	}
	if radius <= 0 {
		radius = max(set.CountBefore, set.CountAfter)*set.Step + LookAhead
	}
	if workers <= 0 {
		workers = 2
	}

	objects := ExpandObjects(p.src, roots, set.IncludeChildren)

	// Nearest first: 0, -1, +1, -2, +2, ...
	frames := make([]int, 0, 2*radius+1)
	push := func(frame int) {
		if set.UseFrameRange && (frame < set.RangeStart || frame > set.RangeEnd) {
			return
		}
		frames = append(frames, frame)
	}
	push(current)
	for d := 1; d <= radius; d++ {
		push(current - d)
		push(current + d)
	}

	var warmed atomic.Int64
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)

	for _, frame := range frames {
		for _, id := range objects {
			if grpCtx.Err() != nil {
				break
			}
			if _, ok := p.cache.Peek(id, frame); ok {
				continue
			}
			grp.Go(func() error {
				hit, err := p.cache.Ensure(grpCtx, id, frame)
				if err != nil {
					p.log.Debug("precache skipped a ghost",
						"object", id.String(), "frame", frame, "error", err.Error())
					return nil
				}
				if !hit {
					warmed.Add(1)
				}
				return nil
			})
		}
	}
	_ = grp.Wait()

	n := int(warmed.Load())
	if n > 0 {
		p.log.Debug("precached ghosts", "current", current, "radius", radius, "count", n)
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
