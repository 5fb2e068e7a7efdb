// Package ghostcache stores evaluated ghost geometry keyed by object,
// frame, and content fingerprint.
package ghostcache

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports"
	"go.trai.ch/zerr"
)

// entry is one cached ghost, owned by the LRU list.
type entry struct {
	key domain.CacheKey
	geo *domain.Geometry
}

// Cache is the ghost store. Every lookup validates the stored fingerprint
// against a freshly computed one, so an entry invalidated behind the
// cache's back is never served; explicit eviction exists to reclaim memory
// early, not for correctness. At most one entry exists per (object, frame)
// pair regardless of how many fingerprints it was computed under.
//
// All methods are safe for concurrent use. Returned geometry stays valid
// after eviction because snapshots are immutable; the memory is reclaimed
// once the last holder drops the pointer.
type Cache struct {
	eval ports.Evaluator
	fp   ports.Fingerprinter
	log  ports.Logger

	group singleflight.Group

	mu       sync.RWMutex
	lru      *list.List // front is most recently used
	byObject map[domain.ObjectID]map[int]*list.Element
	capacity int
	stats    domain.CacheStats
}

// Option configures a Cache.
type Option func(*Cache)

// WithCapacity bounds the number of cached ghosts. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n < 0 {
			n = 0
		}
		c.capacity = n
	}
}

// New creates an empty cache that evaluates misses through eval and
// validates entries through fp.
func New(eval ports.Evaluator, fp ports.Fingerprinter, log ports.Logger, opts ...Option) *Cache {
	c := &Cache{
		eval:     eval,
		fp:       fp,
		log:      log,
		lru:      list.New(),
		byObject: make(map[domain.ObjectID]map[int]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCompute returns the ghost for (id, frame), evaluating it on a miss.
// A hit requires the stored fingerprint to match a freshly computed one;
// anything else is a miss and the stale entry is replaced on success.
// Concurrent misses for the same key share a single evaluation. Failed
// evaluations cache nothing.
func (c *Cache) GetOrCompute(ctx context.Context, id domain.ObjectID, frame int) (*domain.Geometry, error) {
	geo, _, err := c.getOrCompute(ctx, id, frame)
	return geo, err
}

// Ensure warms the cache for (id, frame) and reports whether the ghost was
// already present. Bake runs use it to tell computed work from cache hits.
func (c *Cache) Ensure(ctx context.Context, id domain.ObjectID, frame int) (bool, error) {
	_, hit, err := c.getOrCompute(ctx, id, frame)
	return hit, err
}

func (c *Cache) getOrCompute(ctx context.Context, id domain.ObjectID, frame int) (*domain.Geometry, bool, error) {
	print, err := c.fp.Fingerprint(id, frame)
	if err != nil {
		return nil, false, zerr.With(zerr.With(zerr.Wrap(err, "fingerprint failed"), "object", id.String()), "frame", frame)
	}
	key := domain.CacheKey{Object: id, Frame: frame, Print: print}

	if geo, ok := c.lookup(key); ok {
		c.count(func(s *domain.CacheStats) { s.Hits++ })
		return geo, true, nil
	}
	c.count(func(s *domain.CacheStats) { s.Misses++ })

	ch := c.group.DoChan(key.Object.String()+"\x00"+fmt.Sprintf("%d\x00%016x", key.Frame, uint64(key.Print)), func() (any, error) {
		// A concurrent caller may have stored the ghost while this one
		// queued behind the flight.
		if geo, ok := c.lookup(key); ok {
			return geo, nil
		}
		geo, err := c.eval.Evaluate(ctx, id, frame)
		if err != nil {
			return nil, zerr.With(zerr.With(zerr.Wrap(err, "evaluation failed"), "object", id.String()), "frame", frame)
		}
		if geo == nil {
			return nil, zerr.With(zerr.With(zerr.With(domain.ErrInvalidGeometry, "object", id.String()), "frame", frame), "reason", "nil snapshot")
		}
		if err := geo.Validate(); err != nil {
			return nil, zerr.With(zerr.With(err, "object", id.String()), "frame", frame)
		}
		geo.Object, geo.Frame, geo.Print = id, frame, print
		c.insert(key, geo)
		return geo, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*domain.Geometry), false, nil
	case <-ctx.Done():
		// The shared flight keeps running for other waiters; its result
		// still lands in the cache.
		return nil, false, zerr.With(zerr.With(zerr.Wrap(context.Cause(ctx), "ghost wait cancelled"), "object", id.String()), "frame", frame)
	}
}

// Peek returns the ghost stored for (id, frame) without touching recency
// or validating its fingerprint. Precache uses it to skip warm entries.
func (c *Cache) Peek(id domain.ObjectID, frame int) (*domain.Geometry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	el, ok := c.byObject[id][frame]
	if !ok {
		return nil, false
	}
	return el.Value.(*entry).geo, true
}

// Contains reports whether the exact key, fingerprint included, is cached.
func (c *Cache) Contains(key domain.CacheKey) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	el, ok := c.byObject[key.Object][key.Frame]
	return ok && el.Value.(*entry).key.Print == key.Print
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len()
}

// Stats returns a snapshot of the cumulative counters.
func (c *Cache) Stats() domain.CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Len = c.lru.Len()
	return s
}

// SetCapacity rebounds the cache, evicting oldest entries if the new
// capacity is already exceeded. Zero means unbounded.
func (c *Cache) SetCapacity(n int) {
	if n < 0 {
		n = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capacity = n
	c.trimLocked()
}

// EvictObject drops every cached ghost of one object and returns how many
// entries were removed.
func (c *Cache) EvictObject(id domain.ObjectID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	frames := c.byObject[id]
	n := len(frames)
	for _, el := range frames {
		c.lru.Remove(el)
		c.stats.Evictions++
	}
	delete(c.byObject, id)
	if n > 0 && c.log != nil {
		c.log.Debug("evicted ghosts", "object", id.String(), "count", n)
	}
	return n
}

// EvictFrame drops the ghost of one object at one frame, reporting whether
// an entry existed.
func (c *Cache) EvictFrame(id domain.ObjectID, frame int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.byObject[id][frame]
	if !ok {
		return false
	}
	c.removeLocked(id, frame, el)
	return true
}

// EvictDistant drops every ghost farther than keep frames from current,
// across all objects, and returns how many entries were removed. Scrub
// housekeeping uses it to shed stale frames the playhead has left behind.
func (c *Cache) EvictDistant(current, keep int) int {
	if keep < 0 {
		keep = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for id, frames := range c.byObject {
		for frame, el := range frames {
			if frame < current-keep || frame > current+keep {
				c.removeLocked(id, frame, el)
				n++
			}
		}
	}
	return n
}

// Trim evicts oldest entries until at most maxEntries remain.
func (c *Cache) Trim(maxEntries int) int {
	if maxEntries < 0 {
		maxEntries = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for c.lru.Len() > maxEntries {
		c.evictOldestLocked()
		n++
	}
	return n
}

// Clear drops every entry and returns how many were removed. Cumulative
// counters survive.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.lru.Len()
	c.lru.Init()
	c.byObject = make(map[domain.ObjectID]map[int]*list.Element)
	c.stats.Evictions += uint64(n)
	return n
}

// lookup finds a live entry for the exact key and marks it recently used.
func (c *Cache) lookup(key domain.CacheKey) (*domain.Geometry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.byObject[key.Object][key.Frame]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if e.key.Print != key.Print {
		return nil, false
	}
	c.lru.MoveToFront(el)
	return e.geo, true
}

func (c *Cache) insert(key domain.CacheKey, geo *domain.Geometry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	frames, ok := c.byObject[key.Object]
	if !ok {
		frames = make(map[int]*list.Element)
		c.byObject[key.Object] = frames
	}
	if el, ok := frames[key.Frame]; ok {
		// Replace a stale ghost in place so (object, frame) stays unique.
		el.Value = &entry{key: key, geo: geo}
		c.lru.MoveToFront(el)
		return
	}
	frames[key.Frame] = c.lru.PushFront(&entry{key: key, geo: geo})
	c.trimLocked()
}

func (c *Cache) trimLocked() {
	if c.capacity <= 0 {
		return
	}
	for c.lru.Len() > c.capacity {
		c.evictOldestLocked()
	}
}

func (c *Cache) evictOldestLocked() {
	el := c.lru.Back()
	if el == nil {
		return
	}
	e := el.Value.(*entry)
	c.removeLocked(e.key.Object, e.key.Frame, el)
}

func (c *Cache) removeLocked(id domain.ObjectID, frame int, el *list.Element) {
	c.lru.Remove(el)
	frames := c.byObject[id]
	delete(frames, frame)
	if len(frames) == 0 {
		delete(c.byObject, id)
	}
	c.stats.Evictions++
}

func (c *Cache) count(f func(*domain.CacheStats)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f(&c.stats)
}
