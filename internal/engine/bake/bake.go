// Package bake pre-computes ghost geometry across a frame range.
package bake

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports"
	"go.trai.ch/zerr"
)

// Warmer is the slice of the ghost cache a bake run drives.
type Warmer interface {
	Ensure(ctx context.Context, id domain.ObjectID, frame int) (bool, error)
	EvictFrame(id domain.ObjectID, frame int) bool
}

// Request describes one bake run. Objects must already be expanded to
// drawable leaves; Frames lists the absolute frames to warm.
type Request struct {
	Objects []domain.ObjectID
	Frames  []int
	// Current is the playhead; frames nearest to it bake first so an
	// interrupted run still helps the next redraw.
	Current int
	// Workers bounds parallel evaluations. Zero means GOMAXPROCS.
	Workers int
	// Rebake evicts each target ghost before warming so everything is
	// recomputed even when fingerprints still match.
	Rebake bool
}

// Controller executes one bake run. Single use: construct, Run once, read
// the report. Status may be polled from other goroutines while running.
type Controller struct {
	cache    Warmer
	reporter ports.Reporter
	log      ports.Logger

	mu     sync.Mutex
	status domain.BakeStatus
	used   bool
}

// New creates a Controller warming ghosts through cache and reporting
// progress to reporter.
func New(cache Warmer, reporter ports.Reporter, log ports.Logger) *Controller {
	return &Controller{
		cache:    cache,
		reporter: reporter,
		log:      log,
		status:   domain.BakeStatus{State: domain.BakePending},
	}
}

// Status returns a point-in-time snapshot of the run.
func (c *Controller) Status() domain.BakeStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

type item struct {
	object domain.ObjectID
	frame  int
}

type itemResult struct {
	item   item
	cached bool
	err    error
}

// Run bakes every (object, frame) pair in the request. Individual item
// failures are recorded and do not abort the run; the returned error is
// nil only when every item succeeded. A second call returns
// domain.ErrBakeReused.
func (c *Controller) Run(ctx context.Context, req Request) (domain.BakeReport, error) {
	c.mu.Lock()
	if c.used {
		c.mu.Unlock()
		return domain.BakeReport{}, domain.ErrBakeReused
	}
	c.used = true
	items := buildItems(req)
	c.status = domain.BakeStatus{State: domain.BakeRunning, Total: len(items)}
	c.mu.Unlock()

	id := uuid.NewString()
	started := time.Now()
	c.reporter.BakeStarted(id, len(items))
	c.log.Info("bake started", "id", id, "items", len(items))

	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)
	results := make(chan itemResult)

	go func() {
		defer close(results)
		for _, it := range items {
			if grpCtx.Err() != nil {
				break
			}
			grp.Go(func() error {
				if grpCtx.Err() != nil {
					return nil
				}
				if req.Rebake {
					c.cache.EvictFrame(it.object, it.frame)
				}
				cached, err := c.cache.Ensure(grpCtx, it.object, it.frame)
				results <- itemResult{item: it, cached: cached, err: err}
				return nil
			})
		}
		_ = grp.Wait()
	}()

	report := domain.BakeReport{ID: id, Total: len(items)}
	for res := range results {
		if res.err != nil && (errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded)) {
			// Abandoned by cancellation, not a bake failure.
			continue
		}
		switch {
		case res.err != nil:
			report.Failed++
			report.Failures = append(report.Failures, domain.BakeFailure{
				Object: res.item.object,
				Frame:  res.item.frame,
				Err:    res.err,
			})
		case res.cached:
			report.Cached++
		default:
			report.Computed++
		}
		c.advance(res)
	}

	report.Elapsed = time.Since(started)

	var err error
	processed := report.Computed + report.Cached + report.Failed
	switch {
	case ctx.Err() != nil && processed < report.Total:
		report.State = domain.BakeCancelled
		err = zerr.With(zerr.With(zerr.Wrap(context.Cause(ctx), "bake cancelled"), "id", id), "processed", processed)
	case report.Computed+report.Cached == 0 && report.Failed > 0:
		report.State = domain.BakeFailed
		err = joinFailures(report.Failures)
	case report.Failed > 0:
		report.State = domain.BakeDone
		err = joinFailures(report.Failures)
	default:
		report.State = domain.BakeDone
	}

	c.mu.Lock()
	c.status.State = report.State
	c.mu.Unlock()

	c.reporter.BakeFinished(report)
	c.log.Info("bake finished",
		"id", id, "state", string(report.State),
		"computed", report.Computed, "cached", report.Cached, "failed", report.Failed,
		"elapsed", report.Elapsed.String())
	return report, err
}

// advance updates the live status and streams the item to the reporter.
// Run's consumer loop is the only caller, so reporters see a serialized
// event stream.
func (c *Controller) advance(res itemResult) {
	c.mu.Lock()
	if res.err != nil {
		c.status.Failed++
	} else {
		c.status.Done++
	}
	c.mu.Unlock()
	c.reporter.GhostDone(res.item.object, res.item.frame, res.cached, res.err)
}

// buildItems expands the request frame-major with frames ordered nearest
// to the playhead first. Duplicate frames and objects are dropped.
func buildItems(req Request) []item {
	frames := append([]int(nil), req.Frames...)
	slices.Sort(frames)
	frames = slices.Compact(frames)
	sort.SliceStable(frames, func(i, j int) bool {
		return absDelta(frames[i], req.Current) < absDelta(frames[j], req.Current)
	})

	seen := make(map[domain.ObjectID]struct{}, len(req.Objects))
	objects := make([]domain.ObjectID, 0, len(req.Objects))
	for _, id := range req.Objects {
		if _, dup := seen[id]; dup || id.IsZero() {
			continue
		}
		seen[id] = struct{}{}
		objects = append(objects, id)
	}

	items := make([]item, 0, len(frames)*len(objects))
	for _, frame := range frames {
		for _, object := range objects {
			items = append(items, item{object: object, frame: frame})
		}
	}
	return items
}

// joinFailures aggregates per-item errors under ErrGhostFailed so callers
// can detect a degraded run without unpacking the list.
func joinFailures(failures []domain.BakeFailure) error {
	errs := make([]error, 0, len(failures)+1)
	errs = append(errs, domain.ErrGhostFailed)
	for _, f := range failures {
		errs = append(errs, zerr.With(zerr.With(zerr.Wrap(f.Err, "ghost bake failed"),
			"object", f.Object.String()), "frame", f.Frame))
	}
	return errors.Join(errs...)
}

func absDelta(a, b int) int {
	if a < b {
		return b - a
	}
	return a - b
}
