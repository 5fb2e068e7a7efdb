package bake_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports/mocks"
	"go.keyframe.sh/onion/internal/engine/bake"
)

type warmKey struct {
	object domain.ObjectID
	frame  int
}

// fakeWarmer stands in for the ghost cache: configurable hits, failures,
// and per-item delay, recording the order Ensure was called in.
type fakeWarmer struct {
	mu      sync.Mutex
	order   []warmKey
	evicted []warmKey
	hits    map[warmKey]bool
	fail    map[warmKey]error
	delay   time.Duration
}

func (f *fakeWarmer) Ensure(ctx context.Context, id domain.ObjectID, frame int) (bool, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	key := warmKey{object: id, frame: frame}
	f.mu.Lock()
	f.order = append(f.order, key)
	f.mu.Unlock()
	if err, ok := f.fail[key]; ok {
		return false, err
	}
	return f.hits[key], nil
}

func (f *fakeWarmer) EvictFrame(id domain.ObjectID, frame int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evicted = append(f.evicted, warmKey{object: id, frame: frame})
	return true
}

func (f *fakeWarmer) calls() []warmKey {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]warmKey(nil), f.order...)
}

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	return log
}

func TestRunBakesEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockReporter(ctrl)
	cube := domain.NewObjectID("mesh.cube")
	ball := domain.NewObjectID("mesh.ball")

	reporter.EXPECT().BakeStarted(gomock.Any(), 6)
	reporter.EXPECT().GhostDone(gomock.Any(), gomock.Any(), false, nil).Times(6)
	reporter.EXPECT().BakeFinished(gomock.Any())

	warmer := &fakeWarmer{}
	ctrl2 := bake.New(warmer, reporter, quietLogger(ctrl))

	report, err := ctrl2.Run(context.Background(), bake.Request{
		Objects: []domain.ObjectID{cube, ball},
		Frames:  []int{1, 2, 3},
		Current: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BakeDone, report.State)
	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 6, report.Computed)
	assert.Zero(t, report.Cached)
	assert.Zero(t, report.Failed)
	assert.NotEmpty(t, report.ID)
	assert.Len(t, warmer.calls(), 6)
	assert.Equal(t, domain.BakeDone, ctrl2.Status().State)
}

func TestRunOrdersNearestFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockReporter(ctrl)
	cube := domain.NewObjectID("mesh.cube")

	reporter.EXPECT().BakeStarted(gomock.Any(), gomock.Any())
	reporter.EXPECT().GhostDone(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	reporter.EXPECT().BakeFinished(gomock.Any())

	warmer := &fakeWarmer{}
	ctrl2 := bake.New(warmer, reporter, quietLogger(ctrl))

	// Workers 1 makes execution order observable.
	_, err := ctrl2.Run(context.Background(), bake.Request{
		Objects: []domain.ObjectID{cube},
		Frames:  []int{14, 8, 12, 10, 8},
		Current: 10,
		Workers: 1,
	})
	require.NoError(t, err)

	var frames []int
	for _, k := range warmer.calls() {
		frames = append(frames, k.frame)
	}
	// Distance from the playhead decides; ties resolve ascending, and the
	// duplicate frame 8 bakes once.
	assert.Equal(t, []int{10, 8, 12, 14}, frames)
}

func TestRunCountsCachedItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockReporter(ctrl)
	cube := domain.NewObjectID("mesh.cube")

	reporter.EXPECT().BakeStarted(gomock.Any(), 3)
	reporter.EXPECT().GhostDone(cube, 2, true, nil)
	reporter.EXPECT().GhostDone(gomock.Any(), gomock.Any(), false, nil).Times(2)
	reporter.EXPECT().BakeFinished(gomock.Any())

	warmer := &fakeWarmer{hits: map[warmKey]bool{{object: cube, frame: 2}: true}}
	ctrl2 := bake.New(warmer, reporter, quietLogger(ctrl))

	report, err := ctrl2.Run(context.Background(), bake.Request{
		Objects: []domain.ObjectID{cube},
		Frames:  []int{1, 2, 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Computed)
	assert.Equal(t, 1, report.Cached)
}

func TestRunRecordsFailuresWithoutAborting(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockReporter(ctrl)
	cube := domain.NewObjectID("mesh.cube")
	boom := errors.New("kaboom")

	reporter.EXPECT().BakeStarted(gomock.Any(), 3)
	reporter.EXPECT().GhostDone(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(3)
	reporter.EXPECT().BakeFinished(gomock.Any())

	warmer := &fakeWarmer{fail: map[warmKey]error{{object: cube, frame: 2}: boom}}
	ctrl2 := bake.New(warmer, reporter, quietLogger(ctrl))

	report, err := ctrl2.Run(context.Background(), bake.Request{
		Objects: []domain.ObjectID{cube},
		Frames:  []int{1, 2, 3},
	})

	// Partial failure still finishes the run.
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, domain.ErrGhostFailed)
	assert.Equal(t, domain.BakeDone, report.State)
	assert.Equal(t, 2, report.Computed)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, cube, report.Failures[0].Object)
	assert.Equal(t, 2, report.Failures[0].Frame)
}

func TestRunAllFailuresMeansFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockReporter(ctrl)
	cube := domain.NewObjectID("mesh.cube")
	boom := errors.New("kaboom")

	reporter.EXPECT().BakeStarted(gomock.Any(), gomock.Any())
	reporter.EXPECT().GhostDone(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	reporter.EXPECT().BakeFinished(gomock.Any())

	warmer := &fakeWarmer{fail: map[warmKey]error{
		{object: cube, frame: 1}: boom,
		{object: cube, frame: 2}: boom,
	}}
	ctrl2 := bake.New(warmer, reporter, quietLogger(ctrl))

	report, err := ctrl2.Run(context.Background(), bake.Request{
		Objects: []domain.ObjectID{cube},
		Frames:  []int{1, 2},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGhostFailed)
	assert.Equal(t, domain.BakeFailed, report.State)
	assert.Zero(t, report.Computed)
}

func TestRunRebakeEvictsFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockReporter(ctrl)
	cube := domain.NewObjectID("mesh.cube")

	reporter.EXPECT().BakeStarted(gomock.Any(), gomock.Any())
	reporter.EXPECT().GhostDone(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	reporter.EXPECT().BakeFinished(gomock.Any())

	warmer := &fakeWarmer{hits: map[warmKey]bool{{object: cube, frame: 1}: true}}
	ctrl2 := bake.New(warmer, reporter, quietLogger(ctrl))

	_, err := ctrl2.Run(context.Background(), bake.Request{
		Objects: []domain.ObjectID{cube},
		Frames:  []int{1, 2},
		Rebake:  true,
	})
	require.NoError(t, err)

	assert.Len(t, warmer.evicted, 2)
}

func TestRunIsSingleUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockReporter(ctrl)

	reporter.EXPECT().BakeStarted(gomock.Any(), 0)
	reporter.EXPECT().BakeFinished(gomock.Any())

	ctrl2 := bake.New(&fakeWarmer{}, reporter, quietLogger(ctrl))

	_, err := ctrl2.Run(context.Background(), bake.Request{})
	require.NoError(t, err)

	_, err = ctrl2.Run(context.Background(), bake.Request{})
	assert.ErrorIs(t, err, domain.ErrBakeReused)
}

func TestRunEmptyRequestIsDone(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockReporter(ctrl)

	reporter.EXPECT().BakeStarted(gomock.Any(), 0)
	reporter.EXPECT().BakeFinished(gomock.Any())

	ctrl2 := bake.New(&fakeWarmer{}, reporter, quietLogger(ctrl))

	report, err := ctrl2.Run(context.Background(), bake.Request{})
	require.NoError(t, err)
	assert.Equal(t, domain.BakeDone, report.State)
	assert.Zero(t, report.Total)
}

func TestRunCancellation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reporter := mocks.NewMockReporter(ctrl)
		cube := domain.NewObjectID("mesh.cube")

		reporter.EXPECT().BakeStarted(gomock.Any(), 4)
		reporter.EXPECT().GhostDone(gomock.Any(), gomock.Any(), false, nil)
		reporter.EXPECT().BakeFinished(gomock.Any())

		// One second per item, single worker, deadline after 1.5 items.
		warmer := &fakeWarmer{delay: time.Second}
		ctrl2 := bake.New(warmer, reporter, quietLogger(ctrl))

		ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
		defer cancel()

		report, err := ctrl2.Run(ctx, bake.Request{
			Objects: []domain.ObjectID{cube},
			Frames:  []int{1, 2, 3, 4},
			Current: 1,
			Workers: 1,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, domain.BakeCancelled, report.State)
		assert.Equal(t, 1, report.Computed)
		assert.Zero(t, report.Failed, "abandoned items are not failures")
	})
}

func TestStatusLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockReporter(ctrl)
	cube := domain.NewObjectID("mesh.cube")

	reporter.EXPECT().BakeStarted(gomock.Any(), gomock.Any())
	reporter.EXPECT().GhostDone(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	reporter.EXPECT().BakeFinished(gomock.Any())

	ctrl2 := bake.New(&fakeWarmer{}, reporter, quietLogger(ctrl))
	assert.Equal(t, domain.BakePending, ctrl2.Status().State)

	_, err := ctrl2.Run(context.Background(), bake.Request{
		Objects: []domain.ObjectID{cube},
		Frames:  []int{1, 2},
	})
	require.NoError(t, err)

	status := ctrl2.Status()
	assert.Equal(t, domain.BakeDone, status.State)
	assert.Equal(t, 2, status.Done)
	assert.Equal(t, 2, status.Total)
}
