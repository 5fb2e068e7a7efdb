package pipeline_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports/mocks"
	"go.keyframe.sh/onion/internal/engine/ghostcache"
	"go.keyframe.sh/onion/internal/engine/pipeline"
	"go.keyframe.sh/onion/internal/engine/sampler"
	"go.keyframe.sh/onion/internal/engine/style"
	"go.keyframe.sh/onion/internal/mathutil"
)

type fixture struct {
	eval  *mocks.MockEvaluator
	fp    *mocks.MockFingerprinter
	src   *mocks.MockStateSource
	cache *ghostcache.Cache
	pl    *pipeline.Pipeline
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()

	fx := &fixture{
		eval: mocks.NewMockEvaluator(ctrl),
		fp:   mocks.NewMockFingerprinter(ctrl),
		src:  mocks.NewMockStateSource(ctrl),
	}
	fx.cache = ghostcache.New(fx.eval, fx.fp, log)
	fx.pl = pipeline.New(sampler.New(), fx.cache, style.New(), fx.src, log)
	return fx
}

// trackMesh makes id behave like a plain mesh that always evaluates.
func (fx *fixture) trackMesh(id domain.ObjectID) {
	fx.src.EXPECT().State(id).Return(domain.ObjectState{Kind: domain.KindMesh, DataVersion: 1}, nil).AnyTimes()
	fx.fp.EXPECT().Fingerprint(id, gomock.Any()).DoAndReturn(func(_ domain.ObjectID, frame int) (domain.Fingerprint, error) {
		return domain.Fingerprint(frame), nil
	}).AnyTimes()
	fx.eval.EXPECT().Evaluate(gomock.Any(), id, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.ObjectID, _ int) (*domain.Geometry, error) {
			return &domain.Geometry{
				Positions: []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
				Triangles: []uint32{0, 1, 2},
				Edges:     []uint32{0, 1, 1, 2, 2, 0},
			}, nil
		}).AnyTimes()
}

// paintTrace records every ghost handed to the target.
type paintTrace struct {
	mu      sync.Mutex
	begun   []int
	frames  []int
	styles  []domain.RenderStyle
	flushed int
	drawErr error
}

func (p *paintTrace) Begin(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.begun = append(p.begun, current)
}

func (p *paintTrace) DrawGhost(g *domain.Geometry, style domain.RenderStyle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawErr != nil {
		return p.drawErr
	}
	p.frames = append(p.frames, g.Frame)
	p.styles = append(p.styles, style)
	return nil
}

func (p *paintTrace) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushed++
	return nil
}

func baseSettings() domain.Settings {
	set := domain.DefaultSettings()
	set.Enabled = true
	set.CountBefore, set.CountAfter, set.Step = 2, 2, 1
	return set
}

func TestRenderFramePaintsFarthestFirst(t *testing.T) {
	fx := newFixture(t)
	cube := domain.NewObjectID("mesh.cube")
	fx.trackMesh(cube)

	target := &paintTrace{}
	err := fx.pl.RenderFrame(context.Background(), target, 10, baseSettings(), []domain.ObjectID{cube})
	require.NoError(t, err)

	// Distance decides the order; the before ghost lands under the after
	// ghost at equal distance.
	assert.Equal(t, []int{8, 12, 9, 11}, target.frames)
	assert.Equal(t, []int{10}, target.begun)
	assert.Equal(t, 1, target.flushed)

	// Before ghosts keep the before color, after ghosts the after color.
	set := baseSettings()
	assert.Equal(t, set.ColorBefore.R, target.styles[0].Color.R)
	assert.Equal(t, set.ColorAfter.R, target.styles[1].Color.R)
}

func TestRenderFrameDisabledPaintsNothing(t *testing.T) {
	fx := newFixture(t)
	cube := domain.NewObjectID("mesh.cube")

	set := baseSettings()
	set.Enabled = false

	target := &paintTrace{}
	err := fx.pl.RenderFrame(context.Background(), target, 10, set, []domain.ObjectID{cube})
	require.NoError(t, err)

	assert.Empty(t, target.frames)
	assert.Equal(t, 1, target.flushed)
}

func TestRenderFrameSkipsFailedGhosts(t *testing.T) {
	fx := newFixture(t)
	cube := domain.NewObjectID("mesh.cube")
	broken := errors.New("rig divergence")

	fx.src.EXPECT().State(cube).Return(domain.ObjectState{Kind: domain.KindMesh}, nil).AnyTimes()
	fx.fp.EXPECT().Fingerprint(cube, gomock.Any()).DoAndReturn(func(_ domain.ObjectID, frame int) (domain.Fingerprint, error) {
		return domain.Fingerprint(frame), nil
	}).AnyTimes()
	fx.eval.EXPECT().Evaluate(gomock.Any(), cube, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.ObjectID, frame int) (*domain.Geometry, error) {
			if frame == 9 {
				return nil, broken
			}
			return &domain.Geometry{Positions: []mathutil.Vec3{{0, 0, 0}}}, nil
		}).AnyTimes()

	target := &paintTrace{}
	err := fx.pl.RenderFrame(context.Background(), target, 10, baseSettings(), []domain.ObjectID{cube})

	// The other three ghosts still land and the failure comes back joined.
	require.ErrorIs(t, err, broken)
	assert.Equal(t, []int{8, 12, 11}, target.frames)
	assert.Equal(t, 1, target.flushed)
}

func TestRenderFrameDropsVanishedObjects(t *testing.T) {
	fx := newFixture(t)
	gone := domain.NewObjectID("mesh.gone")

	// Expansion still sees the object; the fingerprint says it vanished.
	fx.src.EXPECT().State(gone).Return(domain.ObjectState{}, domain.ErrUnknownObject).AnyTimes()
	fx.fp.EXPECT().Fingerprint(gone, gomock.Any()).Return(domain.Fingerprint(0), domain.ErrUnknownObject).AnyTimes()

	target := &paintTrace{}
	err := fx.pl.RenderFrame(context.Background(), target, 10, baseSettings(), []domain.ObjectID{gone})

	// Vanishing is cleanup, not a render failure.
	require.NoError(t, err)
	assert.Empty(t, target.frames)
	assert.Equal(t, 0, fx.cache.Len())
}

func TestRenderFrameReportsDrawErrors(t *testing.T) {
	fx := newFixture(t)
	cube := domain.NewObjectID("mesh.cube")
	fx.trackMesh(cube)

	target := &paintTrace{drawErr: errors.New("target wedged")}
	err := fx.pl.RenderFrame(context.Background(), target, 10, baseSettings(), []domain.ObjectID{cube})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost draw failed")
	assert.Equal(t, 1, target.flushed)
}

func TestPrecacheWarmsTheWindow(t *testing.T) {
	fx := newFixture(t)
	cube := domain.NewObjectID("mesh.cube")
	fx.trackMesh(cube)

	set := baseSettings()
	set.CountBefore, set.CountAfter, set.Step = 1, 1, 1

	// Default radius is the ghost span plus the look-ahead margin.
	warmed := fx.pl.Precache(context.Background(), 20, set, []domain.ObjectID{cube}, 0, 2)
	assert.Equal(t, 2*(1+pipeline.LookAhead)+1, warmed)

	// Everything is warm now.
	assert.Zero(t, fx.pl.Precache(context.Background(), 20, set, []domain.ObjectID{cube}, 0, 2))
}

func TestPrecacheHonorsFrameRange(t *testing.T) {
	fx := newFixture(t)
	cube := domain.NewObjectID("mesh.cube")
	fx.trackMesh(cube)

	set := baseSettings()
	set.UseFrameRange = true
	set.RangeStart, set.RangeEnd = 9, 11

	warmed := fx.pl.Precache(context.Background(), 10, set, []domain.ObjectID{cube}, 4, 2)
	assert.Equal(t, 3, warmed)
}

func TestPrecacheDisabledDoesNothing(t *testing.T) {
	fx := newFixture(t)
	cube := domain.NewObjectID("mesh.cube")

	set := baseSettings()
	set.Enabled = false

	assert.Zero(t, fx.pl.Precache(context.Background(), 10, set, []domain.ObjectID{cube}, 0, 2))
	assert.Equal(t, 0, fx.cache.Len())
}

func TestExpandObjects(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockStateSource(ctrl)

	rig := domain.NewObjectID("rig.hero")
	body := domain.NewObjectID("mesh.body")
	cape := domain.NewObjectID("mesh.cape")
	loose := domain.NewObjectID("mesh.loose")
	gone := domain.NewObjectID("mesh.gone")

	src.EXPECT().State(rig).Return(domain.ObjectState{Kind: domain.KindArmature}, nil).AnyTimes()
	src.EXPECT().State(body).Return(domain.ObjectState{Kind: domain.KindMesh}, nil).AnyTimes()
	src.EXPECT().State(cape).Return(domain.ObjectState{Kind: domain.KindMesh}, nil).AnyTimes()
	src.EXPECT().State(loose).Return(domain.ObjectState{Kind: domain.KindMesh}, nil).AnyTimes()
	src.EXPECT().State(gone).Return(domain.ObjectState{}, domain.ErrUnknownObject).AnyTimes()
	src.EXPECT().Children(rig).Return([]domain.ObjectID{body, cape}).AnyTimes()

	t.Run("armatures expand to their meshes", func(t *testing.T) {
		got := pipeline.ExpandObjects(src, []domain.ObjectID{rig, loose}, true)
		assert.Equal(t, []domain.ObjectID{body, cape, loose}, got)
	})

	t.Run("children excluded leaves only meshes", func(t *testing.T) {
		got := pipeline.ExpandObjects(src, []domain.ObjectID{rig, loose}, false)
		assert.Equal(t, []domain.ObjectID{loose}, got)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		got := pipeline.ExpandObjects(src, []domain.ObjectID{rig, body, rig}, true)
		assert.Equal(t, []domain.ObjectID{body, cape}, got)
	})

	t.Run("unknown roots are kept for cleanup", func(t *testing.T) {
		got := pipeline.ExpandObjects(src, []domain.ObjectID{gone}, true)
		assert.Equal(t, []domain.ObjectID{gone}, got)
	})
}
