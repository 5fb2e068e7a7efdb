package sampler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/engine/sampler"
)

func frames(s domain.Sample) []int {
	out := make([]int, len(s))
	for i, g := range s {
		out[i] = g.Frame
	}
	return out
}

func TestSampleDefaults(t *testing.T) {
	s := sampler.New()
	set := domain.DefaultSettings()

	got := s.Sample(20, set)

	assert.Equal(t, []int{14, 16, 18, 22, 24, 26}, frames(got))
}

func TestSampleSidesAndOffsets(t *testing.T) {
	s := sampler.New()
	set := domain.DefaultSettings()
	set.CountBefore = 2
	set.CountAfter = 2
	set.Step = 3

	got := s.Sample(10, set)
	require.Len(t, got, 4)

	assert.Equal(t, []int{4, 7, 13, 16}, frames(got))
	assert.Equal(t, -6, got[0].Offset)
	assert.Equal(t, domain.SideBefore, got[0].Side)
	assert.Equal(t, domain.SideBefore, got[1].Side)
	assert.Equal(t, domain.SideAfter, got[2].Side)
	assert.Equal(t, 6, got[3].Offset)
}

func TestSampleOffsetsFollowPlayhead(t *testing.T) {
	// Ghost frames are offsets from the playhead, not multiples of the
	// step: an odd playhead with an even step yields odd ghost frames.
	s := sampler.New()
	set := domain.DefaultSettings()
	set.CountBefore = 2
	set.CountAfter = 2
	set.Step = 2

	got := s.Sample(21, set)

	assert.Equal(t, []int{17, 19, 23, 25}, frames(got))
}

func TestSampleNormDistance(t *testing.T) {
	s := sampler.New()
	set := domain.DefaultSettings()
	set.CountBefore = 1
	set.CountAfter = 4

	got := s.Sample(100, set)
	require.Len(t, got, 5)

	// The lone before ghost sits one step out of a maximum of four, so
	// it fades as gently as the first after ghost.
	assert.InDelta(t, 0.25, got[0].NormDistance, 1e-9)
	assert.InDelta(t, 0.25, got[1].NormDistance, 1e-9)
	assert.InDelta(t, 1.0, got[4].NormDistance, 1e-9)
}

func TestSampleHiddenSides(t *testing.T) {
	s := sampler.New()
	set := domain.DefaultSettings()
	set.ShowBefore = false

	got := s.Sample(20, set)

	assert.Equal(t, []int{22, 24, 26}, frames(got))
}

func TestSampleZeroCounts(t *testing.T) {
	s := sampler.New()
	set := domain.DefaultSettings()
	set.CountBefore = 0
	set.CountAfter = 0

	assert.Empty(t, s.Sample(20, set))
}

func TestSampleFrameRangeDropsOutside(t *testing.T) {
	s := sampler.New()
	set := domain.DefaultSettings()
	set.UseFrameRange = true
	set.RangeStart = 1
	set.RangeEnd = 250

	got := s.Sample(3, set)

	// 3-2=1 stays, 3-4 and 3-6 fall below the range start and are
	// dropped rather than clamped onto frame 1.
	assert.Equal(t, []int{1, 5, 7, 9}, frames(got))
}

func TestSamplePlayheadOutsideRange(t *testing.T) {
	s := sampler.New()
	set := domain.DefaultSettings()
	set.UseFrameRange = true
	set.RangeStart = 10
	set.RangeEnd = 20

	assert.Empty(t, s.Sample(9, set))
	assert.Empty(t, s.Sample(21, set))
	assert.NotEmpty(t, s.Sample(10, set))
}

func TestSampleNormalizesSettings(t *testing.T) {
	s := sampler.New()
	set := domain.DefaultSettings()
	set.Step = 0 // clamped to 1
	set.CountBefore = -3

	got := s.Sample(20, set)

	assert.Equal(t, []int{21, 22, 23}, frames(got))
}
