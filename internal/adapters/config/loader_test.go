package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.keyframe.sh/onion/internal/adapters/config"
	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports/mocks"
)

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	return config.NewLoader(log)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "onion.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFullFile(t *testing.T) {
	path := writeConfig(t, `
enabled: true
frames_before: 4
frames_after: 2
frame_step: 3
show_before: true
show_after: false
use_frame_range: true
frame_range_start: 10
frame_range_end: 90
color_before: "#3380ff"
color_after: "#ff4c33aa"
base_opacity: 0.8
falloff_curve: linear
use_wireframe: true
use_xray: false
show_in_front: true
include_children: false
cache_capacity: 64
track:
  - rig.hero
  - mesh.ball
`)

	set, err := newLoader(t).Load(path)
	require.NoError(t, err)

	assert.True(t, set.Enabled)
	assert.Equal(t, 4, set.CountBefore)
	assert.Equal(t, 2, set.CountAfter)
	assert.Equal(t, 3, set.Step)
	assert.True(t, set.ShowBefore)
	assert.False(t, set.ShowAfter)
	assert.True(t, set.UseFrameRange)
	assert.Equal(t, 10, set.RangeStart)
	assert.Equal(t, 90, set.RangeEnd)
	assert.InDelta(t, 0.2, set.ColorBefore.R, 0.01)
	assert.InDelta(t, 0.5, set.ColorBefore.G, 0.01)
	assert.InDelta(t, 1.0, set.ColorBefore.B, 0.01)
	assert.InDelta(t, float64(0xaa)/255, set.ColorAfter.A, 0.01)
	assert.InDelta(t, 0.8, set.BaseOpacity, 1e-9)
	assert.Equal(t, domain.FalloffLinear, set.Falloff)
	assert.True(t, set.Wireframe)
	assert.False(t, set.XRay)
	assert.True(t, set.InFront)
	assert.False(t, set.IncludeChildren)
	assert.Equal(t, 64, set.CacheCapacity)
	assert.Equal(t, []domain.ObjectID{
		domain.NewObjectID("rig.hero"),
		domain.NewObjectID("mesh.ball"),
	}, set.Track)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
enabled: true
frames_before: 5
`)

	set, err := newLoader(t).Load(path)
	require.NoError(t, err)

	def := domain.DefaultSettings()
	assert.True(t, set.Enabled)
	assert.Equal(t, 5, set.CountBefore)
	assert.Equal(t, def.CountAfter, set.CountAfter)
	assert.Equal(t, def.Step, set.Step)
	assert.Equal(t, def.ColorBefore, set.ColorBefore)
	assert.Equal(t, def.Falloff, set.Falloff)
	assert.Equal(t, def.CacheCapacity, set.CacheCapacity)
	assert.Empty(t, set.Track)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	set, err := newLoader(t).Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), set)

	set, err = newLoader(t).Load("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), set)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "frames_before: [unclosed\n")

	_, err := newLoader(t).Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadBadValues(t *testing.T) {
	t.Run("unknown falloff", func(t *testing.T) {
		path := writeConfig(t, "falloff_curve: bounce\n")
		_, err := newLoader(t).Load(path)
		assert.ErrorIs(t, err, domain.ErrUnknownFalloff)
	})

	t.Run("bad color", func(t *testing.T) {
		path := writeConfig(t, `color_before: "notacolor"`)
		_, err := newLoader(t).Load(path)
		assert.ErrorIs(t, err, domain.ErrBadColor)
	})
}

func TestLoadNormalizes(t *testing.T) {
	path := writeConfig(t, `
frames_before: -2
frame_step: 0
frame_range_start: 90
frame_range_end: 10
base_opacity: 1.5
`)

	set, err := newLoader(t).Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0, set.CountBefore)
	assert.Equal(t, 1, set.Step)
	assert.Equal(t, 10, set.RangeStart)
	assert.Equal(t, 90, set.RangeEnd)
	assert.InDelta(t, 1.0, set.BaseOpacity, 1e-9)
}
