// Package config loads onion-skin settings from a YAML file.
package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SettingsStore = (*Loader)(nil)

// Loader implements ports.SettingsStore on top of a YAML file. Every key
// is optional; absent keys keep their defaults.
type Loader struct {
	log ports.Logger
}

// NewLoader creates a Loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{log: log}
}

// skinFile is the configuration file schema. Pointer fields tell an
// absent key apart from an explicit zero.
type skinFile struct {
	Enabled         *bool    `yaml:"enabled"`
	FramesBefore    *int     `yaml:"frames_before"`
	FramesAfter     *int     `yaml:"frames_after"`
	FrameStep       *int     `yaml:"frame_step"`
	ShowBefore      *bool    `yaml:"show_before"`
	ShowAfter       *bool    `yaml:"show_after"`
	UseFrameRange   *bool    `yaml:"use_frame_range"`
	FrameRangeStart *int     `yaml:"frame_range_start"`
	FrameRangeEnd   *int     `yaml:"frame_range_end"`
	ColorBefore     *string  `yaml:"color_before"`
	ColorAfter      *string  `yaml:"color_after"`
	BaseOpacity     *float64 `yaml:"base_opacity"`
	FalloffCurve    *string  `yaml:"falloff_curve"`
	UseWireframe    *bool    `yaml:"use_wireframe"`
	UseXRay         *bool    `yaml:"use_xray"`
	ShowInFront     *bool    `yaml:"show_in_front"`
	IncludeChildren *bool    `yaml:"include_children"`
	CacheCapacity   *int     `yaml:"cache_capacity"`
	Track           []string `yaml:"track"`
}

// Load reads settings from path. An empty path or a missing file yields
// the defaults; a file that cannot be parsed or names an unknown falloff
// or color is an error.
func (l *Loader) Load(path string) (domain.Settings, error) {
	set := domain.DefaultSettings()
	if path == "" {
		return set, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if errors.Is(err, fs.ErrNotExist) {
		l.log.Debug("no config file, using defaults", "path", path)
		return set, nil
	}
	if err != nil {
		return domain.Settings{}, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	var file skinFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Settings{}, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}

	set, err = apply(set, file)
	if err != nil {
		return domain.Settings{}, zerr.With(err, "path", path)
	}
	return set.Normalize(), nil
}

// apply folds the file over the base settings.
func apply(set domain.Settings, file skinFile) (domain.Settings, error) {
	setBool(&set.Enabled, file.Enabled)
	setInt(&set.CountBefore, file.FramesBefore)
	setInt(&set.CountAfter, file.FramesAfter)
	setInt(&set.Step, file.FrameStep)
	setBool(&set.ShowBefore, file.ShowBefore)
	setBool(&set.ShowAfter, file.ShowAfter)
	setBool(&set.UseFrameRange, file.UseFrameRange)
	setInt(&set.RangeStart, file.FrameRangeStart)
	setInt(&set.RangeEnd, file.FrameRangeEnd)
	setBool(&set.Wireframe, file.UseWireframe)
	setBool(&set.XRay, file.UseXRay)
	setBool(&set.InFront, file.ShowInFront)
	setBool(&set.IncludeChildren, file.IncludeChildren)
	setInt(&set.CacheCapacity, file.CacheCapacity)
	if file.BaseOpacity != nil {
		set.BaseOpacity = *file.BaseOpacity
	}

	if file.ColorBefore != nil {
		c, err := domain.ParseHex(*file.ColorBefore)
		if err != nil {
			return set, zerr.With(err, "key", "color_before")
		}
		set.ColorBefore = c
	}
	if file.ColorAfter != nil {
		c, err := domain.ParseHex(*file.ColorAfter)
		if err != nil {
			return set, zerr.With(err, "key", "color_after")
		}
		set.ColorAfter = c
	}
	if file.FalloffCurve != nil {
		curve, err := domain.ParseFalloff(*file.FalloffCurve)
		if err != nil {
			return set, zerr.With(err, "key", "falloff_curve")
		}
		set.Falloff = curve
	}

	if len(file.Track) > 0 {
		set.Track = make([]domain.ObjectID, 0, len(file.Track))
		for _, name := range file.Track {
			if name == "" {
				continue
			}
			set.Track = append(set.Track, domain.NewObjectID(name))
		}
	}
	return set, nil
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
