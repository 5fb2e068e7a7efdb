// Package sampler selects which ghost frames to show around the playhead.
package sampler

import (
	"sort"

	"go.keyframe.sh/onion/internal/core/domain"
)

// Sampler computes the ordered ghost-frame set for one redraw. It is
// stateless and pure: the same playhead and settings always yield the
// same sample.
type Sampler struct{}

// New creates a Sampler.
func New() *Sampler {
	return &Sampler{}
}

// Sample returns the ghost frames around current, sorted ascending by
// frame number. Frames that fall outside an active frame range are
// dropped, never clamped to the range edge; when the playhead itself is
// outside the range the sample is empty and no ghosts are shown at all.
func (s *Sampler) Sample(current int, set domain.Settings) domain.Sample {
	set = set.Normalize()

	if set.UseFrameRange && (current < set.RangeStart || current > set.RangeEnd) {
		return nil
	}

	// Distances are normalized by the longer of the two sides so that a
	// lopsided configuration fades symmetrically per step.
	denom := max(set.CountBefore, set.CountAfter)
	if denom == 0 {
		return nil
	}

	sample := make(domain.Sample, 0, set.CountBefore+set.CountAfter)
	if set.ShowBefore {
		for i := 1; i <= set.CountBefore; i++ {
			frame := current - i*set.Step
			if set.UseFrameRange && frame < set.RangeStart {
				break
			}
			sample = append(sample, domain.GhostFrame{
				Frame:        frame,
				Offset:       frame - current,
				Side:         domain.SideBefore,
				NormDistance: float64(i) / float64(denom),
			})
		}
	}
	if set.ShowAfter {
		for i := 1; i <= set.CountAfter; i++ {
			frame := current + i*set.Step
			if set.UseFrameRange && frame > set.RangeEnd {
				break
			}
			sample = append(sample, domain.GhostFrame{
				Frame:        frame,
				Offset:       frame - current,
				Side:         domain.SideAfter,
				NormDistance: float64(i) / float64(denom),
			})
		}
	}

	sort.Slice(sample, func(i, j int) bool { return sample[i].Frame < sample[j].Frame })
	return sample
}
