package domain

import "time"

// BakeState is the lifecycle state of a bake run.
type BakeState string

const (
	// BakePending indicates no bake has started yet.
	BakePending BakeState = "Pending"
	// BakeRunning indicates a bake is in flight.
	BakeRunning BakeState = "Running"
	// BakeDone indicates the bake finished; individual items may still
	// have failed.
	BakeDone BakeState = "Done"
	// BakeCancelled indicates the bake was aborted before completion.
	BakeCancelled BakeState = "Cancelled"
	// BakeFailed indicates the bake produced no ghosts at all.
	BakeFailed BakeState = "Failed"
)

// BakeStatus is a point-in-time snapshot of a bake run, safe to poll from
// another goroutine.
type BakeStatus struct {
	State  BakeState
	Total  int
	Done   int
	Failed int
}

// BakeFailure records one (object, frame) pair that could not be baked.
type BakeFailure struct {
	Object ObjectID
	Frame  int
	Err    error
}

// BakeReport summarizes a finished bake run.
type BakeReport struct {
	// ID uniquely identifies the run.
	ID    string
	State BakeState

	Total    int
	Computed int
	// Cached counts items that were already present and skipped.
	Cached int
	Failed int

	Failures []BakeFailure
	Elapsed  time.Duration
}

// CacheStats are cumulative ghost-cache counters.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	// Len is the current entry count, not cumulative.
	Len int
}

// HitRate returns hits over total lookups, or zero before any lookup.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
