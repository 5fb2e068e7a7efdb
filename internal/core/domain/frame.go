package domain

// Side marks which side of the playhead a ghost frame lies on.
type Side uint8

const (
	// SideBefore is a frame earlier than the current frame.
	SideBefore Side = iota
	// SideAfter is a frame later than the current frame.
	SideAfter
)

// String returns the side name.
func (s Side) String() string {
	if s == SideAfter {
		return "after"
	}
	return "before"
}

// GhostFrame is one selected onion-skin frame relative to the playhead.
type GhostFrame struct {
	// Frame is the absolute frame number to evaluate.
	Frame int
	// Offset is Frame minus the current frame, signed.
	Offset int
	// Side tells which color the ghost takes.
	Side Side
	// NormDistance is the ghost's distance from the playhead in steps,
	// divided by the larger of the two configured side counts and clamped
	// to [0, 1]. The falloff curves consume it directly: the nearest
	// ghost has the smallest value, the farthest on the longer side
	// exactly 1.
	NormDistance float64
}

// Sample is the ordered set of ghost frames for one redraw, sorted
// ascending by frame.
type Sample []GhostFrame
