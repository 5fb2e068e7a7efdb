package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownObject is returned when an object ID is not present in the
	// scene.
	ErrUnknownObject = zerr.New("unknown object")

	// ErrInvalidGeometry is returned when an evaluated snapshot fails
	// index validation.
	ErrInvalidGeometry = zerr.New("invalid geometry")

	// ErrUnknownFalloff is returned when a configuration names a falloff
	// curve that does not exist.
	ErrUnknownFalloff = zerr.New("unknown falloff curve")

	// ErrBadColor is returned when a configuration color is not a valid
	// "#rrggbb" or "#rrggbbaa" string.
	ErrBadColor = zerr.New("invalid color")

	// ErrBakeReused is returned when Run is called twice on the same bake
	// controller. Controllers are single use.
	ErrBakeReused = zerr.New("bake controller already used")

	// ErrGhostFailed marks a bake that finished with per-ghost failures.
	// The aggregate joins it with one detailed error per failed item.
	ErrGhostFailed = zerr.New("ghost evaluation failed")
)
