package ports

import (
	"context"

	"go.keyframe.sh/onion/internal/core/domain"
)

// Evaluator produces a world-space geometry snapshot of one object at one
// frame. This is the expensive boundary: implementations run the host's
// full dependency evaluation (animation, drivers, modifiers, skinning).
//
//go:generate mockgen -source=evaluator.go -destination=mocks/mock_evaluator.go -package=mocks
type Evaluator interface {
	// Evaluate computes the snapshot. It must honor ctx cancellation and
	// must not retain or mutate the returned geometry afterwards.
	Evaluate(ctx context.Context, id domain.ObjectID, frame int) (*domain.Geometry, error)
}
