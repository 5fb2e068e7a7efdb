package ports

import (
	"context"

	"go.keyframe.sh/onion/internal/core/domain"
)

// Events exposes the host's change feed. The invalidator consumes it to
// keep the ghost cache consistent with edits.
//
//go:generate mockgen -source=events.go -destination=mocks/mock_events.go -package=mocks
type Events interface {
	// Subscribe returns a channel of change events. The channel is closed
	// when ctx is done or the host shuts the feed down.
	Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error)
}
