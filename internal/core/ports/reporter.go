package ports

import "go.keyframe.sh/onion/internal/core/domain"

// Reporter receives bake progress. Implementations must tolerate being
// called from a single goroutine only; the bake controller serializes.
//
//go:generate mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// BakeStarted announces a run and its item count.
	BakeStarted(id string, total int)
	// GhostDone reports one finished item. cached is true when the ghost
	// was already present; err is non-nil when the item failed.
	GhostDone(object domain.ObjectID, frame int, cached bool, err error)
	// BakeFinished delivers the final report.
	BakeFinished(report domain.BakeReport)
}
