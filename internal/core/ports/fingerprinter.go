package ports

import "go.keyframe.sh/onion/internal/core/domain"

// Fingerprinter computes the content fingerprint that keys cached ghosts.
// Equal fingerprints promise equal evaluated geometry at any frame.
//
//go:generate mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// Fingerprint hashes everything that affects the object's evaluated
	// result. The frame is part of the cache key, not the fingerprint, but
	// is passed so sources that cannot separate the two can fold it in.
	Fingerprint(id domain.ObjectID, frame int) (domain.Fingerprint, error)
}
