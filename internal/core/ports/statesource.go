package ports

import "go.keyframe.sh/onion/internal/core/domain"

// StateSource reports object metadata from the host scene: kinds, version
// counters, and parent/child structure. Fingerprinting and armature
// cascade both read through this port.
//
//go:generate mockgen -source=statesource.go -destination=mocks/mock_statesource.go -package=mocks
type StateSource interface {
	// State returns the object's current metadata, or ErrUnknownObject.
	State(id domain.ObjectID) (domain.ObjectState, error)
	// Children returns the objects deformed or parented by id, in
	// deterministic order. Empty for leaf objects.
	Children(id domain.ObjectID) []domain.ObjectID
	// Objects lists every tracked object in deterministic order.
	Objects() []domain.ObjectID
}
