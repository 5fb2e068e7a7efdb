package domain

import "unique"

// ObjectID identifies a scene object. It wraps a unique.Handle[string] so
// the many copies held in cache keys, samples, and bake requests share one
// backing string.
type ObjectID struct {
	h unique.Handle[string]
}

// NewObjectID creates a new ObjectID from a string.
// It uses the unique package to intern the string.
func NewObjectID(s string) ObjectID {
	return ObjectID{
		h: unique.Make(s),
	}
}

// String returns the underlying string value.
func (id ObjectID) String() string {
	var zero unique.Handle[string]
	if id.h == zero {
		return ""
	}
	return id.h.Value()
}

// IsZero reports whether the ID is the zero value.
func (id ObjectID) IsZero() bool {
	var zero unique.Handle[string]
	return id.h == zero
}

// Less orders IDs lexically. Used for deterministic iteration.
func (id ObjectID) Less(other ObjectID) bool {
	return id.String() < other.String()
}

// MarshalText implements encoding.TextMarshaler.
func (id ObjectID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ObjectID) UnmarshalText(text []byte) error {
	id.h = unique.Make(string(text))
	return nil
}

// ObjectKind classifies a scene object for fingerprinting and cascade rules.
type ObjectKind uint8

const (
	// KindMesh is a deformable mesh object.
	KindMesh ObjectKind = iota
	// KindArmature is a bone rig that may drive child meshes.
	KindArmature
)

// String returns the kind name.
func (k ObjectKind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindArmature:
		return "armature"
	default:
		return "unknown"
	}
}

// ObjectState is what the host reports about one object. It is the input
// to fingerprinting: any field change must produce a different fingerprint.
type ObjectState struct {
	Kind        ObjectKind
	DataVersion uint64
	ModifierSig string
	PoseVersion uint64
	Parent      ObjectID
	HasParent   bool
}
