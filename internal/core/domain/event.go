package domain

// EventKind classifies a host change notification.
type EventKind uint8

const (
	// EventObjectEdited fires on topology, modifier, or data edits.
	EventObjectEdited EventKind = iota
	// EventPoseChanged fires when an armature pose changes.
	EventPoseChanged
	// EventTransformChanged fires when an object's world transform changes.
	EventTransformChanged
	// EventObjectRemoved fires when an object leaves the scene.
	EventObjectRemoved
	// EventFrameChanged fires when the playhead moves.
	EventFrameChanged
	// EventSettingsChanged fires when onion-skin settings change.
	EventSettingsChanged
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventObjectEdited:
		return "object-edited"
	case EventPoseChanged:
		return "pose-changed"
	case EventTransformChanged:
		return "transform-changed"
	case EventObjectRemoved:
		return "object-removed"
	case EventFrameChanged:
		return "frame-changed"
	case EventSettingsChanged:
		return "settings-changed"
	default:
		return "unknown"
	}
}

// ChangeEvent is one host notification. Object is zero for events that
// are not about a particular object; Frame is meaningful only for
// EventFrameChanged.
type ChangeEvent struct {
	Kind   EventKind
	Object ObjectID
	Frame  int
}
