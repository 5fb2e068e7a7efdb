package pipeline

import (
	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports"
)

// ExpandObjects resolves tracked roots to drawable leaves: meshes pass
// through, armatures contribute the meshes they deform when
// includeChildren is set (the armature itself has no surface to ghost).
// Order is preserved and duplicates dropped. Unknown roots are kept so the
// draw path can notice their removal and clean up after them.
func ExpandObjects(src ports.StateSource, roots []domain.ObjectID, includeChildren bool) []domain.ObjectID {
	seen := make(map[domain.ObjectID]struct{}, len(roots))
	out := make([]domain.ObjectID, 0, len(roots))
	add := func(id domain.ObjectID) {
		if _, dup := seen[id]; dup || id.IsZero() {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, id := range roots {
		st, err := src.State(id)
		if err != nil {
			add(id)
			continue
		}
		switch st.Kind {
		case domain.KindMesh:
			add(id)
		case domain.KindArmature:
			if includeChildren {
				for _, child := range src.Children(id) {
					add(child)
				}
			}
		}
	}
	return out
}
