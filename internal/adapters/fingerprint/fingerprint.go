// Package fingerprint hashes host-reported object state into cache
// fingerprints.
package fingerprint

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Fingerprinter = (*Hasher)(nil)

// Hasher derives fingerprints from a state source. Everything that can
// change evaluated geometry is folded into the digest: object kind, data
// version, modifier signature, pose version, and, for a mesh driven by an
// armature, the parent's state as well, so a rig edit orphans the
// children's cached ghosts too.
type Hasher struct {
	src ports.StateSource
}

// New creates a Hasher reading object state from src.
func New(src ports.StateSource) *Hasher {
	return &Hasher{src: src}
}

// Fingerprint hashes the object's evaluation-relevant state. The frame is
// not part of the digest; it is a separate cache key dimension.
func (h *Hasher) Fingerprint(id domain.ObjectID, _ int) (domain.Fingerprint, error) {
	st, err := h.src.State(id)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to read object state"), "object", id.String())
	}

	digest := xxhash.New()
	hashState(digest, id, st)

	if st.HasParent {
		parent, err := h.src.State(st.Parent)
		if err != nil {
			return 0, zerr.With(zerr.With(zerr.Wrap(err, "failed to read parent state"),
				"object", id.String()), "parent", st.Parent.String())
		}
		hashState(digest, st.Parent, parent)
	}

	return domain.Fingerprint(digest.Sum64()), nil
}

func hashState(digest *xxhash.Digest, id domain.ObjectID, st domain.ObjectState) {
	_, _ = digest.WriteString(id.String())
	_, _ = digest.Write([]byte{0}) // separator between fields
	_, _ = digest.Write([]byte{byte(st.Kind), 0})
	_ = binary.Write(digest, binary.LittleEndian, st.DataVersion)
	_, _ = digest.WriteString(st.ModifierSig)
	_, _ = digest.Write([]byte{0})
	_ = binary.Write(digest, binary.LittleEndian, st.PoseVersion)
}
