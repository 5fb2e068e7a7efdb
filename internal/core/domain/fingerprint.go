package domain

import "fmt"

// Fingerprint is a 64-bit content hash of everything that affects an
// object's evaluated geometry. Two equal fingerprints mean a cached ghost
// is still valid; any relevant edit must change the value.
type Fingerprint uint64

// String renders the fingerprint as a fixed-width hex digest.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// IsZero reports whether the fingerprint is unset.
func (f Fingerprint) IsZero() bool {
	return f == 0
}
