// Package domain contains the core domain models for the query memoization
// engine: fingerprints, the dependency graph arena, and cycle reports.
package domain

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint is a stable 64-bit hash of a key or a query result. It is
// stable across processes, so it can be used to correlate entries between
// sessions (unlike process-seeded hashes).
type Fingerprint uint64

// FingerprintString computes the fingerprint of a string.
func FingerprintString(s string) Fingerprint {
	return Fingerprint(xxhash.Sum64String(s))
}

// FingerprintBytes computes the fingerprint of a byte slice.
func FingerprintBytes(b []byte) Fingerprint {
	return Fingerprint(xxhash.Sum64(b))
}

// Combine mixes two fingerprints into one. It is order-sensitive, so
// Combine(a, b) and Combine(b, a) differ.
func (f Fingerprint) Combine(other Fingerprint) Fingerprint {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(f))
	binary.LittleEndian.PutUint64(buf[8:], uint64(other))
	return Fingerprint(xxhash.Sum64(buf[:]))
}

// String returns the fingerprint as 16 lowercase hex digits.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// ParseFingerprint parses the hex form produced by String.
func ParseFingerprint(s string) (Fingerprint, error) {
	var v uint64
	if _, err := fmt.Sscanf(s, "%016x", &v); err != nil {
		return 0, ErrInvalidFingerprint
	}
	return Fingerprint(v), nil
}
