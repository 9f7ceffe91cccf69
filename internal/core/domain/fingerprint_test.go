package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/memo/internal/core/domain"
)

func TestFingerprintStability(t *testing.T) {
	// Fingerprints correlate entries across processes, so they must be
	// deterministic for the same input.
	assert.Equal(t, domain.FingerprintString("parse"), domain.FingerprintString("parse"))
	assert.NotEqual(t, domain.FingerprintString("parse"), domain.FingerprintString("typecheck"))
	assert.Equal(t, domain.FingerprintBytes([]byte("parse")), domain.FingerprintString("parse"))
}

func TestFingerprintCombineIsOrderSensitive(t *testing.T) {
	a := domain.FingerprintString("a")
	b := domain.FingerprintString("b")

	assert.Equal(t, a.Combine(b), a.Combine(b))
	assert.NotEqual(t, a.Combine(b), b.Combine(a))
	assert.NotEqual(t, a, a.Combine(b))
}

func TestFingerprintStringRoundtrip(t *testing.T) {
	fp := domain.FingerprintString("parse")

	s := fp.String()
	require.Len(t, s, 16)

	parsed, err := domain.ParseFingerprint(s)
	require.NoError(t, err)
	assert.Equal(t, fp, parsed)
}

func TestParseFingerprintRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "not-hex", "zzzzzzzzzzzzzzzz"} {
		_, err := domain.ParseFingerprint(s)
		assert.ErrorIs(t, err, domain.ErrInvalidFingerprint, "input %q", s)
	}
}
