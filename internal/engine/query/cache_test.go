package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/memo/internal/core/domain"
)

// recoveredError runs fn, which must panic with an error value, and returns
// that error.
func recoveredError(t *testing.T, fn func()) error {
	t.Helper()
	var recovered error
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected a panic")
			err, ok := r.(error)
			require.True(t, ok, "panic value is not an error: %v", r)
			recovered = err
		}()
		fn()
	}()
	return recovered
}

func TestNewCacheRejectsNonPowerOfTwo(t *testing.T) {
	err := recoveredError(t, func() {
		newCache[string, int](3)
	})
	assert.ErrorIs(t, err, domain.ErrInvalidShardCount)
}

func TestDefaultShardCountIsPowerOfTwo(t *testing.T) {
	n := defaultShardCount()
	assert.Positive(t, n)
	assert.LessOrEqual(t, n, maxShards)
	assert.Zero(t, n&(n-1))
}

func TestShardForIsStable(t *testing.T) {
	c := newCache[string, int](8)
	for _, key := range []string{"a", "b", "c"} {
		assert.Same(t, c.shardFor(key), c.shardFor(key))
	}
}

func TestCompleteRejectsDoubleInsert(t *testing.T) {
	c := newCache[string, int](1)
	sh := c.shardFor("a")

	sh.complete("a", 1, 0)
	err := recoveredError(t, func() {
		sh.complete("a", 2, 1)
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateCacheEntry)
}

func TestAbandonLeavesResultsAlone(t *testing.T) {
	c := newCache[string, int](1)
	sh := c.shardFor("a")

	sh.complete("a", 1, 0)
	sh.abandon("a")

	_, ok := sh.results["a"]
	assert.True(t, ok)
}
