// Package query implements the incremental query memoization engine: every
// derived fact is a pure function of a key, computed at most once per
// session, cached with a dependency-graph handle, and shared between
// concurrent callers without recomputation or deadlock.
package query

import (
	"errors"

	"go.trai.ch/zerr"

	"go.trai.ch/memo/internal/core/domain"
)

// Config describes one query kind. Clients implement it once per kind and
// bind it to an Engine with New.
//
// Compute must be pure with respect to the key: the engine caches the first
// result for the whole session and never calls Compute for that key again.
// Nested query reads inside Compute must go through the Context it receives,
// which is how dependency edges are recorded.
type Config[K comparable, V any] interface {
	// Name identifies the query kind. It must be unique per Engine and
	// stable across sessions (it participates in key fingerprints).
	Name() string

	// DescribeKey renders the key for diagnostics and fingerprinting. Two
	// distinct keys must not share a description.
	DescribeKey(key K) string

	// Span locates the key in the client's source model, for cycle reports.
	// Return the zero Span when there is no sensible location.
	Span(key K) domain.Span

	// Compute derives the value for a key. It runs at most once per key per
	// session.
	Compute(qctx *Context, key K) (V, error)

	// CacheOnDisk reports whether results for this key should be persisted.
	// value is nil when the engine asks before computing.
	CacheOnDisk(key K, value *V) bool

	// TryLoadFromDisk deserializes a previous session's result. Returning
	// false for any reason (missing, version skew, corruption) makes the
	// engine fall back to Compute.
	TryLoadFromDisk(qctx *Context, idx domain.SerializedDepNodeIndex) (V, bool)

	// HandleCycleError converts a dependency cycle into a value, or into an
	// error for query kinds where cycles are a hard failure.
	HandleCycleError(qctx *Context, cycle *domain.CycleError) (V, error)

	// HashResult fingerprints the value for the dependency graph. Return
	// false to skip result fingerprinting for this kind.
	HashResult(value V) (domain.Fingerprint, bool)
}

// NoDiskCache is an embeddable default for query kinds that are never
// persisted.
type NoDiskCache[K comparable, V any] struct{}

// CacheOnDisk always reports false.
func (NoDiskCache[K, V]) CacheOnDisk(K, *V) bool { return false }

// TryLoadFromDisk panics: the engine never calls it when CacheOnDisk is
// always false, so reaching it is a client wiring bug.
func (NoDiskCache[K, V]) TryLoadFromDisk(*Context, domain.SerializedDepNodeIndex) (V, bool) {
	panic("query: TryLoadFromDisk called for a query kind without disk caching")
}

// FatalCycles is an embeddable default for query kinds where a dependency
// cycle is a programming error rather than a recoverable condition.
type FatalCycles[K comparable, V any] struct{}

// HandleCycleError returns the cycle as a hard error.
func (FatalCycles[K, V]) HandleCycleError(_ *Context, cycle *domain.CycleError) (V, error) {
	var zero V
	return zero, zerr.With(errors.Join(domain.ErrCycleUnexpected, cycle), "cycle", cycle.Report())
}
