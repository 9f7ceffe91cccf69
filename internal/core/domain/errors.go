package domain

import "errors"

// Sentinels are declared as plain errors. zerr.With wraps a plain error as
// its cause, so errors.Is keeps matching after metadata is attached.
var (
	// ErrQueryPoisoned is returned to callers blocked on a computation whose
	// compute function panicked. The panic value is attached as metadata.
	ErrQueryPoisoned = errors.New("query computation panicked")

	// ErrQueryFailed is returned when a compute function returns an error.
	ErrQueryFailed = errors.New("query computation failed")

	// ErrCycleUnexpected is returned by query kinds that treat dependency
	// cycles as unrecoverable.
	ErrCycleUnexpected = errors.New("unexpected query cycle")

	// ErrDuplicateCacheEntry indicates a completed result was inserted twice
	// for the same key. This is an engine bug, never a client error.
	ErrDuplicateCacheEntry = errors.New("cache entry completed twice for the same key")

	// ErrUnknownDepNode is returned when a dependency-graph index is out of
	// range for the current session.
	ErrUnknownDepNode = errors.New("unknown dependency node index")

	// ErrInvalidFingerprint is returned when a serialized fingerprint cannot
	// be parsed.
	ErrInvalidFingerprint = errors.New("invalid fingerprint")

	// ErrInvalidShardCount is returned when the configured shard count is
	// negative or not a power of two.
	ErrInvalidShardCount = errors.New("shard count must be zero or a power of two")

	// ErrInvalidLogLevel is returned when the configured log level is not one
	// of debug, info, warn, error.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = errors.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = errors.New("failed to parse config file")

	// ErrStoreReadFailed is returned when the disk cache cannot be read.
	ErrStoreReadFailed = errors.New("failed to read disk cache")

	// ErrStoreMarshalFailed is returned when the disk cache cannot be marshaled.
	ErrStoreMarshalFailed = errors.New("failed to marshal disk cache")

	// ErrStoreWriteFailed is returned when the disk cache cannot be written.
	ErrStoreWriteFailed = errors.New("failed to write disk cache")

	// ErrStoreCreateFailed is returned when the disk cache directory cannot be
	// created.
	ErrStoreCreateFailed = errors.New("failed to create disk cache directory")
)
