package domain

import "go.trai.ch/zerr"

// Settings holds engine tuning loaded from configuration. None of these
// affect correctness, only contention and IO placement.
type Settings struct {
	// Shards is the number of cache shards per query kind.
	// Zero derives a power of two from available parallelism.
	Shards int
	// WarmParallelism bounds concurrent computations during cache warm-up.
	// Zero derives from available parallelism.
	WarmParallelism int
	// CachePath is where the cross-session result cache lives.
	CachePath string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// DefaultCachePath is used when the config file does not set one.
const DefaultCachePath = ".memo/cache.zst"

// Validate checks the settings and fills in defaults.
func (s *Settings) Validate() error {
	if s.Shards < 0 || (s.Shards != 0 && s.Shards&(s.Shards-1) != 0) {
		return zerr.With(ErrInvalidShardCount, "shards", s.Shards)
	}
	if s.WarmParallelism < 0 {
		s.WarmParallelism = 0
	}
	if s.CachePath == "" {
		s.CachePath = DefaultCachePath
	}
	switch s.LogLevel {
	case "":
		s.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return zerr.With(ErrInvalidLogLevel, "log_level", s.LogLevel)
	}
	return nil
}
