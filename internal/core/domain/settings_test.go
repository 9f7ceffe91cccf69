package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/memo/internal/core/domain"
)

func TestSettingsValidateDefaults(t *testing.T) {
	s := &domain.Settings{}
	require.NoError(t, s.Validate())

	assert.Zero(t, s.Shards)
	assert.Zero(t, s.WarmParallelism)
	assert.Equal(t, domain.DefaultCachePath, s.CachePath)
	assert.Equal(t, "info", s.LogLevel)
}

func TestSettingsValidateShards(t *testing.T) {
	for _, shards := range []int{1, 2, 64, 256} {
		s := &domain.Settings{Shards: shards}
		assert.NoError(t, s.Validate(), "shards %d", shards)
	}

	for _, shards := range []int{-1, 3, 33} {
		s := &domain.Settings{Shards: shards}
		assert.ErrorIs(t, s.Validate(), domain.ErrInvalidShardCount, "shards %d", shards)
	}
}

func TestSettingsValidateLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		s := &domain.Settings{LogLevel: level}
		require.NoError(t, s.Validate())
		assert.Equal(t, level, s.LogLevel)
	}

	s := &domain.Settings{LogLevel: "loud"}
	assert.ErrorIs(t, s.Validate(), domain.ErrInvalidLogLevel)
}
