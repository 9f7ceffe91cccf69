package app_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/memo/internal/app"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports/mocks"
)

type appTestMocks struct {
	loader *mocks.MockSettingsLoader
	opener *mocks.MockStoreOpener
	store  *mocks.MockDiskStore
	logger *mocks.MockLogger
}

func setupAppTest(t *testing.T) (*app.App, appTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := appTestMocks{
		loader: mocks.NewMockSettingsLoader(ctrl),
		opener: mocks.NewMockStoreOpener(ctrl),
		store:  mocks.NewMockDiskStore(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}
	a := app.New(m.loader, m.opener, m.logger)
	return a, m
}

func settingsFor(path string) *domain.Settings {
	return &domain.Settings{CachePath: path, LogLevel: "info"}
}

func TestDump(t *testing.T) {
	a, m := setupAppTest(t)

	m.loader.EXPECT().Load("memo.yaml").Return(settingsFor("/tmp/cache.zst"), nil)
	m.logger.EXPECT().SetLevel("info")
	m.opener.EXPECT().Open("/tmp/cache.zst").Return(m.store, nil)
	m.store.EXPECT().Entries().Return([]domain.DiskEntry{
		{Index: 0, KeyFingerprint: domain.FingerprintString("a"), Size: 12},
		{Index: 1, KeyFingerprint: domain.FingerprintString("b"), Size: 34},
	})

	var out bytes.Buffer
	require.NoError(t, a.Dump(context.Background(), "memo.yaml", &out))

	assert.Contains(t, out.String(), "INDEX")
	assert.Contains(t, out.String(), "KEY FINGERPRINT")
	assert.Contains(t, out.String(), domain.FingerprintString("a").String())
	assert.Contains(t, out.String(), "34")
}

func TestStats(t *testing.T) {
	a, m := setupAppTest(t)

	m.loader.EXPECT().Load("memo.yaml").Return(settingsFor("/tmp/cache.zst"), nil)
	m.logger.EXPECT().SetLevel("info")
	m.opener.EXPECT().Open("/tmp/cache.zst").Return(m.store, nil)
	m.store.EXPECT().Entries().Return([]domain.DiskEntry{
		{Index: 0, KeyFingerprint: domain.FingerprintString("a"), Size: 10},
		{Index: 1, KeyFingerprint: domain.FingerprintString("b"), Size: 30},
	})
	m.store.EXPECT().PreviousIndices().Return(map[domain.Fingerprint]domain.SerializedDepNodeIndex{
		domain.FingerprintString("a"): 0,
		domain.FingerprintString("b"): 1,
	})

	var out bytes.Buffer
	require.NoError(t, a.Stats(context.Background(), "memo.yaml", &out))

	assert.Contains(t, out.String(), "entries: 2")
	assert.Contains(t, out.String(), "previous indices: 2")
	assert.Contains(t, out.String(), "payload bytes: 40")
}

func TestDumpAppliesConfiguredLogLevel(t *testing.T) {
	a, m := setupAppTest(t)

	m.loader.EXPECT().Load("memo.yaml").Return(&domain.Settings{CachePath: "/tmp/cache.zst", LogLevel: "debug"}, nil)
	m.logger.EXPECT().SetLevel("debug")
	m.opener.EXPECT().Open("/tmp/cache.zst").Return(m.store, nil)
	m.store.EXPECT().Entries().Return(nil)

	var out bytes.Buffer
	require.NoError(t, a.Dump(context.Background(), "memo.yaml", &out))
}

func TestDumpLoadFailure(t *testing.T) {
	a, m := setupAppTest(t)

	m.loader.EXPECT().Load("memo.yaml").Return(nil, errors.New("unreadable"))

	var out bytes.Buffer
	err := a.Dump(context.Background(), "memo.yaml", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
	assert.Empty(t, out.String())
}

func TestStatsOpenFailure(t *testing.T) {
	a, m := setupAppTest(t)

	m.loader.EXPECT().Load("memo.yaml").Return(settingsFor("/tmp/cache.zst"), nil)
	m.logger.EXPECT().SetLevel("info")
	m.opener.EXPECT().Open("/tmp/cache.zst").Return(nil, errors.New("permission denied"))

	var out bytes.Buffer
	err := a.Stats(context.Background(), "memo.yaml", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open disk cache")
}
