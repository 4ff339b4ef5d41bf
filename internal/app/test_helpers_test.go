package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yapb/amxx-release/internal/config"
	"github.com/yapb/amxx-release/internal/release"
	"github.com/yapb/amxx-release/internal/validator"
)

type MockManager struct {
	mock.Mock
}

func (m *MockManager) Package(ctx context.Context, opts ReportOptions) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

func (m *MockManager) WatchPackage(ctx context.Context, opts ReportOptions, readyChan chan<- struct{}) error {
	args := m.Called(ctx, opts, readyChan)
	return args.Error(0)
}

func (m *MockManager) Publish(ctx context.Context, dryRun bool, opts ReportOptions) error {
	args := m.Called(ctx, dryRun, opts)
	return args.Error(0)
}

func (m *MockManager) Release(ctx context.Context, dryRun bool, opts ReportOptions) error {
	args := m.Called(ctx, dryRun, opts)
	return args.Error(0)
}

// MockHost is a test mock for the release.Host interface.
type MockHost struct {
	mock.Mock
}

func (m *MockHost) LatestCommit(ctx context.Context) (release.Commit, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).(release.Commit)
	return c, args.Error(1)
}

func (m *MockHost) CreateTaggedRelease(ctx context.Context, tr release.TagRelease) (release.Release, error) {
	args := m.Called(ctx, tr)
	r, _ := args.Get(0).(release.Release)
	return r, args.Error(1)
}

func (m *MockHost) UploadAsset(ctx context.Context, r release.Release, path, label string) (release.Asset, error) {
	args := m.Called(ctx, r, path, label)
	a, _ := args.Get(0).(release.Asset)
	return a, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.New(t.TempDir(), "4.4.957", "", validator.NewSanthoshCompiler())
	require.NoError(t, err)
	return cfg
}

// writeBinaries places fake prebuilt binaries for the named platforms.
func writeBinaries(t *testing.T, cfg *config.Config, names ...string) {
	t.Helper()
	for _, name := range names {
		p, ok := cfg.Platform(name)
		require.True(t, ok)
		src := cfg.SourcePath(p)
		require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
		require.NoError(t, os.WriteFile(src, []byte("binary "+name), 0o755))
	}
}
