package pack

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/yapb/amxx-release/internal/config"
	"github.com/yapb/amxx-release/internal/validator"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.New(t.TempDir(), "1.2.3", "", validator.NewSanthoshCompiler())
	require.NoError(t, err)
	return cfg
}

// writeBinary places a fake prebuilt binary for the platform in the build directory.
func writeBinary(t *testing.T, cfg *config.Config, name string, content []byte) string {
	t.Helper()
	p, ok := cfg.Platform(name)
	require.True(t, ok)
	src := cfg.SourcePath(p)
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, content, 0o755))
	return src
}

// readZip returns the content of every entry keyed by name. Directory markers
// map to nil.
func readZip(t *testing.T, path string) (map[string][]byte, *zip.ReadCloser) {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = zr.Close() })

	entries := make(map[string][]byte)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			entries[f.Name] = nil
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[f.Name] = data
	}
	return entries, zr
}

type tarEntry struct {
	header *tar.Header
	data   []byte
}

func readTXZ(t *testing.T, path string) []tarEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	xzr, err := xz.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(xzr)

	var entries []tarEntry
	for {
		h, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries = append(entries, tarEntry{header: h, data: data})
	}
	return entries
}
