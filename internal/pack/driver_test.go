package pack

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yapb/amxx-release/internal/config"
)

func TestDriver_Generate(t *testing.T) {
	t.Parallel()

	platforms := []string{"windows", "linux", "macos"}

	// Every subset of present binaries: an absent binary never yields an archive.
	for mask := 0; mask < 1<<len(platforms); mask++ {
		present := map[string]bool{}
		for i, name := range platforms {
			if mask&(1<<i) != 0 {
				present[name] = true
			}
		}

		t.Run(subsetName(platforms, present), func(t *testing.T) {
			t.Parallel()
			cfg := newTestConfig(t)
			for name := range present {
				writeBinary(t, cfg, name, []byte("binary for "+name))
			}

			res, err := NewDriver(cfg, newTestLogger()).Generate(context.Background())
			require.NoError(t, err)

			for _, name := range platforms {
				p, _ := cfg.Platform(name)
				if present[name] {
					assert.FileExists(t, cfg.ArtifactPath(p))
				} else {
					assert.NoFileExists(t, cfg.ArtifactPath(p))
					assert.Contains(t, res.Skipped, name)
				}
			}
			assert.Len(t, res.Artifacts, len(present))
			assert.Len(t, res.Skipped, len(platforms)-len(present))
		})
	}
}

func subsetName(platforms []string, present map[string]bool) string {
	name := "none"
	for _, p := range platforms {
		if !present[p] {
			continue
		}
		if name == "none" {
			name = p
		} else {
			name += "+" + p
		}
	}
	return name
}

func TestDriver_ArchivesContainOnlyTheirOwnBinary(t *testing.T) {
	t.Parallel()
	cfg := newTestConfig(t)
	writeBinary(t, cfg, "windows", []byte("MZ windows"))
	writeBinary(t, cfg, "linux", []byte("ELF linux"))
	writeBinary(t, cfg, "macos", []byte("MACHO macos"))

	// A stale binary left over from an earlier run.
	require.NoError(t, os.MkdirAll(cfg.ModDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ModDir, "yapb_amxx.dylib"), []byte("stale"), 0o600))

	res, err := NewDriver(cfg, newTestLogger()).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Artifacts, 3)
	assert.Empty(t, res.Skipped)

	win, _ := cfg.Platform("windows")
	entries, zr := readZip(t, cfg.ArtifactPath(win))
	assert.Equal(t, "1.2.3", zr.Comment)
	assert.Equal(t, map[string][]byte{
		"addons/amxmodx/modules/yapb_amxx.dll": []byte("MZ windows"),
	}, entries)

	mac, _ := cfg.Platform("macos")
	entries, _ = readZip(t, cfg.ArtifactPath(mac))
	assert.Equal(t, map[string][]byte{
		"addons/amxmodx/modules/yapb_amxx.dylib": []byte("MACHO macos"),
	}, entries)

	linux, _ := cfg.Platform("linux")
	tarEntries := readTXZ(t, cfg.ArtifactPath(linux))
	require.Len(t, tarEntries, 1)
	assert.Equal(t, "addons/amxmodx/modules/yapb_amxx_i386.so", tarEntries[0].header.Name)
	assert.Equal(t, "ELF linux", string(tarEntries[0].data))
	assert.Equal(t, int64(len("ELF linux")), tarEntries[0].header.Size)

	// Only the deliverables are left in the output directory.
	out, err := os.ReadDir(cfg.DistDir)
	require.NoError(t, err)
	names := make([]string, 0, len(out))
	for _, e := range out {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"yapb-amxx-module-1.2.3-windows.zip",
		"yapb-amxx-module-1.2.3-linux.tar.xz",
		"yapb-amxx-module-1.2.3-macos.zip",
	}, names)

	for _, a := range res.Artifacts {
		info, err := os.Stat(a.Path)
		require.NoError(t, err)
		assert.Equal(t, info.Size(), a.Size)
	}
}

func TestDriver_PreservesExtraStagingContent(t *testing.T) {
	t.Parallel()
	cfg := newTestConfig(t)
	writeBinary(t, cfg, "windows", []byte("MZ"))

	require.NoError(t, os.MkdirAll(filepath.Join(cfg.WorkDir, "addons", "amxmodx", "data"), 0o755))
	cfgFile := filepath.Join(cfg.WorkDir, "addons", "amxmodx", "configs", "yapb.cfg")
	require.NoError(t, os.MkdirAll(filepath.Dir(cfgFile), 0o755))
	require.NoError(t, os.WriteFile(cfgFile, []byte("yb_quota 9"), 0o600))

	_, err := NewDriver(cfg, newTestLogger()).Generate(context.Background())
	require.NoError(t, err)

	win, _ := cfg.Platform("windows")
	entries, _ := readZip(t, cfg.ArtifactPath(win))
	assert.Equal(t, map[string][]byte{
		"addons/amxmodx/modules/yapb_amxx.dll": []byte("MZ"),
		"addons/amxmodx/configs/yapb.cfg":      []byte("yb_quota 9"),
		"addons/amxmodx/data/":                 nil,
	}, entries)
}

func TestDriver_LinuxTimestampsUseConversionOffset(t *testing.T) {
	t.Parallel()
	cfg := newTestConfig(t)
	writeBinary(t, cfg, "linux", []byte("ELF"))

	d := NewDriver(cfg, newTestLogger())
	fixed := time.Date(2024, time.July, 1, 12, 0, 0, 0, time.Local)
	d.now = func() time.Time { return fixed }

	_, err := d.Generate(context.Background())
	require.NoError(t, err)

	staged, err := os.Stat(filepath.Join(cfg.ModDir, "yapb_amxx_i386.so"))
	require.NoError(t, err)

	linux, _ := cfg.Platform("linux")
	entries := readTXZ(t, cfg.ArtifactPath(linux))
	require.Len(t, entries, 1)

	// DOS timestamps have a two second resolution.
	local := staged.ModTime()
	wall := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(),
		local.Second()&^1, 0, time.UTC)
	assert.Equal(t, wall.Add(-LocalOffset(fixed)).Unix(), entries[0].header.ModTime.Unix())
}

func TestDriver_Errors(t *testing.T) {
	t.Parallel()

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		cfg := newTestConfig(t)
		writeBinary(t, cfg, "windows", []byte("MZ"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewDriver(cfg, newTestLogger()).Generate(ctx)
		require.ErrorIs(t, err, context.Canceled)
		win, _ := cfg.Platform("windows")
		assert.NoFileExists(t, cfg.ArtifactPath(win))
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		cfg := newTestConfig(t)
		cfg.Platforms[0].Format = config.Format("rar")
		writeBinary(t, cfg, "windows", []byte("MZ"))

		_, err := NewDriver(cfg, newTestLogger()).Generate(context.Background())
		var target *UnknownFormatError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "windows", target.Platform)
	})

	t.Run("output directory is a file", func(t *testing.T) {
		t.Parallel()
		cfg := newTestConfig(t)
		require.NoError(t, os.WriteFile(cfg.DistDir, []byte("x"), 0o600))

		_, err := NewDriver(cfg, newTestLogger()).Generate(context.Background())
		require.Error(t, err)
	})
}
