// Package pack stages platform binaries into the plugin directory layout and
// turns the staging tree into the per-platform release archives.
package pack

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/yapb/amxx-release/internal/config"
	"github.com/yapb/amxx-release/internal/fs"
)

// Artifact is a deliverable produced for one platform.
type Artifact struct {
	Platform string
	Path     string
	Size     int64
}

// Result lists what a Generate run produced and which platforms it skipped.
type Result struct {
	Artifacts []Artifact
	Skipped   []string
}

// Driver runs the packaging step for every configured platform.
type Driver struct {
	cfg    *config.Config
	stager *Stager
	logger *slog.Logger
	now    func() time.Time
}

// NewDriver creates a Driver for the given configuration.
func NewDriver(cfg *config.Config, logger *slog.Logger) *Driver {
	return &Driver{
		cfg:    cfg,
		stager: NewStager(cfg.ModDir, cfg.BinaryNames()),
		logger: logger.With("component", "pack"),
		now:    time.Now,
	}
}

// Generate packages every platform whose binary is present. A missing binary
// skips that platform without error.
func (d *Driver) Generate(ctx context.Context) (*Result, error) {
	if err := d.cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, p := range d.cfg.Platforms {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		a, ok, err := d.GeneratePlatform(ctx, p)
		if err != nil {
			return res, err
		}
		if !ok {
			res.Skipped = append(res.Skipped, p.Name)
			continue
		}
		res.Artifacts = append(res.Artifacts, a)
	}
	return res, nil
}

// GeneratePlatform packages a single platform. The boolean result is false
// when the platform's binary does not exist.
func (d *Driver) GeneratePlatform(ctx context.Context, p config.Platform) (Artifact, bool, error) {
	d.logger.Info("Generating " + p.Label)

	src := d.cfg.SourcePath(p)
	if !fs.FileExists(src) {
		d.logger.Debug("binary not found, skipping platform", "platform", p.Name, "path", src)
		return Artifact{}, false, nil
	}

	if err := d.stager.Stage(src); err != nil {
		return Artifact{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, false, err
	}

	dest := d.cfg.ArtifactPath(p)
	var err error
	switch p.Format {
	case config.FormatZip:
		err = WriteZip(d.cfg.WorkDir, dest, d.cfg.Version)
	case config.FormatTXZ:
		err = d.writeTXZ(dest)
	default:
		err = &UnknownFormatError{Platform: p.Name, Format: p.Format}
	}
	if err != nil {
		return Artifact{}, false, err
	}

	info, err := os.Stat(dest)
	if err != nil {
		return Artifact{}, false, fmt.Errorf("failed to stat archive: %w", err)
	}

	d.logger.Debug("archive written", "platform", p.Name, "path", dest, "size", info.Size())
	return Artifact{Platform: p.Name, Path: dest, Size: info.Size()}, true, nil
}

// writeTXZ builds an intermediate ZIP next to dest and converts it.
func (d *Driver) writeTXZ(dest string) error {
	tmp, err := os.CreateTemp(d.cfg.DistDir, ".amxx-*.zip")
	if err != nil {
		return fmt.Errorf("failed to create intermediate ZIP: %w", err)
	}
	tmpPath := tmp.Name()
	if err = tmp.Close(); err != nil {
		return err
	}

	if err = WriteZip(d.cfg.WorkDir, tmpPath, d.cfg.Version); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err = ConvertZipToTXZ(tmpPath, dest, LocalOffset(d.now())); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
