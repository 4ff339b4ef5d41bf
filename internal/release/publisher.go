package release

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/yapb/amxx-release/internal/config"
	"github.com/yapb/amxx-release/internal/fs"
)

// Publication is what a successful publish created.
type Publication struct {
	Release Release
	Assets  []Asset
}

// Publisher tags the latest commit and attaches the packaged archives to a
// new release.
type Publisher struct {
	cfg    *config.Config
	host   Host
	logger *slog.Logger
}

// NewPublisher creates a Publisher that talks to host.
func NewPublisher(cfg *config.Config, host Host, logger *slog.Logger) *Publisher {
	return &Publisher{cfg: cfg, host: host, logger: logger.With("component", "release")}
}

// MissingArchives returns the release archives that are not on disk.
func (p *Publisher) MissingArchives() []string {
	var missing []string
	for _, path := range p.cfg.ReleaseArtifacts() {
		if !fs.FileExists(path) {
			missing = append(missing, path)
		}
	}
	return missing
}

// Publish creates the release. When any archive is missing nothing is sent to
// the host and a nil Publication is returned.
func (p *Publisher) Publish(ctx context.Context) (*Publication, error) {
	p.logger.Info("Creating Github Tag")

	if missing := p.MissingArchives(); len(missing) > 0 {
		for _, path := range missing {
			p.logger.Debug("archive not found, skipping release", "path", path)
		}
		return nil, nil
	}

	commit, err := p.host.LatestCommit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to look up latest commit: %w", err)
	}

	rel, err := p.host.CreateTaggedRelease(ctx, TagRelease{
		Tag:        p.cfg.Version,
		TagMessage: p.cfg.Version,
		Name:       p.cfg.ReleaseName(),
		Body:       commit.Message,
		CommitSHA:  commit.SHA,
		Draft:      false,
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("Uploading packages to Github")

	pub := &Publication{Release: rel}
	for _, path := range p.cfg.ReleaseArtifacts() {
		if err := ctx.Err(); err != nil {
			return pub, err
		}
		asset, err := p.host.UploadAsset(ctx, rel, path, filepath.Base(path))
		if err != nil {
			return pub, err
		}
		p.logger.Debug("uploaded asset", "name", asset.Name, "size", asset.Size)
		pub.Assets = append(pub.Assets, asset)
	}
	return pub, nil
}
