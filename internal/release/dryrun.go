package release

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yapb/amxx-release/internal/repo"
)

// DryRunHost is a Host that reads the local checkout instead of the remote
// and logs the calls a real run would make.
type DryRunHost struct {
	gitter repo.Gitter
	logger *slog.Logger
}

// NewDryRunHost creates a DryRunHost backed by the given checkout.
func NewDryRunHost(gitter repo.Gitter, logger *slog.Logger) *DryRunHost {
	return &DryRunHost{gitter: gitter, logger: logger.With("component", "dry-run")}
}

// LatestCommit returns the commit checked out locally.
func (h *DryRunHost) LatestCommit(ctx context.Context) (Commit, error) {
	c, err := h.gitter.HeadCommit(ctx)
	if err != nil {
		return Commit{}, fmt.Errorf("failed to read local HEAD: %w", err)
	}
	return Commit{SHA: c.SHA.String(), Message: c.Message}, nil
}

// CreateTaggedRelease logs the tag and release it would create. A local tag
// with the same name is reported, since the real run would collide with it.
func (h *DryRunHost) CreateTaggedRelease(ctx context.Context, tr TagRelease) (Release, error) {
	existing, found, err := h.gitter.LocalTag(ctx, tr.Tag)
	if err != nil {
		return Release{}, err
	}
	if found {
		h.logger.Warn("tag already exists locally", "tag", tr.Tag, "commit", existing.String())
	}

	h.logger.Info("would create tag", "tag", tr.Tag, "commit", tr.CommitSHA)
	h.logger.Info("would create release", "name", tr.Name, "draft", tr.Draft)
	return Release{TagName: tr.Tag, Name: tr.Name}, nil
}

// UploadAsset logs the upload it would perform.
func (h *DryRunHost) UploadAsset(_ context.Context, _ Release, path, label string) (Asset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Asset{}, fmt.Errorf("failed to stat asset: %w", err)
	}
	name := filepath.Base(path)
	h.logger.Info("would upload asset", "name", name, "label", label, "size", info.Size())
	return Asset{Name: name, Label: label, Size: info.Size()}, nil
}
