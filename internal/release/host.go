// Package release publishes packaged deliverables as a tagged release.
package release

import "context"

// Commit identifies the commit a release is tagged on.
type Commit struct {
	SHA     string
	Message string
}

// TagRelease describes the tag and release to create.
type TagRelease struct {
	Tag        string
	TagMessage string
	Name       string
	Body       string
	CommitSHA  string
	Draft      bool
}

// Release is a release entry on the hosting platform.
type Release struct {
	ID      int64
	TagName string
	Name    string
	HTMLURL string
}

// Asset is a file attached to a release.
type Asset struct {
	Name  string
	Label string
	Size  int64
	URL   string
}

// Host is the narrow view of the hosting platform a release needs.
type Host interface {
	// LatestCommit returns the most recent commit of the repository.
	LatestCommit(ctx context.Context) (Commit, error)
	// CreateTaggedRelease creates an annotated tag on a commit and a release for it.
	CreateTaggedRelease(ctx context.Context, tr TagRelease) (Release, error)
	// UploadAsset attaches the file at path to the release.
	UploadAsset(ctx context.Context, r Release, path, label string) (Asset, error)
}
