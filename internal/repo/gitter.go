// Package repo reads commit and tag information from the local git checkout.
package repo

import "context"

// Revision represents a specific git point-in-time (tag or hash).
type Revision string

func (r Revision) String() string { return string(r) }

// Commit is a single commit of the checkout.
type Commit struct {
	SHA     Revision
	Message string
}

// Gitter defines the interface for git repository operations.
type Gitter interface {
	// HeadCommit returns the commit currently checked out.
	HeadCommit(ctx context.Context) (Commit, error)

	// LocalTag returns the commit a tag points to, and whether the tag exists.
	LocalTag(ctx context.Context, name string) (Revision, bool, error)
}
