package pack

import (
	"fmt"

	"github.com/yapb/amxx-release/internal/config"
)

// UnknownFormatError is returned when a platform names an archive format the
// driver cannot produce.
type UnknownFormatError struct {
	Platform string
	Format   config.Format
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("platform %s uses unknown archive format '%s'", e.Platform, e.Format)
}

// ArchiveInsideTreeError is returned when the archive being written would be
// part of the tree it archives.
type ArchiveInsideTreeError struct {
	Archive string
	Root    string
}

func (e *ArchiveInsideTreeError) Error() string {
	return fmt.Sprintf("archive %s must not be written inside the staging tree %s", e.Archive, e.Root)
}
