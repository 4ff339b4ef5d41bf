package pack

import (
	"fmt"
	"path/filepath"

	"github.com/otiai10/copy"

	"github.com/yapb/amxx-release/internal/fs"
)

// Stager maintains the module directory of the staging tree.
type Stager struct {
	modDir   string
	binaries []string
}

// NewStager creates a Stager for modDir. binaries lists the filenames of every
// platform binary that may be present in it.
func NewStager(modDir string, binaries []string) *Stager {
	return &Stager{modDir: modDir, binaries: binaries}
}

// Unlink removes every known platform binary from the module directory so a
// binary from a previous platform never ends up in the next archive.
func (s *Stager) Unlink() error {
	for _, name := range s.binaries {
		if err := fs.RemoveIfExists(filepath.Join(s.modDir, name)); err != nil {
			return fmt.Errorf("failed to remove staged binary %s: %w", name, err)
		}
	}
	return nil
}

// Copy places the binary at src into the module directory under its own name.
func (s *Stager) Copy(src string) error {
	dest := filepath.Join(s.modDir, filepath.Base(src))
	if err := copy.Copy(src, dest, copy.Options{Sync: true}); err != nil {
		return fmt.Errorf("failed to stage %s: %w", src, err)
	}
	return nil
}

// Stage replaces whatever binary is staged with src.
func (s *Stager) Stage(src string) error {
	if err := s.Unlink(); err != nil {
		return err
	}
	return s.Copy(src)
}
