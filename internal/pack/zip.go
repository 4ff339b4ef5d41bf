package pack

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yapb/amxx-release/internal/fs"
)

// WriteZip archives the tree under root into a Deflate-compressed ZIP at dest.
// Entry names are relative to root and use forward slashes. Directories that
// contain no entries are written as explicit "name/" markers; other
// directories are implied by the files inside them. comment becomes the
// archive comment.
func WriteZip(root, dest, comment string) (err error) {
	absRoot, err := fs.CanonicalPath(root)
	if err != nil {
		return fmt.Errorf("failed to resolve staging root: %w", err)
	}
	absDest, err := resolveDest(dest)
	if err != nil {
		return fmt.Errorf("failed to resolve archive path: %w", err)
	}
	if isWithin(absRoot, absDest) {
		return &ArchiveInsideTreeError{Archive: absDest, Root: absRoot}
	}

	zipFile, err := os.Create(absDest)
	if err != nil {
		return fmt.Errorf("failed to create ZIP file: %w", err)
	}
	defer func() {
		if closeErr := zipFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(absDest)
		}
	}()

	zipWriter := zip.NewWriter(zipFile)
	defer func() {
		if closeErr := zipWriter.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err = zipWriter.SetComment(comment); err != nil {
		return fmt.Errorf("failed to set archive comment: %w", err)
	}

	walkErr := filepath.WalkDir(absRoot, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == absRoot {
			return nil
		}

		relPath, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}
		zipPath := filepath.ToSlash(relPath)

		if d.IsDir() {
			empty, emptyErr := fs.IsEmptyDir(path)
			if emptyErr != nil {
				return fmt.Errorf("failed to read directory %s: %w", path, emptyErr)
			}
			if !empty {
				return nil
			}
			info, infoErr := d.Info()
			if infoErr != nil {
				return fmt.Errorf("failed to get directory info: %w", infoErr)
			}
			return addDirEntry(zipWriter, zipPath, info)
		}

		// Symlinks are archived as the file they point to.
		info, infoErr := os.Stat(path)
		if infoErr != nil {
			return fmt.Errorf("failed to get file info: %w", infoErr)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return addFileEntry(zipWriter, path, zipPath, info)
	})
	if walkErr != nil {
		err = fmt.Errorf("failed to archive %s: %w", root, walkErr)
		return err
	}

	return nil
}

func addDirEntry(zw *zip.Writer, zipPath string, info os.FileInfo) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create directory header: %w", err)
	}
	header.Name = zipPath + "/"
	header.Method = zip.Store
	header.Modified = info.ModTime()

	if _, err = zw.CreateHeader(header); err != nil {
		return fmt.Errorf("failed to create directory entry: %w", err)
	}
	return nil
}

func addFileEntry(zw *zip.Writer, path, zipPath string, info os.FileInfo) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create file header: %w", err)
	}
	header.Name = zipPath
	header.Method = zip.Deflate
	// FileInfoHeader normalises to UTC; keep the local wall clock in the DOS
	// fields so the archive matches what other zip tools produce.
	header.Modified = info.ModTime()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create ZIP entry: %w", err)
	}
	if _, err = io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// resolveDest resolves symlinks in the directory holding dest so it can be
// compared against a canonical root. The directory may not exist yet.
func resolveDest(dest string) (string, error) {
	dir, err := fs.CanonicalPath(filepath.Dir(dest))
	if err != nil {
		return filepath.Abs(dest)
	}
	return filepath.Join(dir, filepath.Base(dest)), nil
}

func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
