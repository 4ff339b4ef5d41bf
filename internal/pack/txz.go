package pack

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// LocalOffset returns how far the local zone at t is ahead of UTC.
func LocalOffset(t time.Time) time.Duration {
	_, offset := t.Local().Zone()
	return time.Duration(offset) * time.Second
}

// EntryModTime returns the modification time a TAR entry converted from f
// carries: the DOS wall clock stored in the ZIP entry, read as if it were UTC,
// shifted back by offset.
func EntryModTime(f *zip.FileHeader, offset time.Duration) time.Time {
	return dosWallClock(f).Add(-offset)
}

// ConvertZipToTXZ re-encodes every entry of the ZIP at zipPath into an
// XZ-compressed TAR at txzPath, keeping entry names and sizes and mapping
// timestamps with EntryModTime. The ZIP is removed once the TAR is complete.
func ConvertZipToTXZ(zipPath, txzPath string, offset time.Duration) error {
	if err := writeTXZ(zipPath, txzPath, offset); err != nil {
		_ = os.Remove(txzPath)
		return err
	}
	if err := os.Remove(zipPath); err != nil {
		return fmt.Errorf("failed to remove intermediate ZIP: %w", err)
	}
	return nil
}

func writeTXZ(zipPath, txzPath string, offset time.Duration) (err error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open ZIP: %w", err)
	}
	defer zr.Close()

	out, err := os.Create(txzPath)
	if err != nil {
		return fmt.Errorf("failed to create TXZ file: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	xzw, err := xz.NewWriter(out)
	if err != nil {
		return fmt.Errorf("failed to create XZ stream: %w", err)
	}
	defer func() {
		if closeErr := xzw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	tw := tar.NewWriter(xzw)
	defer func() {
		if closeErr := tw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, f := range zr.File {
		if err = copyEntry(tw, f, offset); err != nil {
			return err
		}
	}
	return nil
}

func copyEntry(tw *tar.Writer, f *zip.File, offset time.Duration) error {
	header := &tar.Header{
		Name:     f.Name,
		ModTime:  EntryModTime(&f.FileHeader, offset),
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(f.UncompressedSize64),
	}

	isDir := strings.HasSuffix(f.Name, "/")
	if isDir {
		header.Typeflag = tar.TypeDir
		header.Mode = 0o755
		header.Size = 0
	} else if perm := f.Mode().Perm(); perm != 0 {
		header.Mode = int64(perm)
	}

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write TAR header for %s: %w", f.Name, err)
	}
	if isDir {
		return nil
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open ZIP entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	if _, err = io.Copy(tw, rc); err != nil {
		return fmt.Errorf("failed to copy ZIP entry %s: %w", f.Name, err)
	}
	return nil
}

// dosWallClock decodes the MS-DOS date and time fields of a ZIP entry.
func dosWallClock(f *zip.FileHeader) time.Time {
	//nolint:staticcheck // the DOS fields hold the wall clock the entry was written with
	date, clock := f.ModifiedDate, f.ModifiedTime
	return time.Date(
		int(date>>9)+1980,
		time.Month(date>>5&0xf),
		int(date&0x1f),
		int(clock>>11),
		int(clock>>5&0x3f),
		int(clock&0x1f)*2,
		0,
		time.UTC,
	)
}
