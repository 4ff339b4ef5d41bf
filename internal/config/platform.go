package config

import "path/filepath"

// Format identifies the archive container used for a platform's deliverable.
type Format string

const (
	// FormatZip is a Deflate-compressed ZIP archive.
	FormatZip Format = "zip"
	// FormatTXZ is a TAR archive compressed with XZ.
	FormatTXZ Format = "txz"
)

// Platform describes one target platform: where its prebuilt binary lives and
// how its deliverable is packaged.
type Platform struct {
	Name           string // windows, linux or macos
	Label          string // human-readable name used in progress messages
	SourcePath     string // relative to the working directory
	BinaryName     string
	Format         Format
	ArtifactSuffix string
}

// DefaultPlatforms returns the three supported platforms in packaging order.
func DefaultPlatforms() []Platform {
	return []Platform{
		{
			Name:           "windows",
			Label:          "Win32 ZIP",
			SourcePath:     filepath.Join("build_x86_win32", "yapb_amxx.dll"),
			BinaryName:     "yapb_amxx.dll",
			Format:         FormatZip,
			ArtifactSuffix: "windows.zip",
		},
		{
			Name:           "linux",
			Label:          "Linux TXZ",
			SourcePath:     filepath.Join("build_x86_linux", "yapb_amxx_i386.so"),
			BinaryName:     "yapb_amxx_i386.so",
			Format:         FormatTXZ,
			ArtifactSuffix: "linux.tar.xz",
		},
		{
			Name:           "macos",
			Label:          "macOS ZIP",
			SourcePath:     filepath.Join("build_x86_macos", "yapb_amxx.dylib"),
			BinaryName:     "yapb_amxx.dylib",
			Format:         FormatZip,
			ArtifactSuffix: "macos.zip",
		},
	}
}
