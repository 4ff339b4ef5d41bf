package app

import (
	"github.com/spf13/cobra"
)

// NewPackageCmd creates a new package command.
func NewPackageCmd(m Manager) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "package <version>",
		Short: "Build the per-platform release archives",
		Long: `
Stage each available platform binary into dist/addons/amxmodx/modules and write
its archive to out/:

  yapb-amxx-module-<version>-windows.zip
  yapb-amxx-module-<version>-linux.tar.xz
  yapb-amxx-module-<version>-macos.zip

Platforms whose binary has not been built are skipped. With --watch (-w) the
build directories are monitored and the archives rebuilt whenever a binary
changes, until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := reportOptionsFrom(cmd)
			if watch {
				return m.WatchPackage(cmd.Context(), opts, nil)
			}
			return m.Package(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Watch the build directories and repackage on change")

	return cmd
}
