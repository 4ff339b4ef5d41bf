package app

import (
	"github.com/spf13/cobra"

	"github.com/yapb/amxx-release/internal/release"
)

// NewPublishCmd creates a new publish command.
func NewPublishCmd(m Manager) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "publish <version>",
		Short: "Tag the latest commit and upload the archives as a GitHub release",
		Long: `
Create an annotated tag <version> on the latest commit of the repository, a
release named after it, and upload the three archives from out/ in the order
linux, windows, macos.

If any archive is missing nothing is published. The API token is read from
$` + release.TokenEnvVar + `.

With --dry-run (-n) the latest commit is read from the local git checkout and
the API calls are logged instead of made.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return m.Publish(cmd.Context(), dryRun, reportOptionsFrom(cmd))
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Log the API calls instead of making them")

	return cmd
}
