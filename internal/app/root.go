package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yapb/amxx-release/internal/config"
	"github.com/yapb/amxx-release/internal/fs"
	"github.com/yapb/amxx-release/internal/pack"
	"github.com/yapb/amxx-release/internal/release"
	"github.com/yapb/amxx-release/internal/repo"
	"github.com/yapb/amxx-release/internal/report"
	"github.com/yapb/amxx-release/internal/validator"
)

// Version is the current version of amxx-release, set at build time.
var Version = "dev"

const (
	RootDirEnvVar = "AMXX_RELEASE_ROOT_DIR"
	ConfigEnvVar  = "AMXX_RELEASE_CONFIG"
)

var LongDescription = `
amxx-release packages the prebuilt YaPB AMX Mod X module binaries into the
per-platform release archives and publishes them as a tagged GitHub release.

The working directory is expected to hold the build outputs:
  build_x86_win32/yapb_amxx.dll
  build_x86_linux/yapb_amxx_i386.so
  build_x86_macos/yapb_amxx.dylib

A platform whose binary is missing is skipped. A release is only published
when all three archives are present.
`

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stdout, stderr io.Writer,
	envProvider fs.EnvProvider,
) *cobra.Command {
	var debug bool
	var noColour bool
	var dryRun bool
	configPath := pathValue("")
	outputVal := formatValue(report.FormatText)

	rootCmd := &cobra.Command{
		Use:           "amxx-release <version>",
		Short:         "Package and publish a YaPB AMXX module release",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          LongDescription,
		Args:          cobra.ExactArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip initialization for help and completion commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) {
				return nil
			}

			// 1. Setup Logging
			if debug {
				ll.Set(slog.LevelDebug)
			}

			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			// 2. Build Dependencies
			rootDir, err := resolveRootDir(envProvider)
			if err != nil {
				return err
			}

			cfgPath := string(configPath)
			if cfgPath == "" {
				cfgPath = envProvider.Get(ConfigEnvVar)
			}

			var version string
			if len(args) > 0 {
				version = args[0]
			}
			cfg, err := config.New(rootDir, version, cfgPath, validator.NewSanthoshCompiler())
			if err != nil {
				return err
			}

			logger, _, err := setupLogger(stderr, ll, rootDir, envProvider)
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}

			host, err := release.NewGitHubHost(cfg, envProvider.Get(release.TokenEnvVar), nil)
			if err != nil {
				return err
			}
			dryRunHost := release.NewDryRunHost(repo.NewCLIGitter(rootDir), logger)

			// 3. Hydrate the Lazy Wrapper
			realMgr := NewCLIManager(
				logger,
				pack.NewDriver(cfg, logger),
				pack.NewWatcher(cfg, logger),
				release.NewPublisher(cfg, host, logger),
				release.NewPublisher(cfg, dryRunHost, logger),
				cfg.Version,
				stdout,
			)
			lazy.SetInner(realMgr)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return lazy.Release(cmd.Context(), dryRun, reportOptionsFrom(cmd))
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().Var(&configPath, "config",
		fmt.Sprintf("path to config file (default %s, or $%s)", config.FileName, ConfigEnvVar))
	rootCmd.PersistentFlags().VarP(&outputVal, "output", "o",
		fmt.Sprintf("Summary format (%s)", strings.Join(report.Formats(), ", ")))

	rootCmd.PersistentFlags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false,
		"Resolve the release from the local checkout and log the API calls instead of making them")

	// Subcommands
	rootCmd.AddCommand(NewPackageCmd(lazy))
	rootCmd.AddCommand(NewPublishCmd(lazy))

	return rootCmd
}

// resolveRootDir returns the absolute working directory holding the build outputs.
func resolveRootDir(envProvider fs.EnvProvider) (string, error) {
	rootDir := envProvider.Get(RootDirEnvVar)
	if rootDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", err)
		}
		rootDir = wd
	}
	abs, err := fs.NewPathResolver().Abs(rootDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", rootDir, err)
	}
	return abs, nil
}

// reportOptionsFrom reads the persistent summary flags.
func reportOptionsFrom(cmd *cobra.Command) ReportOptions {
	format := report.FormatText
	if f := cmd.Flags().Lookup("output"); f != nil {
		format = f.Value.String()
	}
	noColour, _ := cmd.Flags().GetBool("nocolour")
	return ReportOptions{Format: format, UseColour: !noColour}
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
