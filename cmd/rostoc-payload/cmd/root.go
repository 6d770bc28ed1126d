package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/rostoc-updates/internal/config"
	"github.com/oshokin/rostoc-updates/internal/logger"
	"github.com/oshokin/rostoc-updates/internal/service/payload"
	"github.com/oshokin/rostoc-updates/internal/version"
)

var (
	// configPath to an optional YAML file with publish settings.
	configPath string
	// flagConfig collects settings given on the command line; they win over the file.
	flagConfig config.Config

	// rootCmd represents the base command for assembling the publish payload.
	rootCmd = &cobra.Command{
		Use:   "rostoc-payload",
		Short: "Build the backend publish payload from release artifacts.",
		Long: `Discovers the installers, updater archives and detached signatures of a release
in the per-platform build output directories, checksums them and writes one JSON
payload the backend uses to serve and verify the release.

Settings can come from flags, from a YAML file (--config) or, for the CDN base,
from the SPACES_CDN_BASE environment variable. Flags win over the file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			cfg := &flagConfig

			if configPath != "" {
				fileConfig, err := config.Load(configPath)
				if err != nil {
					return err
				}

				cfg = config.Merge(fileConfig, &flagConfig)
			}

			applyLogLevel(ctx, cfg.LogLevel)

			return payload.Run(ctx, &payload.Options{Config: cfg})
		},
	}
)

// Execute runs the rostoc-payload CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(context.Background(), err)
		os.Exit(1)
	}
}

// applyLogLevel switches the global log level, keeping info for unknown values.
func applyLogLevel(ctx context.Context, value string) {
	level, ok := logger.ParseLogLevel(value)
	if !ok {
		logger.WarnKV(ctx, "Unknown log level, using info", "log_level", value)
	}

	logger.SetLevel(level)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()

	flags.StringVarP(&configPath, "config", "c", "", "path to a YAML file with publish settings")
	flags.StringVar(&flagConfig.Version, "version", "", "release version (required)")
	flags.StringVar(&flagConfig.Channel, "channel", "", "release channel (default \"stable\")")
	flags.StringVar(&flagConfig.BuildSHA, "build-sha", "", "build identifier (required)")
	flags.StringVar(&flagConfig.CDNBase, "cdn-base", "",
		"public CDN base, with or without a scheme (default $"+config.CDNBaseEnv+")")
	flags.StringVar(&flagConfig.ManifestPath, "manifest", "", "path to the manifest payload JSON (required)")
	flags.StringVar(&flagConfig.ReleasesPath, "releases", "", "path to the releases manifest JSON (required)")
	flags.StringVar(&flagConfig.MacRoot, "mac-root", "",
		"macOS artifact directory (default \""+config.DefaultMacRoot+"\")")
	flags.StringVar(&flagConfig.WindowsRoot, "windows-root", "",
		"Windows artifact directory (default \""+config.DefaultWindowsRoot+"\")")
	flags.StringVar(&flagConfig.LinuxRoot, "linux-root", "",
		"Linux artifact directory (default \""+config.DefaultLinuxRoot+"\")")
	flags.StringVarP(&flagConfig.OutputPath, "output", "o", "",
		"payload destination (default \""+config.DefaultOutputPath+"\")")
	flags.StringVar(&flagConfig.LogLevel, "log-level", "", "log level: debug, info, warn or error")
}
