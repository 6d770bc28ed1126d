package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/rostoc-updates/internal/config"
	"github.com/oshokin/rostoc-updates/internal/logger"
	"github.com/oshokin/rostoc-updates/internal/service/resolve"
	"github.com/oshokin/rostoc-updates/internal/version"
)

var (
	// cdnBase overrides the SPACES_CDN_BASE environment variable.
	cdnBase string

	// rootCmd prints one storage location of a release artifact.
	rootCmd = &cobra.Command{
		Use:   "rostoc-storage-path <path|url|signature> <version> <filename> [channel]",
		Short: "Print the storage path, CDN URL or signature path of a release artifact.",
		Example: `  rostoc-storage-path path 0.2.143 Rostoc_0.2.143_aarch64.dmg staging
  SPACES_CDN_BASE=https://cdn.example.com rostoc-storage-path url 0.2.143 file.dmg`,
		Args:          cobra.RangeArgs(3, 4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &resolve.PathOptions{
				Type:     args[0],
				Version:  args[1],
				Filename: args[2],
				CDNBase:  cdnBase,
			}

			if len(args) > 3 {
				opts.Channel = args[3]
			}

			if opts.CDNBase == "" {
				opts.CDNBase = config.CDNBaseFromEnv()
			}

			location, err := resolve.Path(opts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), location)

			return err
		},
	}
)

// Execute runs the rostoc-storage-path CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(context.Background(), err)
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVar(&cdnBase, "cdn-base", "", "CDN base URL (default $"+config.CDNBaseEnv+")")
}
