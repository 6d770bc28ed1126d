package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/rostoc-updates/internal/logger"
	"github.com/oshokin/rostoc-updates/internal/service/resolve"
	"github.com/oshokin/rostoc-updates/internal/version"
)

// rootCmd prints one canonical artifact filename.
//
//nolint:gochecknoglobals // Required by Cobra CLI framework architecture.
var rootCmd = &cobra.Command{
	Use:   "rostoc-artifact-name <archive|installer|signature> [args...]",
	Short: "Print the canonical filename of a release artifact.",
	Example: `  rostoc-artifact-name archive 0.2.143 macos aarch64
  rostoc-artifact-name installer 0.2.143 windows i686
  rostoc-artifact-name signature Rostoc_0.2.143_aarch64.dmg`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := resolve.Name(args[0], args[1:])
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), name)

		return err
	},
}

// Execute runs the rostoc-artifact-name CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(context.Background(), err)
		os.Exit(1)
	}
}
