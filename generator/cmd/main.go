// Command docgen builds a static documentation site from page
// templates and a JSON or YAML configuration, previews it locally
// and publishes it to a git repository or an S3 bucket.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "docgen",
		Short: "Generate documentation pages from templates",
		Long: `docgen renders documentation page templates against a
configuration file and copies the static assets next to them.

Examples:
  docgen generate config.json --template-dir site --output-dir docs
  docgen serve --dir docs
  docgen stamp --dir docs --stamp-info-file status.txt --file CNAME={STABLE_DOMAIN}
  docgen publish git --repo git@github.com:org/lib.git --dir docs`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setupLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info",
		"Log level: debug, info, warn or error",
	)

	cmd.AddCommand(
		generateCmd(),
		serveCmd(),
		verifyCmd(),
		stampCmd(),
		publishCmd(),
	)

	return cmd
}

// setupLogging installs a text handler on stderr at the
// named level.
func setupLogging(level string) error {
	const errCtx = "configuring logging"

	var lvl slog.Level

	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(
		os.Stderr, &slog.HandlerOptions{Level: lvl},
	)))

	return nil
}
