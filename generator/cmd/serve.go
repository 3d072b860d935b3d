package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/byte4ever/docgen/digester"
	"github.com/byte4ever/docgen/preview"
)

func serveCmd() *cobra.Command {
	var (
		dir  string
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the generated site locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(
				cmd.Context(), os.Interrupt, syscall.SIGTERM,
			)
			defer stop()

			return preview.Serve(ctx, addr, dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "./docs", "Directory to serve")
	cmd.Flags().StringVar(&addr, "addr", ":8000", "Listen address")

	return cmd
}

func verifyCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the generated site against its manifest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			const errCtx = "running verify"

			mf, err := digester.ReadManifest(
				filepath.Join(dir, digester.ManifestName),
			)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			changed, err := digester.VerifyManifest(dir, mf)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			out := cmd.OutOrStdout()

			for _, path := range changed {
				fmt.Fprintf(out, "changed: %s\n", path) //nolint:errcheck // terminal output
			}

			if len(changed) > 0 {
				return fmt.Errorf(
					"%s: %d of %d files changed",
					errCtx, len(changed), len(mf.Files),
				)
			}

			fmt.Fprintf(out, "%d files match %s\n", len(mf.Files), digester.ManifestName) //nolint:errcheck // terminal output

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "./docs", "Generated site directory")

	return cmd
}
