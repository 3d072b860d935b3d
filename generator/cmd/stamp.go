package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/byte4ever/docgen/digester"
	"github.com/byte4ever/docgen/stamper"
)

func stampCmd() *cobra.Command {
	var (
		dir            string
		stampInfoFiles []string
		files          []string
	)

	cmd := &cobra.Command{
		Use:   "stamp",
		Short: "Write stamped files such as CNAME into the site",
		Long: `stamp renders PATH=FORMAT targets into the generated site.
FORMAT uses single-brace {VAR} tags filled from the stamp info
files; a FORMAT of @FILE reads the format from FILE. When the
site has a manifest, the stamped files are recorded in it.

Examples:
  docgen stamp --stamp-info-file status.txt \
    --file CNAME={STABLE_DOMAIN} \
    --file version.svg=@badge.svg.tpl`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			const errCtx = "running stamp"

			stamps, err := stamper.LoadStamps(stampInfoFiles)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			targets := make([]stamper.Target, 0, len(files))

			for _, spec := range files {
				tg, err := stamper.ParseTarget(spec)
				if err != nil {
					return fmt.Errorf("%s: %w", errCtx, err)
				}

				targets = append(targets, tg)
			}

			written, err := stamper.StampSite(dir, stamps, targets)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			if err := recordStamped(dir, written); err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			out := cmd.OutOrStdout()

			for _, path := range written {
				fmt.Fprintf(out, "Stamped: %s\n", filepath.Join(dir, path)) //nolint:errcheck // terminal output
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "./docs", "Generated site directory")
	cmd.Flags().StringArrayVar(
		&stampInfoFiles, "stamp-info-file", nil,
		"Workspace status file (repeatable)",
	)
	cmd.Flags().StringArrayVar(
		&files, "file", nil,
		"PATH=FORMAT target to write (repeatable)",
	)

	return cmd
}

// recordStamped adds the written files to the site
// manifest when there is one.
func recordStamped(dir string, written []string) error {
	const errCtx = "recording stamped files"

	path := filepath.Join(dir, digester.ManifestName)

	mf, err := digester.ReadManifest(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := mf.Update(dir, written, time.Now()); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := digester.WriteManifest(path, mf); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info("updated manifest", "path", path, "files", len(written))

	return nil
}
