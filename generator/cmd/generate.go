package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byte4ever/docgen/generator"
)

func generateCmd() *cobra.Command {
	var cfg generator.Config

	cmd := &cobra.Command{
		Use:   "generate CONFIG",
		Short: "Render the documentation pages",
		Long: `Render index.html, quickstart.html, core-concept.html and
api/index.html from the template directory into the output directory.
Missing templates are skipped. The css, js and images directories are
copied as they are.

Examples:
  docgen generate config.json
  docgen generate config.yaml --template-dir site --output-dir public
  docgen generate config.json --variable VERSION=1.2.0 --manifest`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const errCtx = "running generate"

			cfg.ConfigPath = args[0]

			rep, err := generator.Run(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			if err := rep.Print(cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&cfg.TemplateDir, "template-dir", ".", "Directory holding the page templates and assets")
	fl.StringVar(&cfg.OutputDir, "output-dir", "./docs", "Directory receiving the generated site")
	fl.StringArrayVar(&cfg.StampInfoFiles, "stamp-info-file", nil, "KEY VALUE stamp file (repeatable)")
	fl.StringArrayVar(&cfg.Variables, "variable", nil, "NAME=VALUE override (repeatable)")
	fl.BoolVar(&cfg.Manifest, "manifest", false, "Write a checksum manifest of the generated files")

	return cmd
}
