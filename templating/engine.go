package templating

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/byte4ever/docgen/docconfig"
	"github.com/byte4ever/docgen/stamper"
)

// Engine renders single template files using a
// configuration tree, stamp info files and explicit
// variables.
type Engine struct {
	StampInfoFiles []string
}

// Expand reads a template, renders it, and writes the
// result. If tplPath is empty it reads stdin; if outPath
// is empty it writes to stdout. If executable is true the
// output file receives mode 0777 instead of 0666.
//
// Processing order:
//  1. Load stamp files into a stamp map.
//  2. Overlay stamps and NAME=VALUE variables on cfg;
//     variable values are expanded against stamps with
//     single-brace tags.
//  3. Render the template against the overlaid config.
func (en *Engine) Expand(
	tplPath string,
	outPath string,
	cfg *docconfig.Scope,
	vars []string,
	executable bool,
) error {
	const errCtx = "expanding template"

	stamps, err := stamper.LoadStamps(en.StampInfoFiles)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if cfg == nil {
		cfg = docconfig.NewScope()
	}

	merged, err := docconfig.Overlay(cfg, stamps, vars)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	tplContent, err := en.readTemplate(tplPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	out, closer, err := en.openOutput(outPath, executable)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if closer != nil {
		defer closer()
	}

	rendered := Render(string(tplContent), merged)

	slog.Debug(
		"rendered template",
		"template", tplPath,
		"bytes", len(rendered),
	)

	if _, err := io.WriteString(out, rendered); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// readTemplate reads the template from a file path. If
// tplPath is empty it reads from stdin.
func (en *Engine) readTemplate(
	tplPath string,
) ([]byte, error) {
	const errCtx = "reading template"

	if tplPath != "" {
		content, err := os.ReadFile(tplPath) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return content, nil
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: reading stdin: %w", errCtx, err,
		)
	}

	return content, nil
}

// openOutput returns a writer for the result. When
// outPath is empty it returns stdout. The returned
// closer function must be called to finalize the file
// (may be nil for stdout).
func (en *Engine) openOutput(
	outPath string,
	executable bool,
) (io.Writer, func(), error) {
	const errCtx = "opening output"

	if outPath == "" {
		return os.Stdout, nil, nil
	}

	var perm os.FileMode = 0o666
	if executable {
		perm = 0o777
	}

	fi, err := os.OpenFile( //nolint:gosec // paths from CLI flags
		outPath,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		perm,
	)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return fi, func() {
		_ = fi.Close() //nolint:errcheck // best-effort close
	}, nil
}
