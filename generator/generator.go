package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/byte4ever/docgen/assets"
	"github.com/byte4ever/docgen/digester"
	"github.com/byte4ever/docgen/docconfig"
	"github.com/byte4ever/docgen/stamper"
	"github.com/byte4ever/docgen/templating"
)

// Templates lists the page templates looked up in the template
// directory, in processing order. Paths are slash separated.
var Templates = []string{
	"index.html",
	"quickstart.html",
	"core-concept.html",
	"api/index.html",
}

// coreConceptKey names the top-level key that renames the core
// concept page.
const coreConceptKey = "CORE_CONCEPT_PAGE"

// Config holds all settings for a documentation build.
type Config struct {
	// ConfigPath is the JSON or YAML configuration file.
	ConfigPath string

	// TemplateDir holds the page templates and the asset
	// directories.
	TemplateDir string

	// OutputDir receives the generated site.
	OutputDir string

	// StampInfoFiles are KEY VALUE files whose entries are
	// added as top-level scalars.
	StampInfoFiles []string

	// Variables are NAME=VALUE overrides applied last.
	Variables []string

	// Manifest writes a checksum manifest when true.
	Manifest bool

	// Now returns the manifest timestamp; time.Now when nil.
	Now func() time.Time
}

// Run executes a documentation build. Configuration errors abort
// the build before anything is written.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	const errCtx = "generating documentation"

	// Step 1: Load configuration and apply overrides.
	doc, err := loadConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	// Step 2: Prepare the output directory.
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil { //nolint:gosec // site must be world-readable
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	rep := &Report{OutputDir: cfg.OutputDir}

	// Step 3: Copy static assets.
	rep.Assets, err = assets.Copy(cfg.TemplateDir, cfg.OutputDir)
	if err != nil {
		return rep, fmt.Errorf("%s: %w", errCtx, err)
	}

	// Step 4: Render every template present.
	var pages []string

	for _, name := range Templates {
		if err := ctx.Err(); err != nil {
			return rep, fmt.Errorf("%s: %w", errCtx, err)
		}

		rel, ok, err := renderPage(cfg, doc, name)
		if err != nil {
			return rep, fmt.Errorf("%s: %w", errCtx, err)
		}

		if !ok {
			continue
		}

		pages = append(pages, rel)
		rep.Generated = append(
			rep.Generated,
			filepath.Join(cfg.OutputDir, filepath.FromSlash(rel)),
		)
	}

	// Step 5: Record digests of everything written.
	if cfg.Manifest {
		rep.Manifest, err = writeManifest(cfg, pages, rep.Assets)
		if err != nil {
			return rep, fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	return rep, nil
}

// loadConfig reads the configuration file and overlays stamps
// and variables on it.
func loadConfig(cfg Config) (*docconfig.Scope, error) {
	const errCtx = "loading configuration"

	doc, err := docconfig.Load(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	stamps, err := stamper.LoadStamps(cfg.StampInfoFiles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	doc, err = docconfig.Overlay(doc, stamps, cfg.Variables)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return doc, nil
}

// renderPage renders one template and writes it atomically.
// It returns the slash separated output path relative to the
// output directory, and false when the template is absent.
func renderPage(
	cfg Config,
	doc *docconfig.Scope,
	name string,
) (string, bool, error) {
	const errCtx = "rendering page"

	src := filepath.Join(cfg.TemplateDir, filepath.FromSlash(name))

	content, err := os.ReadFile(src) //nolint:gosec // path built from template dir
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("template not found", "path", src)

		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("%s: %w", errCtx, err)
	}

	rendered := templating.Render(string(content), doc)

	rel := OutputName(name, doc)
	dst := filepath.Join(cfg.OutputDir, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil { //nolint:gosec // site must be world-readable
		return "", false, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := atomic.WriteFile(
		dst, strings.NewReader(rendered),
	); err != nil {
		return "", false, fmt.Errorf(
			"%s: write %s: %w", errCtx, dst, err,
		)
	}

	slog.Info(
		"generated page",
		"template", name,
		"path", dst,
		"bytes", len(rendered),
	)

	return rel, true, nil
}

// OutputName returns the slash separated output path of the
// template name. The core concept page takes the name given
// by the top-level CORE_CONCEPT_PAGE key when present.
func OutputName(name string, doc *docconfig.Scope) string {
	if name != "core-concept.html" {
		return name
	}

	val, ok := doc.Get(coreConceptKey)
	if !ok {
		return name
	}

	return pageStem(val) + ".html"
}

// pageStem is the file name text of a CORE_CONCEPT_PAGE
// value. Booleans and null read True, False and None.
func pageStem(val any) string {
	if text, ok := docconfig.FormatScalar(val); ok {
		return text
	}

	switch vl := val.(type) {
	case nil:
		return "None"
	case bool:
		if vl {
			return "True"
		}

		return "False"
	default:
		return fmt.Sprint(val)
	}
}

// writeManifest digests the generated pages and the copied
// asset files and writes the manifest in the output directory.
func writeManifest(
	cfg Config,
	pages []string,
	assetDirs []string,
) (string, error) {
	const errCtx = "writing manifest"

	files := append([]string(nil), pages...)

	for _, dir := range assetDirs {
		err := filepath.WalkDir(
			filepath.Join(cfg.OutputDir, dir),
			func(path string, de fs.DirEntry, err error) error {
				if err != nil {
					return err
				}

				if de.IsDir() {
					return nil
				}

				rel, err := filepath.Rel(cfg.OutputDir, path)
				if err != nil {
					return err
				}

				files = append(files, filepath.ToSlash(rel))

				return nil
			},
		)
		if err != nil {
			return "", fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}

	mf, err := digester.BuildManifest(cfg.OutputDir, files, now())
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	path := filepath.Join(cfg.OutputDir, digester.ManifestName)

	if err := digester.WriteManifest(path, mf); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info("wrote manifest", "path", path, "count", len(files))

	return path, nil
}
