package stamper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// ErrBadTarget is returned for a target whose path is
// empty or leaves the site directory.
var ErrBadTarget = errors.New("bad stamp target")

// Target is a site file rendered from a {VAR} format, such
// as a CNAME or a version badge.
type Target struct {
	// Path is slash separated and relative to the site.
	Path   string
	Format string
}

// ParseTarget parses "PATH=FORMAT". A FORMAT starting with
// "@" names a file whose content is the format.
func ParseTarget(spec string) (Target, error) {
	const errCtx = "parsing stamp target"

	path, format, ok := strings.Cut(spec, "=")
	if !ok {
		return Target{}, fmt.Errorf(
			"%s: want PATH=FORMAT, got %q", errCtx, spec,
		)
	}

	if err := checkPath(path); err != nil {
		return Target{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	if name, fromFile := strings.CutPrefix(format, "@"); fromFile {
		content, err := os.ReadFile(name) //nolint:gosec // path from CLI flag
		if err != nil {
			return Target{}, fmt.Errorf("%s: %w", errCtx, err)
		}

		format = string(content)
	}

	return Target{Path: path, Format: format}, nil
}

// StampSite writes every target under dir, expanded with
// stamps, and returns the written paths in target order.
// Files are replaced atomically.
func StampSite(
	dir string,
	stamps map[string]any,
	targets []Target,
) ([]string, error) {
	const errCtx = "stamping site"

	written := make([]string, 0, len(targets))

	for _, tg := range targets {
		if err := checkPath(tg.Path); err != nil {
			return written, fmt.Errorf("%s: %w", errCtx, err)
		}

		dst := filepath.Join(dir, filepath.FromSlash(tg.Path))

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil { //nolint:gosec // site dirs are world-readable
			return written, fmt.Errorf("%s: %w", errCtx, err)
		}

		if err := atomic.WriteFile(
			dst, strings.NewReader(Expand(tg.Format, stamps)),
		); err != nil {
			return written, fmt.Errorf("%s: %w", errCtx, err)
		}

		written = append(written, tg.Path)
	}

	return written, nil
}

func checkPath(path string) error {
	if path == "" || !filepath.IsLocal(filepath.FromSlash(path)) {
		return fmt.Errorf("%w: %q", ErrBadTarget, path)
	}

	return nil
}
