package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Dirs lists the asset directories copied from the template directory, in
// copy order.
var Dirs = []string{"css", "js", "images"}

// Copy copies every directory of Dirs found under templateDir into
// outputDir, merging into existing directories and overwriting existing
// files. Missing asset directories are skipped. It returns the names of the
// directories that were copied.
func Copy(templateDir string, outputDir string) ([]string, error) {
	const errCtx = "copying assets"

	var copied []string

	for _, name := range Dirs {
		src := filepath.Join(templateDir, name)

		fi, err := os.Stat(src)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("asset directory not found", "path", src)

			continue
		}

		if err != nil {
			return copied, fmt.Errorf("%s: %w", errCtx, err)
		}

		if !fi.IsDir() {
			slog.Debug("asset path is not a directory", "path", src)

			continue
		}

		if err := CopyTree(src, filepath.Join(outputDir, name)); err != nil {
			return copied, fmt.Errorf("%s: %s: %w", errCtx, name, err)
		}

		copied = append(copied, name)
	}

	return copied, nil
}

// CopyTree copies the directory tree rooted at src into dst. Directories
// are created as needed and regular files are overwritten, keeping their
// permission bits. Symbolic links are followed for files.
func CopyTree(src string, dst string) error {
	const errCtx = "copying tree"

	err := filepath.WalkDir(src, func(
		path string,
		de fs.DirEntry,
		walkErr error,
	) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)

		if de.IsDir() {
			return os.MkdirAll(target, 0o755) //nolint:gosec // public docs
		}

		return CopyFile(path, target)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// CopyFile copies src to dst, truncating dst if it exists, and applies the
// permission bits of src.
func CopyFile(src string, dst string) (retErr error) {
	const errCtx = "copying file"

	in, err := os.Open(src) //nolint:gosec // path under template dir
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	defer in.Close() //nolint:errcheck // read-only

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	out, err := os.OpenFile( //nolint:gosec // path under output dir
		dst,
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
		info.Mode().Perm(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := out.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := out.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}
