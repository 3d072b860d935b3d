package publish

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/byte4ever/docgen/digester"
)

// listFiles returns the slash separated paths of every
// regular file under dir, sorted.
func listFiles(dir string) ([]string, error) {
	const errCtx = "listing files"

	var files []string

	err := filepath.WalkDir(
		dir,
		func(path string, de fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if de.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}

			files = append(files, filepath.ToSlash(rel))

			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	sort.Strings(files)

	return files, nil
}

// pagesOf keeps the HTML pages of files.
func pagesOf(files []string) []string {
	var pages []string

	for _, fl := range files {
		if strings.EqualFold(filepath.Ext(fl), ".html") {
			pages = append(pages, fl)
		}
	}

	return pages
}

// checkManifest verifies the manifest of dir when there
// is one.
func checkManifest(dir string) error {
	const errCtx = "checking manifest"

	path := filepath.Join(dir, digester.ManifestName)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	mf, err := digester.ReadManifest(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	changed, err := digester.VerifyManifest(dir, mf)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if len(changed) > 0 {
		return fmt.Errorf(
			"%s: %d files changed since generation: %s",
			errCtx, len(changed), strings.Join(changed, ", "),
		)
	}

	return nil
}
