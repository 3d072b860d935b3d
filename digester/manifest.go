package digester

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/natefinch/atomic"
)

// ManifestName is the file name of the manifest inside the
// output directory.
const ManifestName = "docgen-manifest.json"

// Manifest records the digest of every generated file.
type Manifest struct {
	Generated string          `json:"generated"`
	Files     []ManifestEntry `json:"files"`
}

// ManifestEntry is one file of a Manifest. Path is slash
// separated and relative to the output directory.
type ManifestEntry struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size"`
}

// BuildManifest digests the files rel (relative to root) in
// the given order.
func BuildManifest(
	root string,
	rel []string,
	now time.Time,
) (*Manifest, error) {
	const errCtx = "building manifest"

	mf := &Manifest{
		Generated: now.UTC().Format(time.RFC3339),
		Files:     make([]ManifestEntry, 0, len(rel)),
	}

	for _, rp := range rel {
		abs := filepath.Join(root, filepath.FromSlash(rp))

		fi, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		dg, err := CalculateDigest(abs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		mf.Files = append(mf.Files, ManifestEntry{
			Path:   filepath.ToSlash(rp),
			SHA256: dg,
			Size:   fi.Size(),
		})
	}

	return mf, nil
}

// WriteManifest atomically writes mf as indented JSON.
func WriteManifest(path string, mf *Manifest) error {
	const errCtx = "writing manifest"

	data, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	data = append(data, '\n')

	if err := atomic.WriteFile(
		path, bytes.NewReader(data),
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	const errCtx = "reading manifest"

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var mf Manifest
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &mf, nil
}

// VerifyManifest returns the manifest paths whose file under
// root is missing or no longer matches its recorded digest.
func VerifyManifest(root string, mf *Manifest) ([]string, error) {
	const errCtx = "verifying manifest"

	var changed []string

	for _, en := range mf.Files {
		dg, err := CalculateDigest(
			filepath.Join(root, filepath.FromSlash(en.Path)),
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		if dg != en.SHA256 {
			changed = append(changed, en.Path)
		}
	}

	return changed, nil
}

// Update re-digests the files rel (relative to root). Known
// entries are refreshed in place, unknown ones are appended
// in order, and Generated moves to now.
func (mf *Manifest) Update(
	root string,
	rel []string,
	now time.Time,
) error {
	const errCtx = "updating manifest"

	fresh, err := BuildManifest(root, rel, now)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	index := make(map[string]int, len(mf.Files))
	for i, en := range mf.Files {
		index[en.Path] = i
	}

	for _, en := range fresh.Files {
		if i, ok := index[en.Path]; ok {
			mf.Files[i] = en

			continue
		}

		index[en.Path] = len(mf.Files)
		mf.Files = append(mf.Files, en)
	}

	mf.Generated = fresh.Generated

	return nil
}
