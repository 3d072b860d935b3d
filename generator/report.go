package generator

import (
	"fmt"
	"io"
)

// Report describes what a build produced.
type Report struct {
	// OutputDir is the build output directory.
	OutputDir string

	// Generated lists the written pages, joined with
	// OutputDir, in template order.
	Generated []string

	// Assets lists the copied asset directory names.
	Assets []string

	// Manifest is the manifest path, empty when none
	// was written.
	Manifest string
}

// Print writes the human readable build summary.
func (rep *Report) Print(w io.Writer) error {
	const errCtx = "printing report"

	for _, path := range rep.Generated {
		if _, err := fmt.Fprintf(w, "Generated: %s\n", path); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	if rep.Manifest != "" {
		if _, err := fmt.Fprintf(w, "Manifest: %s\n", rep.Manifest); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	if _, err := fmt.Fprintf(
		w,
		"\nDocumentation generated in: %s\n"+
			"\nNext steps:\n"+
			"1. Add your images/videos to the images/ folder\n"+
			"2. Review and customize the generated content\n"+
			"3. Test locally: docgen serve --dir %s --addr :8000\n"+
			"4. Deploy to GitHub Pages or your hosting service\n",
		rep.OutputDir,
		rep.OutputDir,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}
