package stamper

import (
	"fmt"
	"os"
	"strings"

	"github.com/valyala/fasttemplate"
)

// LoadStamps reads workspace status files and merges them
// into a single map; later files override earlier ones.
// Each line is "KEY VALUE" with the first space as
// delimiter. Blank lines, "#" comments and lines without
// a space are skipped; a trailing carriage return is
// dropped.
func LoadStamps(
	infoFiles []string,
) (map[string]any, error) {
	const errCtx = "loading stamps"

	stamps := make(map[string]any)

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		parseStatus(string(content), stamps)
	}

	return stamps, nil
}

// parseStatus adds the entries of one status file to
// stamps.
func parseStatus(content string, stamps map[string]any) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if strings.HasPrefix(line, "#") {
			continue
		}

		key, val, ok := strings.Cut(line, " ")
		if !ok || key == "" {
			continue
		}

		stamps[key] = val
	}
}

// Expand substitutes the {VAR} placeholders of format
// with stamps. Unknown variables are preserved as-is.
func Expand(format string, stamps map[string]any) string {
	return fasttemplate.ExecuteStringStd(
		format, "{", "}", stamps,
	)
}
