package docconfig

import (
	"fmt"
	"sort"
	"strings"

	"github.com/byte4ever/docgen/stamper"
)

// Overlay returns a copy of cfg with stamp values and NAME=VALUE variables
// bound as top-level text scalars. Variables override stamps and both
// override values from the document. Each variable value is first expanded
// against stamps using single-brace {VAR} tags, so VERSION={BUILD_LABEL}
// picks up the workspace status label.
func Overlay(
	cfg *Scope,
	stamps map[string]any,
	vars []string,
) (*Scope, error) {
	const errCtx = "overlaying config"

	out := cfg.Clone()

	keys := make([]string, 0, len(stamps))
	for key := range stamps {
		keys = append(keys, key)
	}

	// Map iteration is random; keep new keys deterministic.
	sort.Strings(keys)

	for _, key := range keys {
		out.Set(key, fmt.Sprint(stamps[key]))
	}

	for _, vr := range vars {
		parts := strings.SplitN(vr, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf(
				"%s: variable must be NAME=value, got %s",
				errCtx, vr,
			)
		}

		out.Set(parts[0], stamper.Expand(parts[1], stamps))
	}

	return out, nil
}
