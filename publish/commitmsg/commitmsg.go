package commitmsg

import (
	"log/slog"
	"strings"
)

const (
	begin = "--- docgen files begin ---"
	end   = "--- docgen files end ---"
)

// ExtractFiles returns the site files listed between the
// markers of msg. It returns nil when the begin marker is
// not closed.
func ExtractFiles(msg string) []string {
	var files []string

	betweenMarkers := false

	for _, line := range strings.Split(msg, "\n") {
		line = strings.TrimSuffix(line, "\r")

		switch line {
		case begin:
			betweenMarkers = true
		case end:
			betweenMarkers = false
		default:
			if betweenMarkers && line != "" {
				files = append(files, line)
			}
		}
	}

	if betweenMarkers {
		slog.Warn("unable to find end marker in commit message")

		return nil
	}

	return files
}

// Generate returns a commit message made of title and a
// body listing files between markers.
func Generate(title string, files []string) string {
	var sb strings.Builder

	sb.WriteString(title)
	sb.WriteString("\n\n")
	sb.WriteString(begin)
	sb.WriteByte('\n')

	for _, fl := range files {
		sb.WriteString(fl)
		sb.WriteByte('\n')
	}

	sb.WriteString(end)
	sb.WriteByte('\n')

	return sb.String()
}

// HasRemoved reports whether any file of prev is missing
// from current.
func HasRemoved(prev []string, current []string) bool {
	cur := make(map[string]struct{}, len(current))
	for _, fl := range current {
		cur[fl] = struct{}{}
	}

	for _, fl := range prev {
		if _, ok := cur[fl]; !ok {
			return true
		}
	}

	return false
}
