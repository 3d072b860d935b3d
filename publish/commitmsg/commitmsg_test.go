package commitmsg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/docgen/publish/commitmsg"
)

func TestGenerate_produces_markers(t *testing.T) {
	t.Parallel()

	msg := commitmsg.Generate(
		"Update 2 documentation pages",
		[]string{"index.html", "api/index.html"},
	)

	assert.Equal(t, `Update 2 documentation pages

--- docgen files begin ---
index.html
api/index.html
--- docgen files end ---
`, msg)
}

func TestExtractFiles_roundtrip(t *testing.T) {
	t.Parallel()

	pages := []string{"index.html", "widgets.html"}
	got := commitmsg.ExtractFiles(commitmsg.Generate("docs", pages))

	require.Equal(t, pages, got)
}

func TestExtractFiles_crlf(t *testing.T) {
	t.Parallel()

	msg := "docs\r\n\r\n--- docgen files begin ---\r\n" +
		"index.html\r\n--- docgen files end ---\r\n"

	assert.Equal(t, []string{"index.html"}, commitmsg.ExtractFiles(msg))
}

func TestExtractFiles_no_markers(t *testing.T) {
	t.Parallel()

	got := commitmsg.ExtractFiles("just a regular commit message")

	assert.Empty(t, got)
}

func TestExtractFiles_missing_end_marker(t *testing.T) {
	t.Parallel()

	msg := "--- docgen files begin ---\nindex.html\n"
	got := commitmsg.ExtractFiles(msg)

	assert.Nil(t, got)
}

func TestHasRemoved(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prev    []string
		current []string
		want    bool
	}{
		{
			name:    "same_pages",
			prev:    []string{"a.html", "b.html"},
			current: []string{"b.html", "a.html"},
			want:    false,
		},
		{
			name:    "page_added",
			prev:    []string{"a.html"},
			current: []string{"a.html", "b.html"},
			want:    false,
		},
		{
			name:    "page_removed",
			prev:    []string{"a.html", "b.html"},
			current: []string{"a.html"},
			want:    true,
		},
		{
			name:    "asset_removed",
			prev:    []string{"css/site.css", "index.html"},
			current: []string{"index.html"},
			want:    true,
		},
		{
			name:    "no_previous_pages",
			prev:    nil,
			current: []string{"a.html"},
			want:    false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(
				t, tt.want, commitmsg.HasRemoved(tt.prev, tt.current),
			)
		})
	}
}
