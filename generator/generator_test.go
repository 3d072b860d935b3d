package generator_test

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/docgen/digester"
	"github.com/byte4ever/docgen/docconfig"
	"github.com/byte4ever/docgen/generator"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

// writeTemp creates a file with content under dir,
// creating parent directories, and returns its path.
func writeTemp(
	tb testing.TB,
	dir string,
	name string,
	content string,
) string {
	tb.Helper()

	pa := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(tb, os.MkdirAll(filepath.Dir(pa), 0o755))
	require.NoError(tb, os.WriteFile(pa, []byte(content), 0o600))

	return pa
}

const siteConfig = `{
  "LIBRARY_NAME": "syft-widgets",
  "VERSION": "1.2.0",
  "CORE_CONCEPT_PAGE": "widgets",
  "homepage": {
    "FEATURES": [
      {
        "TITLE": "Fast",
        "DESCRIPTION": "Renders quickly",
        "HAS_LINK": true,
        "LINK": "quickstart.html"
      },
      {
        "TITLE": "Small",
        "DESCRIPTION": "Few dependencies",
        "HAS_LINK": false
      }
    ]
  },
  "api": {}
}`

const indexTemplate = `<h1>{{LIBRARY_NAME}} {{VERSION}}</h1>
<ul>
{{#FEATURES}}  <li>{{TITLE}}: {{DESCRIPTION}}{{#HAS_LINK}} <a href="{{LINK}}">more</a>{{/HAS_LINK}}</li>
{{/FEATURES}}</ul>
`

const indexExpected = `<h1>syft-widgets 1.2.0</h1>
<ul>
  <li>Fast: Renders quickly <a href="quickstart.html">more</a></li>
  <li>Small: Few dependencies</li>
</ul>
`

// newSite lays out a config file and a template directory
// holding every page template plus two asset directories.
func newSite(tb testing.TB) (string, string) {
	tb.Helper()

	dir := tb.TempDir()
	cfgPath := writeTemp(tb, dir, "config.json", siteConfig)

	tplDir := filepath.Join(dir, "templates")
	writeTemp(tb, tplDir, "index.html", indexTemplate)
	writeTemp(tb, tplDir, "quickstart.html", "<h1>Install {{LIBRARY_NAME}}</h1>\n")
	writeTemp(tb, tplDir, "core-concept.html", "<h1>{{CORE_CONCEPT_PAGE}}</h1>\n")
	writeTemp(tb, tplDir, "api/index.html", "<h1>{{LIBRARY_NAME}} API</h1>\n")
	writeTemp(tb, tplDir, "css/style.css", "body { margin: 0; }\n")
	writeTemp(tb, tplDir, "images/logo.svg", "<svg/>\n")

	return cfgPath, tplDir
}

func readFile(tb testing.TB, path string) string {
	tb.Helper()

	data, err := os.ReadFile(path)
	require.NoError(tb, err)

	return string(data)
}

func TestRun_generates_site(t *testing.T) {
	t.Parallel()

	cfgPath, tplDir := newSite(t)
	out := filepath.Join(t.TempDir(), "docs")

	rep, err := generator.Run(context.Background(), generator.Config{
		ConfigPath:  cfgPath,
		TemplateDir: tplDir,
		OutputDir:   out,
	})
	require.NoError(t, err)

	assert.Equal(t, out, rep.OutputDir)
	assert.Equal(t, []string{
		filepath.Join(out, "index.html"),
		filepath.Join(out, "quickstart.html"),
		filepath.Join(out, "widgets.html"),
		filepath.Join(out, "api", "index.html"),
	}, rep.Generated)
	assert.Equal(t, []string{"css", "images"}, rep.Assets)
	assert.Empty(t, rep.Manifest)

	assert.Equal(t, indexExpected, readFile(t, filepath.Join(out, "index.html")))
	assert.Equal(
		t,
		"<h1>Install syft-widgets</h1>\n",
		readFile(t, filepath.Join(out, "quickstart.html")),
	)
	assert.Equal(
		t,
		"<h1>widgets</h1>\n",
		readFile(t, filepath.Join(out, "widgets.html")),
	)
	assert.Equal(
		t,
		"<h1>syft-widgets API</h1>\n",
		readFile(t, filepath.Join(out, "api", "index.html")),
	)
	assert.Equal(
		t,
		"body { margin: 0; }\n",
		readFile(t, filepath.Join(out, "css", "style.css")),
	)
	assert.FileExists(t, filepath.Join(out, "images", "logo.svg"))
	assert.NoFileExists(t, filepath.Join(out, "core-concept.html"))
	assert.NoFileExists(t, filepath.Join(out, digester.ManifestName))
}

func TestRun_index_page_snapshot(t *testing.T) {
	t.Parallel()

	cfgPath, tplDir := newSite(t)
	out := t.TempDir()

	_, err := generator.Run(context.Background(), generator.Config{
		ConfigPath:  cfgPath,
		TemplateDir: tplDir,
		OutputDir:   out,
	})
	require.NoError(t, err)

	snaps.WithConfig(snaps.Ext(".html")).MatchStandaloneSnapshot(
		t, readFile(t, filepath.Join(out, "index.html")),
	)
}

func TestRun_skips_missing_templates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeTemp(t, dir, "config.yaml", "TITLE: Docs\n")
	tplDir := filepath.Join(dir, "templates")
	writeTemp(t, tplDir, "quickstart.html", "<title>{{TITLE}}</title>")

	out := filepath.Join(dir, "docs")

	rep, err := generator.Run(context.Background(), generator.Config{
		ConfigPath:  cfgPath,
		TemplateDir: tplDir,
		OutputDir:   out,
	})
	require.NoError(t, err)

	assert.Equal(
		t,
		[]string{filepath.Join(out, "quickstart.html")},
		rep.Generated,
	)
	assert.Empty(t, rep.Assets)
	assert.Equal(
		t,
		"<title>Docs</title>",
		readFile(t, filepath.Join(out, "quickstart.html")),
	)
	assert.NoFileExists(t, filepath.Join(out, "index.html"))
}

func TestRun_config_failure_writes_nothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed", content: `{"TITLE": `},
		{name: "not_a_mapping", content: `["a", "b"]`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			cfgPath := writeTemp(t, dir, "config.json", tt.content)
			writeTemp(t, dir, "index.html", "<h1>{{TITLE}}</h1>")

			out := filepath.Join(dir, "docs")

			rep, err := generator.Run(
				context.Background(),
				generator.Config{
					ConfigPath:  cfgPath,
					TemplateDir: dir,
					OutputDir:   out,
				},
			)

			require.Error(t, err)
			assert.Nil(t, rep)
			assert.Contains(t, err.Error(), "loading configuration")

			_, statErr := os.Stat(out)
			assert.ErrorIs(t, statErr, fs.ErrNotExist)
		})
	}
}

func TestRun_missing_config(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := generator.Run(context.Background(), generator.Config{
		ConfigPath:  filepath.Join(dir, "absent.json"),
		TemplateDir: dir,
		OutputDir:   filepath.Join(dir, "docs"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRun_stamps_and_variables(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeTemp(t, dir, "config.json", `{"VERSION": "dev"}`)
	stampPath := writeTemp(t, dir, "stable-status.txt", "BUILD_LABEL 1.2.3\n")
	writeTemp(t, dir, "index.html", "v{{VERSION}} ({{BUILD_LABEL}})")

	out := filepath.Join(dir, "docs")

	_, err := generator.Run(context.Background(), generator.Config{
		ConfigPath:     cfgPath,
		TemplateDir:    dir,
		OutputDir:      out,
		StampInfoFiles: []string{stampPath},
		Variables:      []string{"VERSION={BUILD_LABEL}-rc"},
	})
	require.NoError(t, err)

	assert.Equal(
		t,
		"v1.2.3-rc (1.2.3)",
		readFile(t, filepath.Join(out, "index.html")),
	)
}

func TestRun_writes_manifest(t *testing.T) {
	t.Parallel()

	cfgPath, tplDir := newSite(t)
	out := t.TempDir()
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	rep, err := generator.Run(context.Background(), generator.Config{
		ConfigPath:  cfgPath,
		TemplateDir: tplDir,
		OutputDir:   out,
		Manifest:    true,
		Now:         func() time.Time { return now },
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, digester.ManifestName), rep.Manifest)

	mf, err := digester.ReadManifest(rep.Manifest)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-04T05:06:07Z", mf.Generated)

	paths := make([]string, 0, len(mf.Files))
	for _, en := range mf.Files {
		paths = append(paths, en.Path)
	}

	assert.Equal(t, []string{
		"index.html",
		"quickstart.html",
		"widgets.html",
		"api/index.html",
		"css/style.css",
		"images/logo.svg",
	}, paths)

	changed, err := digester.VerifyManifest(out, mf)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestRun_cancelled_context(t *testing.T) {
	t.Parallel()

	cfgPath, tplDir := newSite(t)
	out := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := generator.Run(ctx, generator.Config{
		ConfigPath:  cfgPath,
		TemplateDir: tplDir,
		OutputDir:   out,
	})

	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, rep)
	assert.Empty(t, rep.Generated)
	assert.NoFileExists(t, filepath.Join(out, "index.html"))
}

func TestRun_overwrites_existing_pages(t *testing.T) {
	t.Parallel()

	cfgPath, tplDir := newSite(t)
	out := t.TempDir()
	writeTemp(t, out, "index.html", "stale content that is longer than the page")

	_, err := generator.Run(context.Background(), generator.Config{
		ConfigPath:  cfgPath,
		TemplateDir: tplDir,
		OutputDir:   out,
	})
	require.NoError(t, err)

	assert.Equal(t, indexExpected, readFile(t, filepath.Join(out, "index.html")))
}

func TestOutputName(t *testing.T) {
	t.Parallel()

	withPage := func(val any) *docconfig.Scope {
		sc := docconfig.NewScope()
		sc.Set("CORE_CONCEPT_PAGE", val)

		return sc
	}

	tests := []struct {
		name string
		tpl  string
		doc  *docconfig.Scope
		want string
	}{
		{
			name: "index_unchanged",
			tpl:  "index.html",
			doc:  withPage("widgets"),
			want: "index.html",
		},
		{
			name: "api_unchanged",
			tpl:  "api/index.html",
			doc:  withPage("widgets"),
			want: "api/index.html",
		},
		{
			name: "core_concept_renamed",
			tpl:  "core-concept.html",
			doc:  withPage("widgets"),
			want: "widgets.html",
		},
		{
			name: "core_concept_integer_name",
			tpl:  "core-concept.html",
			doc:  withPage(int64(3)),
			want: "3.html",
		},
		{
			name: "core_concept_boolean_name",
			tpl:  "core-concept.html",
			doc:  withPage(true),
			want: "True.html",
		},
		{
			name: "core_concept_null_name",
			tpl:  "core-concept.html",
			doc:  withPage(nil),
			want: "None.html",
		},
		{
			name: "core_concept_float_name",
			tpl:  "core-concept.html",
			doc:  withPage(2.0),
			want: "2.0.html",
		},
		{
			name: "core_concept_without_key",
			tpl:  "core-concept.html",
			doc:  docconfig.NewScope(),
			want: "core-concept.html",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, generator.OutputName(tt.tpl, tt.doc))
		})
	}
}

func TestReport_Print(t *testing.T) {
	t.Parallel()

	rep := &generator.Report{
		OutputDir: "docs",
		Generated: []string{"docs/index.html", "docs/api/index.html"},
		Manifest:  "docs/docgen-manifest.json",
	}

	var buf bytes.Buffer
	require.NoError(t, rep.Print(&buf))

	assert.Equal(t, `Generated: docs/index.html
Generated: docs/api/index.html
Manifest: docs/docgen-manifest.json

Documentation generated in: docs

Next steps:
1. Add your images/videos to the images/ folder
2. Review and customize the generated content
3. Test locally: docgen serve --dir docs --addr :8000
4. Deploy to GitHub Pages or your hosting service
`, buf.String())
}
