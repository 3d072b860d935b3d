package publish_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/docgen/publish"
	"github.com/byte4ever/docgen/publish/git"
)

// prRecorder is a git.GitProvider that records calls.
type prRecorder struct {
	mu    sync.Mutex
	calls []git.PullRequest
}

func (pr *prRecorder) provider() git.GitProvider {
	return git.GitProviderFunc(func(
		_ context.Context,
		req git.PullRequest,
	) error {
		pr.mu.Lock()
		defer pr.mu.Unlock()

		pr.calls = append(pr.calls, req)

		return nil
	})
}

func (pr *prRecorder) count() int {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	return len(pr.calls)
}

func gitConfig(
	tb testing.TB,
	remote string,
	site string,
	pr *prRecorder,
) publish.GitConfig {
	tb.Helper()

	return publish.GitConfig{
		Repo:          remote,
		TmpDir:        tb.TempDir(),
		PrimaryBranch: "main",
		DocsBranch:    "gh-pages",
		DocsPath:      "docs",
		SourceDir:     site,
		AuthorName:    "Docs Bot",
		AuthorEmail:   "docs@example.com",
		Provider:      pr.provider(),
	}
}

func TestPublishGit_lifecycle(t *testing.T) {
	t.Parallel()

	remote := newRemote(t)
	site := t.TempDir()
	writeTemp(t, site, "index.html", "<h1>home</h1>")
	writeTemp(t, site, "old.html", "<h1>old</h1>")
	writeTemp(t, site, "css/style.css", "body{}")

	var pr prRecorder

	ctx := context.Background()

	// First publish creates the branch and opens a PR.
	committed, err := publish.PublishGit(ctx, gitConfig(t, remote, site, &pr))
	require.NoError(t, err)
	assert.True(t, committed)

	require.Equal(t, 1, pr.count())
	assert.Equal(
		t,
		git.PullRequest{
			Head:  "gh-pages",
			Base:  "main",
			Title: "Update documentation (2 pages)",
			Body:  "Update documentation (2 pages)",
		},
		pr.calls[0],
	)

	assert.Equal(
		t,
		"<h1>home</h1>",
		gitCmd(t, remote, "show", "gh-pages:docs/index.html"),
	)
	assert.Contains(
		t,
		gitCmd(t, remote, "log", "-1", "--pretty=%B", "gh-pages"),
		"--- docgen files begin ---\ncss/style.css\nindex.html\nold.html\n",
	)

	// Publishing the same site changes nothing.
	committed, err = publish.PublishGit(ctx, gitConfig(t, remote, site, &pr))
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Equal(t, 1, pr.count())

	// Removing a page recreates the branch from main.
	require.NoError(t, os.Remove(filepath.Join(site, "old.html")))

	cfg := gitConfig(t, remote, site, &pr)
	cfg.Title = "docs: {{PAGES}} page(s)"
	cfg.Body = "automated"

	committed, err = publish.PublishGit(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, committed)

	require.Equal(t, 2, pr.count())
	assert.Equal(t, "docs: 1 page(s)", pr.calls[1].Title)
	assert.Equal(t, "automated", pr.calls[1].Body)

	_, err = gitOut(t, remote, "show", "gh-pages:docs/old.html")
	require.Error(t, err)

	assert.Equal(
		t,
		"body{}",
		gitCmd(t, remote, "show", "gh-pages:docs/css/style.css"),
	)
}

func TestPublishGit_removed_asset_recreates_branch(t *testing.T) {
	t.Parallel()

	remote := newRemote(t)
	site := t.TempDir()
	writeTemp(t, site, "index.html", "<h1>home</h1>")
	writeTemp(t, site, "images/logo.png", "png")

	var pr prRecorder

	ctx := context.Background()

	committed, err := publish.PublishGit(ctx, gitConfig(t, remote, site, &pr))
	require.NoError(t, err)
	require.True(t, committed)
	assert.Equal(
		t,
		"png",
		gitCmd(t, remote, "show", "gh-pages:docs/images/logo.png"),
	)

	require.NoError(t, os.Remove(filepath.Join(site, "images", "logo.png")))

	committed, err = publish.PublishGit(ctx, gitConfig(t, remote, site, &pr))
	require.NoError(t, err)
	assert.True(t, committed)

	_, err = gitOut(t, remote, "show", "gh-pages:docs/images/logo.png")
	require.Error(t, err)
	assert.Equal(
		t,
		"<h1>home</h1>",
		gitCmd(t, remote, "show", "gh-pages:docs/index.html"),
	)
}

func TestPublishGit_dry_run(t *testing.T) {
	t.Parallel()

	remote := newRemote(t)
	site := t.TempDir()
	writeTemp(t, site, "index.html", "<h1>home</h1>")

	var pr prRecorder

	cfg := gitConfig(t, remote, site, &pr)
	cfg.DryRun = true

	committed, err := publish.PublishGit(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Zero(t, pr.count())

	out := gitCmd(t, remote, "branch", "--list", "gh-pages")
	assert.Empty(t, out)
}

func TestPublishGit_rejects_modified_pages(t *testing.T) {
	t.Parallel()

	site := t.TempDir()
	writeTemp(t, site, "index.html", "<h1>home</h1>")
	writeManifest(t, site, "index.html")
	writeTemp(t, site, "index.html", "<h1>edited</h1>")

	var pr prRecorder

	cfg := gitConfig(t, filepath.Join(t.TempDir(), "unused"), site, &pr)

	committed, err := publish.PublishGit(context.Background(), cfg)

	require.Error(t, err)
	assert.False(t, committed)
	assert.Contains(t, err.Error(), "files changed since generation: index.html")
	assert.Zero(t, pr.count())
}

func TestPublishGit_clone_failure(t *testing.T) {
	t.Parallel()

	site := t.TempDir()
	writeTemp(t, site, "index.html", "<h1>home</h1>")

	var pr prRecorder

	cfg := gitConfig(t, filepath.Join(t.TempDir(), "missing.git"), site, &pr)

	_, err := publish.PublishGit(context.Background(), cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cloning repository")
}

func TestExpandTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		pages int
		want  string
	}{
		{
			name:  "default",
			title: "",
			pages: 4,
			want:  "Update documentation (4 pages)",
		},
		{
			name:  "custom",
			title: "Docs refresh: {{PAGES}}",
			pages: 1,
			want:  "Docs refresh: 1",
		},
		{
			name:  "unknown_tag_kept",
			title: "{{OTHER}} {{PAGES}}",
			pages: 0,
			want:  "{{OTHER}} 0",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(
				t, tt.want, publish.ExpandTitleForTest(tt.title, tt.pages),
			)
		})
	}
}
