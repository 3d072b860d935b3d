package publish

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/docgen/assets"
	"github.com/byte4ever/docgen/publish/commitmsg"
	"github.com/byte4ever/docgen/publish/git"
)

// DefaultTitle is the commit and pull request title used
// when GitConfig.Title is empty.
const DefaultTitle = "Update documentation ({{PAGES}} pages)"

// GitConfig holds all settings for publishing to a git
// repository.
type GitConfig struct {
	// Repo is the remote repository URL.
	Repo string

	// Mirror is an optional local mirror path.
	Mirror string

	// TmpDir is the directory for the temporary clone.
	TmpDir string

	// PrimaryBranch is the branch pull requests target.
	PrimaryBranch string

	// DocsBranch receives the documentation commits.
	DocsBranch string

	// DocsPath is the repository subdirectory the site
	// is copied to (empty means root).
	DocsPath string

	// SourceDir is the generated documentation.
	SourceDir string

	// Title is the commit and pull request title.
	// {{PAGES}} expands to the number of pages.
	Title string

	// Body is the pull request body.
	Body string

	// AuthorName and AuthorEmail set the commit
	// identity when not empty.
	AuthorName  string
	AuthorEmail string

	// DryRun skips push and pull request creation.
	DryRun bool

	// Provider opens the pull request.
	Provider git.GitProvider
}

// PublishGit commits SourceDir to DocsBranch of a fresh
// clone and, unless DryRun is set, pushes the branch and
// opens a pull request into PrimaryBranch. It returns
// whether a commit was made.
func PublishGit(ctx context.Context, cfg GitConfig) (bool, error) {
	const errCtx = "publishing to git"

	if err := checkManifest(cfg.SourceDir); err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	files, err := listFiles(cfg.SourceDir)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	pages := pagesOf(files)

	// Step 1: Clone and switch to the docs branch.
	repo, err := git.Clone(ctx, git.CloneOptions{
		Repo:          cfg.Repo,
		Dir:           filepath.Join(cfg.TmpDir, "docgen-publish"),
		MirrorDir:     cfg.Mirror,
		PrimaryBranch: cfg.PrimaryBranch,
		SparsePath:    cfg.DocsPath,
		AuthorName:    cfg.AuthorName,
		AuthorEmail:   cfg.AuthorEmail,
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if cleanErr := repo.Clean(); cleanErr != nil {
			slog.Error(
				"failed to clean repo",
				"error", cleanErr,
			)
		}
	}()

	// A missing docs branch is not an error.
	if err := repo.Fetch(ctx, cfg.DocsBranch+"*"); err != nil {
		slog.Warn("cannot fetch docs branch", "error", err)
	}

	// Step 2: Recreate the branch when files were removed.
	if err := prepareBranch(ctx, repo, cfg, files); err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	// Step 3: Copy the site and commit.
	if err := assets.CopyTree(
		cfg.SourceDir,
		filepath.Join(repo.Dir, filepath.FromSlash(cfg.DocsPath)),
	); err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	title := expandTitle(cfg.Title, len(pages))

	committed, err := repo.Commit(
		ctx, commitmsg.Generate(title, files), cfg.DocsPath,
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	if !committed {
		slog.Info("documentation unchanged", "branch", cfg.DocsBranch)

		return false, nil
	}

	// Step 4: Push and open the pull request.
	if cfg.DryRun {
		slog.Info(
			"dry run: skipping push and PR creation",
			"branch", cfg.DocsBranch,
			"pages", len(pages),
		)

		return true, nil
	}

	if err := repo.Push(ctx, []string{cfg.DocsBranch}); err != nil {
		return true, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := cfg.Provider.CreatePR(ctx, git.PullRequest{
		Head:  cfg.DocsBranch,
		Base:  cfg.PrimaryBranch,
		Title: title,
		Body:  cfg.Body,
	}); err != nil {
		return true, fmt.Errorf(
			"%s: create PR for %s: %w",
			errCtx, cfg.DocsBranch, err,
		)
	}

	return true, nil
}

// prepareBranch checks out the docs branch, recreating
// it from the primary branch when its last commit lists
// files that are no longer generated.
func prepareBranch(
	ctx context.Context,
	repo *git.Repo,
	cfg GitConfig,
	files []string,
) error {
	const errCtx = "preparing docs branch"

	isNew, err := repo.SwitchToBranch(
		ctx, cfg.DocsBranch, cfg.PrimaryBranch,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if isNew {
		return nil
	}

	lastMsg, err := repo.LastCommitMessage(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	prev := commitmsg.ExtractFiles(lastMsg)

	if !commitmsg.HasRemoved(prev, files) {
		return nil
	}

	slog.Info(
		"recreating branch due to removed files",
		"branch", cfg.DocsBranch,
	)

	if err := repo.RecreateBranch(
		ctx, cfg.DocsBranch, cfg.PrimaryBranch,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// expandTitle fills the {{PAGES}} tag of title.
func expandTitle(title string, pages int) string {
	if title == "" {
		title = DefaultTitle
	}

	return fasttemplate.ExecuteStringStd(
		title, "{{", "}}",
		map[string]any{"PAGES": strconv.Itoa(pages)},
	)
}
