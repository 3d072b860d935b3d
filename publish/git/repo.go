package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/byte4ever/docgen/publish/exec"
)

// CloneOptions controls Clone.
type CloneOptions struct {
	// Repo is the full repository URL or a local path.
	Repo string

	// Dir receives the clone. It is removed first.
	Dir string

	// MirrorDir is an optional local mirror used as a
	// reference clone.
	MirrorDir string

	// PrimaryBranch is the branch checked out after
	// cloning.
	PrimaryBranch string

	// SparsePath restricts the checkout to one
	// subdirectory; empty or "." checks out everything.
	SparsePath string

	// AuthorName and AuthorEmail set the commit
	// identity of the clone when not empty.
	AuthorName  string
	AuthorEmail string
}

// Repo is a local clone of a git repository. Create
// with Clone, and call Clean when done.
type Repo struct {
	// Dir is the filesystem location of the clone.
	Dir string
	// RemoteName is the name of the upstream remote.
	RemoteName string
}

// Clone clones opts.Repo into opts.Dir without tags and
// blobs, enables sparse checkout when opts.SparsePath is
// not the root, and checks out the primary branch.
//
//nolint:gosec // file paths originate from CLI flags
func Clone(ctx context.Context, opts CloneOptions) (*Repo, error) {
	const errCtx = "cloning repository"

	if err := os.RemoveAll(opts.Dir); err != nil {
		return nil, fmt.Errorf(
			"%s: remove dir: %w", errCtx, err,
		)
	}

	remoteName := "origin"

	args := []string{
		"clone",
		"--no-checkout",
		"--single-branch",
		"--branch", opts.PrimaryBranch,
		"--filter=blob:none",
		"--no-tags",
		"--origin", remoteName,
	}

	if opts.MirrorDir != "" {
		args = append(args, "--reference", opts.MirrorDir)
	}

	args = append(args, opts.Repo, opts.Dir)

	if _, err := exec.Ex(ctx, "", "git", args...); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	rn := exec.NewRunner(ctx, opts.Dir)

	if opts.AuthorName != "" {
		rn.Run("git", "config", "--local", "user.name", opts.AuthorName)
	}

	if opts.AuthorEmail != "" {
		rn.Run("git", "config", "--local", "user.email", opts.AuthorEmail)
	}

	if !isRootPath(opts.SparsePath) {
		rn.Run(
			"git", "config", "--local",
			"core.sparsecheckout", "true",
		)

		if rn.Err() == nil {
			genPath := strings.Trim(opts.SparsePath, "/") + "/\n"
			sparsePath := filepath.Join(
				opts.Dir, ".git", "info", "sparse-checkout",
			)

			if err := os.MkdirAll(filepath.Dir(sparsePath), 0o755); err != nil {
				return nil, fmt.Errorf(
					"%s: write sparse-checkout: %w",
					errCtx, err,
				)
			}

			//nolint:gosec // mode 0644 is intentional
			if err := os.WriteFile(
				sparsePath,
				[]byte(genPath),
				0o644,
			); err != nil {
				return nil, fmt.Errorf(
					"%s: write sparse-checkout: %w",
					errCtx, err,
				)
			}
		}
	}

	rn.Run("git", "checkout", opts.PrimaryBranch)

	if err := rn.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &Repo{
		Dir:        opts.Dir,
		RemoteName: remoteName,
	}, nil
}

// Clean removes the local clone directory.
func (r *Repo) Clean() error {
	const errCtx = "cleaning repository"

	if err := os.RemoveAll(r.Dir); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Fetch adds pattern to the tracked remote branches and
// fetches them.
func (r *Repo) Fetch(ctx context.Context, pattern string) error {
	const errCtx = "fetching branches"

	rn := exec.NewRunner(ctx, r.Dir)

	rn.Run(
		"git", "remote", "set-branches", "--add",
		r.RemoteName, pattern,
	)
	rn.Run(
		"git", "fetch", "--force",
		"--filter=blob:none", "--no-tags",
		r.RemoteName,
	)

	if err := rn.Err(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// SwitchToBranch switches to branch, creating it from
// primaryBranch if it does not exist. Returns true when
// the branch was newly created.
func (r *Repo) SwitchToBranch(
	ctx context.Context,
	branch string,
	primaryBranch string,
) (bool, error) {
	const errCtx = "switching branch"

	if _, err := exec.Ex(
		ctx, r.Dir, "git", "checkout", branch,
	); err == nil {
		return false, nil
	}

	// Branch does not exist yet: create and check out.
	rn := exec.NewRunner(ctx, r.Dir)
	rn.Run("git", "branch", branch, primaryBranch)
	rn.Run("git", "checkout", branch)

	if err := rn.Err(); err != nil {
		return false, fmt.Errorf("%s: %s: %w", errCtx, branch, err)
	}

	return true, nil
}

// RecreateBranch discards the content of branch and
// resets it from primaryBranch.
func (r *Repo) RecreateBranch(
	ctx context.Context,
	branch string,
	primaryBranch string,
) error {
	const errCtx = "recreating branch"

	rn := exec.NewRunner(ctx, r.Dir)
	rn.Run("git", "checkout", primaryBranch)
	rn.Run("git", "branch", "-f", branch, primaryBranch)
	rn.Run("git", "checkout", branch)

	if err := rn.Err(); err != nil {
		return fmt.Errorf("%s: %s: %w", errCtx, branch, err)
	}

	return nil
}

// LastCommitMessage returns the most recent commit
// message on the current branch.
func (r *Repo) LastCommitMessage(ctx context.Context) (string, error) {
	const errCtx = "reading last commit message"

	msg, err := exec.Ex(
		ctx, r.Dir, "git", "log", "-1", "--pretty=%B",
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return msg, nil
}

// Commit stages all changes under path and commits
// them. Returns true when changes were committed, false
// when the tree was clean.
func (r *Repo) Commit(
	ctx context.Context,
	message string,
	path string,
) (bool, error) {
	const errCtx = "committing"

	addPath := path
	if isRootPath(path) {
		addPath = "."
	}

	if _, err := exec.Ex(
		ctx, r.Dir, "git", "add", "--all", addPath,
	); err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	clean, err := r.IsClean(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	if clean {
		return false, nil
	}

	if _, err := exec.Ex(
		ctx, r.Dir, "git", "commit", "-m", message,
	); err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	return true, nil
}

// IsClean reports whether the working tree has no
// uncommitted changes.
func (r *Repo) IsClean(ctx context.Context) (bool, error) {
	const errCtx = "checking repository status"

	out, err := exec.Ex(
		ctx, r.Dir, "git", "status", "--porcelain",
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	return strings.TrimSpace(out) == "", nil
}

// Push force-pushes the given branches to the remote.
// All changes should be committed before calling Push.
func (r *Repo) Push(ctx context.Context, branches []string) error {
	const errCtx = "pushing branches"

	args := append(
		[]string{
			"push", r.RemoteName,
			"-f", "--set-upstream",
		},
		branches...,
	)

	if _, err := exec.Ex(ctx, r.Dir, "git", args...); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// isRootPath reports whether path refers to the
// repository root.
func isRootPath(path string) bool {
	return path == "" || path == "." || path == "/"
}
