package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/byte4ever/docgen/publish"
	"github.com/byte4ever/docgen/publish/git"
	"github.com/byte4ever/docgen/publish/git/bitbucket"
	"github.com/byte4ever/docgen/publish/git/github"
	"github.com/byte4ever/docgen/publish/git/gitlab"
)

func publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the generated site",
	}

	cmd.AddCommand(publishGitCmd(), publishS3Cmd())

	return cmd
}

func publishGitCmd() *cobra.Command {
	var (
		cfg       publish.GitConfig
		gitServer string
		pf        providerFlags
	)

	cmd := &cobra.Command{
		Use:   "git",
		Short: "Commit the site to a docs branch and open a pull request",
		Long: `Clone the repository, commit the generated site to the docs
branch and open a pull request into the primary branch. The branch is
recreated from the primary branch when pages were removed since the
last publish.

Examples:
  docgen publish git --repo https://github.com/org/lib.git \
    --github-repo-owner org --github-repo lib --dir docs
  docgen publish git --git-server gitlab --gitlab-repo org/lib \
    --repo https://gitlab.com/org/lib.git --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			const errCtx = "running publish git"

			if !cfg.DryRun {
				provider, err := newGitProvider(gitServer, pf.withEnv())
				if err != nil {
					return fmt.Errorf("%s: %w", errCtx, err)
				}

				cfg.Provider = provider
			}

			committed, err := publish.PublishGit(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			slog.Info(
				"publish finished",
				"branch", cfg.DocsBranch,
				"committed", committed,
			)

			return nil
		},
	}

	fl := cmd.Flags()

	// Repository flags.
	fl.StringVar(&cfg.Repo, "repo", "", "Remote git repository URL")
	fl.StringVar(&cfg.Mirror, "mirror", "", "Local git mirror for reference clones")
	fl.StringVar(&cfg.TmpDir, "tmp-dir", os.TempDir(), "Temporary directory for the clone")
	fl.StringVar(&cfg.PrimaryBranch, "primary-branch", "main", "Branch pull requests target")
	fl.StringVar(&cfg.DocsBranch, "docs-branch", "docs/update", "Branch receiving the documentation")
	fl.StringVar(&cfg.DocsPath, "docs-path", "docs", "Repository directory the site is copied to")
	fl.StringVar(&cfg.SourceDir, "dir", "./docs", "Generated site directory")
	fl.StringVar(&cfg.AuthorName, "author-name", "", "Commit author name")
	fl.StringVar(&cfg.AuthorEmail, "author-email", "", "Commit author email")

	// PR flags.
	fl.StringVar(&cfg.Title, "title", publish.DefaultTitle, "Commit and pull request title; {{PAGES}} is the page count")
	fl.StringVar(&cfg.Body, "body", "", "Pull request body")
	fl.BoolVar(&cfg.DryRun, "dry-run", false, "Commit locally, skip push and pull request")

	// Provider flags.
	fl.StringVar(&gitServer, "git-server", "github", "Git hosting platform: github, gitlab or bitbucket")
	pf.addFlags(cmd)

	return cmd
}

func publishS3Cmd() *cobra.Command {
	var (
		cfg publish.S3Config
		dir string
	)

	cmd := &cobra.Command{
		Use:   "s3",
		Short: "Upload the site to an S3 bucket",
		Long: `Upload every file of the generated site to an S3 bucket.
Credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_SESSION_TOKEN.

Examples:
  docgen publish s3 --bucket docs.example.com --region eu-west-1
  docgen publish s3 --bucket site --endpoint http://localhost:9000 --path-style`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			const errCtx = "running publish s3"

			keys, err := publish.PublishS3(
				cmd.Context(), publish.NewS3Client(cfg), cfg, dir,
			)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			fmt.Fprintf( //nolint:errcheck // terminal output
				cmd.OutOrStdout(),
				"Uploaded %d files to s3://%s/%s\n",
				len(keys), cfg.Bucket, cfg.Prefix,
			)

			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&dir, "dir", "./docs", "Generated site directory")
	fl.StringVar(&cfg.Bucket, "bucket", "", "Destination bucket")
	fl.StringVar(&cfg.Prefix, "prefix", "", "Object key prefix")
	fl.StringVar(&cfg.Region, "region", "us-east-1", "Bucket region")
	fl.StringVar(&cfg.Endpoint, "endpoint", "", "S3 endpoint override")
	fl.BoolVar(&cfg.PathStyle, "path-style", false, "Use path-style bucket addressing")
	fl.StringVar(&cfg.CacheControl, "cache-control", "", "Cache-Control header for every object")

	return cmd
}

// providerFlags bundles provider-specific flag values.
type providerFlags struct {
	ghRepoOwner    string
	ghRepo         string
	ghToken        string
	ghEnterprise   string
	ghBaseURL      string
	ghDraft        bool
	glHost         string
	glRepo         string
	glToken        string
	glRemoveSource bool
	bbEndpoint     string
	bbUser         string
	bbPassword     string
	bbProjectKey   string
	bbRepoSlug     string
	bbReviewers    []string
}

// addFlags registers the provider flags on cmd.
func (pf *providerFlags) addFlags(cmd *cobra.Command) {
	fl := cmd.Flags()

	fl.StringVar(&pf.ghRepoOwner, "github-repo-owner", "", "GitHub repository owner")
	fl.StringVar(&pf.ghRepo, "github-repo", "", "GitHub repository name")
	fl.StringVar(&pf.ghToken, "github-access-token", "", "GitHub token (default $GITHUB_TOKEN)")
	fl.StringVar(&pf.ghEnterprise, "github-enterprise-host", "", "GitHub Enterprise hostname")
	fl.StringVar(&pf.ghBaseURL, "github-base-url", "", "GitHub REST API root; overrides --github-enterprise-host")
	fl.BoolVar(&pf.ghDraft, "github-draft", false, "Open GitHub pull requests as drafts")
	fl.StringVar(&pf.glHost, "gitlab-host", "", "GitLab instance URL")
	fl.StringVar(&pf.glRepo, "gitlab-repo", "", "GitLab project path (org/project)")
	fl.StringVar(&pf.glToken, "gitlab-access-token", "", "GitLab token (default $GITLAB_TOKEN)")
	fl.BoolVar(&pf.glRemoveSource, "gitlab-remove-source-branch", false, "Delete the docs branch when the merge request is merged")
	fl.StringVar(&pf.bbEndpoint, "bitbucket-api-endpoint", "", "Bitbucket Server pull request REST URL")
	fl.StringVar(&pf.bbUser, "bitbucket-user", "", "Bitbucket API username")
	fl.StringVar(&pf.bbPassword, "bitbucket-password", "", "Bitbucket password (default $BITBUCKET_PASSWORD)")
	fl.StringVar(&pf.bbProjectKey, "bitbucket-project-key", "", "Bitbucket project key (default from the endpoint)")
	fl.StringVar(&pf.bbRepoSlug, "bitbucket-repo-slug", "", "Bitbucket repository slug (default from the endpoint)")
	fl.StringArrayVar(&pf.bbReviewers, "bitbucket-reviewer", nil, "Bitbucket reviewer user name (repeatable)")
}

// withEnv fills empty credentials from the environment.
func (pf providerFlags) withEnv() providerFlags {
	if pf.ghToken == "" {
		pf.ghToken = os.Getenv("GITHUB_TOKEN")
	}

	if pf.glToken == "" {
		pf.glToken = os.Getenv("GITLAB_TOKEN")
	}

	if pf.bbPassword == "" {
		pf.bbPassword = os.Getenv("BITBUCKET_PASSWORD")
	}

	return pf
}

// newGitProvider creates a git.GitProvider based on the
// server name.
func newGitProvider(
	server string,
	pf providerFlags,
) (git.GitProvider, error) {
	const errCtx = "creating git provider"

	switch server {
	case "github":
		p, err := github.NewProvider(github.Config{
			RepoOwner:      pf.ghRepoOwner,
			Repo:           pf.ghRepo,
			AccessToken:    pf.ghToken,
			EnterpriseHost: pf.ghEnterprise,
			BaseURL:        pf.ghBaseURL,
			Draft:          pf.ghDraft,
		})
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return p, nil

	case "gitlab":
		p, err := gitlab.NewProvider(gitlab.Config{
			Host:               pf.glHost,
			Repo:               pf.glRepo,
			AccessToken:        pf.glToken,
			RemoveSourceBranch: pf.glRemoveSource,
		})
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return p, nil

	case "bitbucket":
		p, err := bitbucket.NewProvider(
			bitbucket.Config{
				APIEndpoint: pf.bbEndpoint,
				User:        pf.bbUser,
				Password:    pf.bbPassword,
				ProjectKey:  pf.bbProjectKey,
				RepoSlug:    pf.bbRepoSlug,
				Reviewers:   pf.bbReviewers,
			},
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return p, nil

	default:
		return nil, fmt.Errorf(
			"%s: unknown server %q", errCtx, server,
		)
	}
}
