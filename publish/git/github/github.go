package github

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v68/github"

	"github.com/byte4ever/docgen/publish/git"
)

// Config holds the settings needed to create a GitHub
// pull request provider.
type Config struct {
	// RepoOwner is the GitHub user or organisation
	// that owns the repository.
	RepoOwner string
	// Repo is the repository name (without owner).
	Repo string
	// AccessToken is a personal access token or
	// GitHub App token used for authentication.
	AccessToken string
	// EnterpriseHost is an optional GitHub Enterprise
	// hostname (e.g. "git.corp.example.com"). Leave
	// empty for github.com.
	EnterpriseHost string
	// BaseURL overrides the REST API root URL. It
	// takes precedence over EnterpriseHost.
	BaseURL string
	// Draft opens pull requests as drafts.
	Draft bool
}

// Provider creates pull requests on GitHub.
type Provider struct {
	client    *gh.Client
	repoOwner string
	repo      string
	draft     bool
}

// NewProvider validates cfg and returns a Provider
// ready to create pull requests.
func NewProvider(cfg Config) (*Provider, error) {
	const errCtx = "creating github provider"

	if cfg.RepoOwner == "" {
		return nil, fmt.Errorf(
			"%s: repo owner must be set", errCtx,
		)
	}

	if cfg.Repo == "" {
		return nil, fmt.Errorf(
			"%s: repo must be set", errCtx,
		)
	}

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	client := gh.NewClient(nil).
		WithAuthToken(cfg.AccessToken)

	switch {
	case cfg.BaseURL != "":
		base, err := url.Parse(
			strings.TrimSuffix(cfg.BaseURL, "/") + "/",
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: base url: %w", errCtx, err,
			)
		}

		client.BaseURL = base

	case cfg.EnterpriseHost != "":
		baseURL := "https://" +
			cfg.EnterpriseHost + "/api/v3/"
		uploadURL := "https://" +
			cfg.EnterpriseHost + "/api/uploads/"

		var err error

		client, err = client.WithEnterpriseURLs(
			baseURL, uploadURL,
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: enterprise urls: %w",
				errCtx, err,
			)
		}
	}

	return &Provider{
		client:    client,
		repoOwner: cfg.RepoOwner,
		repo:      cfg.Repo,
		draft:     cfg.Draft,
	}, nil
}

// CreatePR opens a pull request from pr.Head into
// pr.Base. If a PR already exists (HTTP 422) the error is
// suppressed.
func (p *Provider) CreatePR(
	ctx context.Context,
	pr git.PullRequest,
) error {
	const errCtx = "creating github pull request"

	if err := pr.Validate(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	created, resp, err := p.client.PullRequests.Create(
		ctx, p.repoOwner, p.repo, &gh.NewPullRequest{
			Title: gh.Ptr(pr.Title),
			Head:  gh.Ptr(pr.Head),
			Base:  gh.Ptr(pr.Base),
			Body:  gh.Ptr(pr.Description()),
			Draft: gh.Ptr(p.draft),
		},
	)
	if err == nil {
		slog.Info(
			"created pull request",
			"url", created.GetHTMLURL(),
		)

		return nil
	}

	// HTTP 422: PR already exists for this
	// head/base pair.
	if resp != nil &&
		resp.StatusCode ==
			http.StatusUnprocessableEntity {
		slog.Info(
			"reusing existing pull request",
			"head", pr.Head,
			"base", pr.Base,
		)

		return nil
	}

	if resp != nil && resp.Body != nil {
		defer resp.Body.Close() //nolint:errcheck

		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			slog.Warn(
				"cannot read response body",
				"error", readErr,
			)
		} else {
			slog.Warn(
				"github response",
				"body", string(rb),
			)
		}
	}

	return fmt.Errorf("%s: %w", errCtx, err)
}
