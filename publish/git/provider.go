package git

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidPullRequest is returned when a PullRequest
// misses a branch or a title, or targets its own head.
var ErrInvalidPullRequest = errors.New("invalid pull request")

// PullRequest proposes the docs branch (Head) for merge
// into the primary branch (Base).
type PullRequest struct {
	Head  string
	Base  string
	Title string
	Body  string
}

// Validate reports whether pr can be sent to a hosting
// platform.
func (pr PullRequest) Validate() error {
	switch {
	case pr.Head == "" || pr.Base == "":
		return fmt.Errorf(
			"%w: head and base branches must be set",
			ErrInvalidPullRequest,
		)
	case pr.Head == pr.Base:
		return fmt.Errorf(
			"%w: docs branch %q is the primary branch",
			ErrInvalidPullRequest, pr.Head,
		)
	case pr.Title == "":
		return fmt.Errorf(
			"%w: title must be set", ErrInvalidPullRequest,
		)
	}

	return nil
}

// Description is the body, or the title when no body was
// given.
func (pr PullRequest) Description() string {
	if pr.Body == "" {
		return pr.Title
	}

	return pr.Body
}

// GitProvider opens pull requests on a git hosting
// platform.
type GitProvider interface {
	CreatePR(ctx context.Context, pr PullRequest) error
}

// GitProviderFunc adapts a plain function to the
// GitProvider interface.
type GitProviderFunc func(ctx context.Context, pr PullRequest) error

// CreatePR validates pr and hands it to f with the body
// defaulted to the title.
func (f GitProviderFunc) CreatePR(
	ctx context.Context,
	pr PullRequest,
) error {
	if err := pr.Validate(); err != nil {
		return err
	}

	pr.Body = pr.Description()

	return f(ctx, pr)
}
