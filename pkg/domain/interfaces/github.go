package interfaces

import (
	"context"

	"github.com/repodigest/repodigest/pkg/domain/model"
)

// GitHubClient defines the operations used against the source-control
// hosting API.
type GitHubClient interface {
	// ListCommits returns up to perPage commits of the repository's
	// default branch, newest first. repo is in "owner/name" form.
	ListCommits(ctx context.Context, repo string, perPage int) ([]model.Commit, error)

	// CreateIssue opens a new issue in the given repository and
	// returns its browsable URL.
	CreateIssue(ctx context.Context, repo, title, body string) (string, error)
}
