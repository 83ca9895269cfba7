package github

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/repodigest/repodigest/pkg/domain/interfaces"
	"github.com/repodigest/repodigest/pkg/domain/model"
	"github.com/repodigest/repodigest/pkg/domain/types"
)

type client struct {
	githubClient *github.Client
}

// Option is a functional option for client construction
type Option func(*github.Client) error

// WithBaseURL points the client at an alternate API endpoint, mainly
// for tests against a local HTTP server.
func WithBaseURL(raw string) Option {
	return func(c *github.Client) error {
		u, err := url.Parse(strings.TrimSuffix(raw, "/") + "/")
		if err != nil {
			return goerr.Wrap(err, "invalid base URL", goerr.V("url", raw))
		}
		c.BaseURL = u
		return nil
	}
}

// NewClient creates a GitHub client authenticated with a bearer token
func NewClient(token string, opts ...Option) (interfaces.GitHubClient, error) {
	githubClient := github.NewClient(nil).WithAuthToken(token)

	for _, opt := range opts {
		if err := opt(githubClient); err != nil {
			return nil, err
		}
	}

	return &client{
		githubClient: githubClient,
	}, nil
}

// ListCommits fetches the most recent page of commits for the
// repository's default branch. The upstream feed is newest first and
// is returned as-is.
func (c *client) ListCommits(ctx context.Context, repo string, perPage int) ([]model.Commit, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	commits, _, err := c.githubClient.Repositories.ListCommits(ctx, owner, name, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list commits",
			goerr.T(types.TagUpstream), goerr.V("repository", repo))
	}

	result := make([]model.Commit, 0, len(commits))
	for _, rc := range commits {
		result = append(result, model.Commit{
			SHA:     rc.GetSHA(),
			Message: rc.GetCommit().GetMessage(),
		})
	}

	return result, nil
}

// CreateIssue opens a new issue in the given repository and returns
// its browsable URL.
func (c *client) CreateIssue(ctx context.Context, repo, title, body string) (string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return "", err
	}

	issue, _, err := c.githubClient.Issues.Create(ctx, owner, name, &github.IssueRequest{
		Title: github.Ptr(title),
		Body:  github.Ptr(body),
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create issue",
			goerr.T(types.TagUpstream), goerr.V("repository", repo))
	}

	return issue.GetHTMLURL(), nil
}

func splitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", goerr.New("invalid repository identifier, want owner/name",
			goerr.V("repository", repo))
	}
	return owner, name, nil
}
