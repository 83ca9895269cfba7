package report

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/repodigest/repodigest/pkg/domain/interfaces"
	"github.com/repodigest/repodigest/pkg/domain/model"
)

// IssueSink aggregates every summary of the run into the body of one
// newly created issue in the reporting repository. A run with no new
// commits creates no issue.
type IssueSink struct {
	githubClient interfaces.GitHubClient
	repo         string
	now          func() time.Time
	entries      []*model.SummaryEntry
}

// IssueOption is a functional option for IssueSink construction
type IssueOption func(*IssueSink)

// WithIssueClock replaces the wall clock used for the issue title,
// mainly for tests.
func WithIssueClock(now func() time.Time) IssueOption {
	return func(s *IssueSink) {
		s.now = now
	}
}

// NewIssue creates an IssueSink reporting into the given repository
// ("owner/name" form).
func NewIssue(githubClient interfaces.GitHubClient, repo string, opts ...IssueOption) *IssueSink {
	s := &IssueSink{
		githubClient: githubClient,
		repo:         repo,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ interfaces.ReportSink = (*IssueSink)(nil)

// Emit buffers the entry until Flush.
func (s *IssueSink) Emit(ctx context.Context, entry *model.SummaryEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

// Flush creates one issue holding every buffered section, titled with
// the run date. Nothing is created when the run produced no entries.
func (s *IssueSink) Flush(ctx context.Context) (bool, error) {
	if len(s.entries) == 0 {
		return false, nil
	}

	var body strings.Builder
	for _, entry := range s.entries {
		body.WriteString(entry.Section())
	}

	title := "Repository update summary (" + s.now().UTC().Format("2006-01-02") + ")"
	url, err := s.githubClient.CreateIssue(ctx, s.repo, title, body.String())
	if err != nil {
		return false, goerr.Wrap(err, "failed to create summary issue", goerr.V("repository", s.repo))
	}

	ctxlog.From(ctx).Info("created summary issue",
		"repository", s.repo,
		"entries", len(s.entries),
		"url", url,
	)

	s.entries = nil
	return true, nil
}
