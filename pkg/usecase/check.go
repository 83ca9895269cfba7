package usecase

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/repodigest/repodigest/pkg/domain/interfaces"
	"github.com/repodigest/repodigest/pkg/domain/model"
	"github.com/repodigest/repodigest/pkg/domain/types"
)

const defaultPageSize = 30

type checkUseCase struct {
	githubClient interfaces.GitHubClient
	summarizer   interfaces.Summarizer
	sink         interfaces.ReportSink
	store        interfaces.StateStore
	pageSize     int
	now          func() time.Time
}

// Option is a functional option for check use case construction
type Option func(*checkUseCase)

// WithPageSize sets the size of the single upstream page requested
// per incremental check.
func WithPageSize(n int) Option {
	return func(uc *checkUseCase) {
		if n > 0 {
			uc.pageSize = n
		}
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(uc *checkUseCase) {
		uc.now = now
	}
}

// NewCheck creates a new CheckUseCase instance
func NewCheck(
	githubClient interfaces.GitHubClient,
	summarizer interfaces.Summarizer,
	sink interfaces.ReportSink,
	store interfaces.StateStore,
	opts ...Option,
) interfaces.CheckUseCase {
	uc := &checkUseCase{
		githubClient: githubClient,
		summarizer:   summarizer,
		sink:         sink,
		store:        store,
		pageSize:     defaultPageSize,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Run processes every configured repository sequentially: detect new
// commits, summarize their messages, hand the summary to the sink,
// and advance the in-memory watermark. State is persisted once at the
// end when at least one repository produced a result (or the sink
// wrote a placeholder for an empty run).
func (uc *checkUseCase) Run(ctx context.Context) (*model.RunReport, error) {
	logger := ctxlog.From(ctx)

	cfg, marks := uc.store.Load(ctx)
	report := &model.RunReport{}

	if len(cfg.Repositories) == 0 {
		logger.Warn("no repositories configured, nothing to check")
		return report, nil
	}

	logger.Info("starting repository update check",
		"repositories", len(cfg.Repositories),
	)

	for _, repo := range cfg.Repositories {
		result := uc.checkRepo(ctx, repo, marks)
		report.Results = append(report.Results, result)
	}

	flushed, err := uc.sink.Flush(ctx)
	if err != nil {
		// Summaries are lost but watermarks were advanced after the
		// summarization attempts; persist them so the next run does
		// not re-summarize the same commits.
		logger.Error("failed to flush reporting sink", "error", err)
	}

	if report.ChangesMade() || flushed {
		if err := uc.store.Save(ctx, marks); err != nil {
			logger.Error("failed to persist watermark state", "error", err)
			return report, goerr.Wrap(err, "failed to persist watermark state")
		}
	}

	logger.Info("repository update check finished",
		"repositories", len(report.Results),
		"updated", countUpdated(report),
		"failed", len(report.Failed()),
	)

	return report, nil
}

// checkRepo is the per-repository boundary: no failure inside it,
// panics included, may abort the pass over the remaining
// repositories.
func (uc *checkUseCase) checkRepo(ctx context.Context, repo string, marks model.WatchState) (result model.RepoResult) {
	logger := ctxlog.From(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while checking repository",
				"repository", repo,
				"recover", r,
				"stack", string(debug.Stack()),
			)
			result = model.RepoResult{
				Repository: repo,
				Err:        goerr.New("panic while checking repository", goerr.V("recover", r)),
			}
		}
	}()

	logger.Info("checking repository", "repository", repo)

	commits, err := uc.detect(ctx, repo, marks.LastSeen(repo))
	if err != nil {
		if goerr.HasTag(err, types.TagUpstream) {
			logger.Error("upstream API error, skipping repository",
				"repository", repo,
				"error", err,
			)
		} else {
			logger.Error("unexpected error while detecting commits",
				"repository", repo,
				"error", err,
			)
		}
		return model.RepoResult{Repository: repo, Err: err}
	}

	if len(commits) == 0 {
		logger.Info("no new commits since last check", "repository", repo)
		return model.RepoResult{Repository: repo}
	}

	logger.Info("found new commits",
		"repository", repo,
		"count", len(commits),
	)

	// The summarizer never fails: credential, transport, and
	// response-shape problems all come back as summary text. Either
	// way the summarization attempt completed, so the watermark
	// advances.
	summary := uc.summarizer.Summarize(ctx, model.Messages(commits))

	entry := &model.SummaryEntry{
		Repository: repo,
		Summary:    summary,
		Timestamp:  uc.now(),
	}
	if err := uc.sink.Emit(ctx, entry); err != nil {
		logger.Error("failed to record summary",
			"repository", repo,
			"error", err,
		)
	}

	newest := commits[len(commits)-1].SHA
	marks[repo] = newest

	logger.Info("advanced watermark",
		"repository", repo,
		"commit", shortSHA(newest),
	)

	return model.RepoResult{
		Repository: repo,
		Entry:      entry,
		NewCommits: len(commits),
	}
}

func countUpdated(report *model.RunReport) int {
	var n int
	for _, res := range report.Results {
		if res.Entry != nil {
			n++
		}
	}
	return n
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
