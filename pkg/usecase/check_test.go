package usecase_test

import (
	"context"
	"maps"
	"slices"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/repodigest/repodigest/pkg/domain/model"
	"github.com/repodigest/repodigest/pkg/domain/types"
	"github.com/repodigest/repodigest/pkg/usecase"
)

type listCall struct {
	repo    string
	perPage int
}

type fakeGitHub struct {
	pages map[string][]model.Commit // newest first, as the real feed
	errs  map[string]error
	calls []listCall
}

func (f *fakeGitHub) ListCommits(ctx context.Context, repo string, perPage int) ([]model.Commit, error) {
	f.calls = append(f.calls, listCall{repo: repo, perPage: perPage})
	if err := f.errs[repo]; err != nil {
		return nil, err
	}
	page := f.pages[repo]
	if perPage < len(page) {
		page = page[:perPage]
	}
	return slices.Clone(page), nil
}

func (f *fakeGitHub) CreateIssue(ctx context.Context, repo, title, body string) (string, error) {
	return "", nil
}

type fakeSummarizer struct {
	batches  [][]string
	response string
	panics   bool
}

func (f *fakeSummarizer) Summarize(ctx context.Context, messages []string) string {
	if f.panics {
		panic("summarizer exploded")
	}
	f.batches = append(f.batches, slices.Clone(messages))
	return f.response
}

type memSink struct {
	entries     []*model.SummaryEntry
	flushWrites bool
	flushed     bool
}

func (s *memSink) Emit(ctx context.Context, entry *model.SummaryEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memSink) Flush(ctx context.Context) (bool, error) {
	s.flushed = true
	return s.flushWrites, nil
}

type memStore struct {
	cfg   *model.WatchConfig
	marks model.WatchState
	saved []model.WatchState
}

func (s *memStore) Load(ctx context.Context) (*model.WatchConfig, model.WatchState) {
	return s.cfg, s.marks
}

func (s *memStore) Save(ctx context.Context, marks model.WatchState) error {
	s.saved = append(s.saved, maps.Clone(marks))
	return nil
}

func TestCheck_FirstRunSeedsWithLatestCommit(t *testing.T) {
	ctx := context.Background()

	github := &fakeGitHub{
		pages: map[string][]model.Commit{
			"org/a": {
				{SHA: "c3", Message: "msg of c3"},
				{SHA: "c2", Message: "msg of c2"},
				{SHA: "c1", Message: "msg of c1"},
			},
		},
	}
	summarizer := &fakeSummarizer{response: "a tidy summary"}
	sink := &memSink{}
	store := &memStore{
		cfg:   &model.WatchConfig{Repositories: []string{"org/a", "org/b"}},
		marks: model.WatchState{},
	}

	uc := usecase.NewCheck(github, summarizer, sink, store)
	report, err := uc.Run(ctx)
	gt.NoError(t, err)

	// First run requests a single commit regardless of upstream depth
	gt.A(t, github.calls).Length(2)
	gt.V(t, github.calls[0]).Equal(listCall{repo: "org/a", perPage: 1})
	gt.V(t, github.calls[1]).Equal(listCall{repo: "org/b", perPage: 1})

	gt.A(t, summarizer.batches).Length(1)
	gt.V(t, summarizer.batches[0]).Equal([]string{"msg of c3"})

	gt.A(t, report.Results).Length(2)
	gt.V(t, report.Results[0].NewCommits).Equal(1)
	gt.V(t, report.Results[1].Entry).Nil()

	gt.A(t, store.saved).Length(1)
	gt.V(t, store.saved[0]["org/a"]).Equal("c3")
	gt.V(t, store.saved[0].LastSeen("org/b")).Equal("")
}

func TestCheck_IncrementalReturnsCommitsAfterWatermark(t *testing.T) {
	ctx := context.Background()

	github := &fakeGitHub{
		pages: map[string][]model.Commit{
			"org/a": {
				{SHA: "c3", Message: "third"},
				{SHA: "c2", Message: "second"},
				{SHA: "c1", Message: "first"},
			},
		},
	}
	summarizer := &fakeSummarizer{response: "summary"}
	sink := &memSink{}
	store := &memStore{
		cfg:   &model.WatchConfig{Repositories: []string{"org/a"}},
		marks: model.WatchState{"org/a": "c1"},
	}

	uc := usecase.NewCheck(github, summarizer, sink, store, usecase.WithPageSize(10))
	_, err := uc.Run(ctx)
	gt.NoError(t, err)

	gt.V(t, github.calls[0].perPage).Equal(10)

	// Chronological order, watermark commit excluded
	gt.A(t, summarizer.batches).Length(1)
	gt.V(t, summarizer.batches[0]).Equal([]string{"second", "third"})

	gt.V(t, store.saved[0]["org/a"]).Equal("c3")
}

func TestCheck_WatermarkScrolledOffPage(t *testing.T) {
	ctx := context.Background()

	// The stored watermark no longer appears in the page: the whole
	// page counts as new and the watermark jumps to its newest commit.
	github := &fakeGitHub{
		pages: map[string][]model.Commit{
			"org/a": {
				{SHA: "c9", Message: "ninth"},
				{SHA: "c8", Message: "eighth"},
				{SHA: "c7", Message: "seventh"},
			},
		},
	}
	summarizer := &fakeSummarizer{response: "summary"}
	sink := &memSink{}
	store := &memStore{
		cfg:   &model.WatchConfig{Repositories: []string{"org/a"}},
		marks: model.WatchState{"org/a": "c2"},
	}

	uc := usecase.NewCheck(github, summarizer, sink, store)
	_, err := uc.Run(ctx)
	gt.NoError(t, err)

	gt.V(t, summarizer.batches[0]).Equal([]string{"seventh", "eighth", "ninth"})
	gt.V(t, store.saved[0]["org/a"]).Equal("c9")
}

func TestCheck_NoNewCommits(t *testing.T) {
	ctx := context.Background()

	github := &fakeGitHub{
		pages: map[string][]model.Commit{
			"org/a": {
				{SHA: "c3", Message: "third"},
				{SHA: "c2", Message: "second"},
			},
		},
	}
	summarizer := &fakeSummarizer{response: "summary"}
	sink := &memSink{}
	store := &memStore{
		cfg:   &model.WatchConfig{Repositories: []string{"org/a"}},
		marks: model.WatchState{"org/a": "c3"},
	}

	uc := usecase.NewCheck(github, summarizer, sink, store)
	report, err := uc.Run(ctx)
	gt.NoError(t, err)

	gt.A(t, summarizer.batches).Length(0)
	gt.A(t, sink.entries).Length(0)
	gt.V(t, report.ChangesMade()).Equal(false)

	// Nothing was produced and the sink wrote nothing, so no save
	gt.V(t, sink.flushed).Equal(true)
	gt.A(t, store.saved).Length(0)
}

func TestCheck_BufferingSinkStillPersistsState(t *testing.T) {
	ctx := context.Background()

	// Prepend-style sinks write a placeholder even for empty runs;
	// state is persisted whenever the sink reports a write.
	github := &fakeGitHub{
		pages: map[string][]model.Commit{
			"org/a": {{SHA: "c3", Message: "third"}},
		},
	}
	sink := &memSink{flushWrites: true}
	store := &memStore{
		cfg:   &model.WatchConfig{Repositories: []string{"org/a"}},
		marks: model.WatchState{"org/a": "c3"},
	}

	uc := usecase.NewCheck(github, &fakeSummarizer{}, sink, store)
	report, err := uc.Run(ctx)
	gt.NoError(t, err)

	gt.V(t, report.ChangesMade()).Equal(false)
	gt.A(t, store.saved).Length(1)
}

func TestCheck_UpstreamErrorDoesNotAbortRun(t *testing.T) {
	ctx := context.Background()

	github := &fakeGitHub{
		pages: map[string][]model.Commit{
			"org/b": {{SHA: "b1", Message: "b first"}},
		},
		errs: map[string]error{
			"org/a": goerr.New("boom", goerr.T(types.TagUpstream)),
		},
	}
	summarizer := &fakeSummarizer{response: "summary"}
	sink := &memSink{}
	store := &memStore{
		cfg:   &model.WatchConfig{Repositories: []string{"org/a", "org/b"}},
		marks: model.WatchState{"org/a": "a0"},
	}

	uc := usecase.NewCheck(github, summarizer, sink, store)
	report, err := uc.Run(ctx)
	gt.NoError(t, err)

	gt.A(t, report.Results).Length(2)
	gt.V(t, report.Results[0].Err).NotNil()
	gt.V(t, report.Results[1].Entry).NotNil()

	// Failed repository keeps its old watermark; the healthy one advances
	gt.A(t, store.saved).Length(1)
	gt.V(t, store.saved[0]["org/a"]).Equal("a0")
	gt.V(t, store.saved[0]["org/b"]).Equal("b1")
}

func TestCheck_SummarizerFallbackStillAdvancesWatermark(t *testing.T) {
	ctx := context.Background()

	github := &fakeGitHub{
		pages: map[string][]model.Commit{
			"org/a": {{SHA: "c1", Message: "first"}},
		},
	}
	// A fallback string is a completed summarization attempt
	summarizer := &fakeSummarizer{response: "Could not summarize commits: API key is missing."}
	sink := &memSink{}
	store := &memStore{
		cfg:   &model.WatchConfig{Repositories: []string{"org/a"}},
		marks: model.WatchState{},
	}

	uc := usecase.NewCheck(github, summarizer, sink, store)
	report, err := uc.Run(ctx)
	gt.NoError(t, err)

	gt.V(t, report.Results[0].Err).Nil()
	gt.V(t, report.Results[0].Entry.Summary).Equal("Could not summarize commits: API key is missing.")
	gt.V(t, store.saved[0]["org/a"]).Equal("c1")
}

func TestCheck_PanicIsContainedPerRepository(t *testing.T) {
	ctx := context.Background()

	github := &fakeGitHub{
		pages: map[string][]model.Commit{
			"org/a": {{SHA: "a1", Message: "a first"}},
			"org/b": {{SHA: "b1", Message: "b first"}},
		},
	}
	sink := &memSink{}
	store := &memStore{
		cfg:   &model.WatchConfig{Repositories: []string{"org/a", "org/b"}},
		marks: model.WatchState{},
	}

	uc := usecase.NewCheck(github, &fakeSummarizer{panics: true}, sink, store)
	report, err := uc.Run(ctx)
	gt.NoError(t, err)

	gt.A(t, report.Results).Length(2)
	gt.V(t, report.Results[0].Err).NotNil()
	gt.V(t, report.Results[1].Err).NotNil()
}

func TestCheck_NoRepositoriesConfigured(t *testing.T) {
	ctx := context.Background()

	sink := &memSink{}
	store := &memStore{
		cfg:   &model.WatchConfig{},
		marks: model.WatchState{},
	}

	uc := usecase.NewCheck(&fakeGitHub{}, &fakeSummarizer{}, sink, store)
	report, err := uc.Run(ctx)
	gt.NoError(t, err)

	gt.A(t, report.Results).Length(0)
	gt.V(t, sink.flushed).Equal(false)
	gt.A(t, store.saved).Length(0)
}

func TestCheck_EntryTimestampUsesInjectedClock(t *testing.T) {
	ctx := context.Background()

	fixed := time.Date(2025, 5, 4, 3, 2, 1, 0, time.UTC)
	github := &fakeGitHub{
		pages: map[string][]model.Commit{
			"org/a": {{SHA: "c1", Message: "first"}},
		},
	}
	sink := &memSink{}
	store := &memStore{
		cfg:   &model.WatchConfig{Repositories: []string{"org/a"}},
		marks: model.WatchState{},
	}

	uc := usecase.NewCheck(github, &fakeSummarizer{response: "s"}, sink, store,
		usecase.WithClock(func() time.Time { return fixed }),
	)
	_, err := uc.Run(ctx)
	gt.NoError(t, err)

	gt.A(t, sink.entries).Length(1)
	gt.V(t, sink.entries[0].Timestamp).Equal(fixed)
}
