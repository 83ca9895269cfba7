package usecase

import (
	"context"
	"slices"

	"github.com/repodigest/repodigest/pkg/domain/model"
)

// detect returns the commits that appeared after lastSeen, oldest
// first.
//
// First-run semantics: with no watermark, only the single most recent
// commit is fetched and returned. Prior history is intentionally
// skipped so a freshly added repository does not flood its first run.
//
// Incremental: one page of the feed is fetched (newest first) and
// scanned until the watermark commit, exclusive. If the watermark
// scrolled off the page, the whole page counts as new and the
// watermark will advance past the gap; commits beyond the page
// boundary are silently dropped. That bounded-window behavior is
// accepted, not an error.
func (uc *checkUseCase) detect(ctx context.Context, repo, lastSeen string) ([]model.Commit, error) {
	if lastSeen == "" {
		return uc.githubClient.ListCommits(ctx, repo, 1)
	}

	page, err := uc.githubClient.ListCommits(ctx, repo, uc.pageSize)
	if err != nil {
		return nil, err
	}

	var fresh []model.Commit
	for _, c := range page {
		if c.SHA == lastSeen {
			break
		}
		fresh = append(fresh, c)
	}

	slices.Reverse(fresh)
	return fresh, nil
}
