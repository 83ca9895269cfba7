package interfaces

import (
	"context"

	"github.com/repodigest/repodigest/pkg/domain/model"
)

// CheckUseCase runs one pass over the configured repositories:
// detect new commits, summarize them, emit to the reporting sink, and
// advance the watermarks.
type CheckUseCase interface {
	// Run processes every configured repository and returns one
	// result per repository. An error from a single repository never
	// aborts the pass; the returned error covers run-level failures
	// only (state persistence, sink flush).
	Run(ctx context.Context) (*model.RunReport, error)
}
