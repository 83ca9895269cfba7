package interfaces

import (
	"context"

	"github.com/repodigest/repodigest/pkg/domain/model"
)

// StateStore persists the watched-repository list and the
// per-repository watermarks between runs.
//
// Load never fails: an absent or unparsable state file degrades to an
// empty map so that first-run semantics apply per repository instead
// of failing the whole run. Problems are logged, not returned.
type StateStore interface {
	Load(ctx context.Context) (*model.WatchConfig, model.WatchState)
	Save(ctx context.Context, marks model.WatchState) error
}
