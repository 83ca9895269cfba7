package interfaces

import (
	"context"

	"github.com/repodigest/repodigest/pkg/domain/model"
)

// ReportSink makes a run's summaries visible. Emit is called once per
// repository that had new commits, in processing order. Flush is
// called once at the end of the run; its first return value reports
// whether the flush itself wrote anything (sinks that buffer the whole
// run, or that emit a placeholder for empty runs, write during Flush).
type ReportSink interface {
	Emit(ctx context.Context, entry *model.SummaryEntry) error
	Flush(ctx context.Context) (bool, error)
}
