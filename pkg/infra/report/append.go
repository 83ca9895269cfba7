package report

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/repodigest/repodigest/pkg/domain/interfaces"
	"github.com/repodigest/repodigest/pkg/domain/model"
)

// AppendSink writes each repository's summary section to the end of
// the log file as soon as it is produced. Runs accumulate below prior
// ones.
type AppendSink struct {
	path string
}

// NewAppend creates an AppendSink over the given log file path.
func NewAppend(path string) *AppendSink {
	return &AppendSink{path: path}
}

var _ interfaces.ReportSink = (*AppendSink)(nil)

// Emit appends the entry's section to the log file, creating it on
// first use.
func (s *AppendSink) Emit(ctx context.Context, entry *model.SummaryEntry) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return goerr.Wrap(err, "failed to open summary log", goerr.V("path", s.path))
	}
	defer f.Close()

	if _, err := f.WriteString(entry.Section()); err != nil {
		return goerr.Wrap(err, "failed to append summary", goerr.V("path", s.path))
	}

	ctxlog.From(ctx).Info("appended summary to log",
		"repository", entry.Repository,
		"path", s.path,
	)

	return nil
}

// Flush is a no-op; appends happen eagerly in Emit.
func (s *AppendSink) Flush(ctx context.Context) (bool, error) {
	return false, nil
}
