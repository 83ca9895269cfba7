package report

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/repodigest/repodigest/pkg/domain/interfaces"
	"github.com/repodigest/repodigest/pkg/domain/model"
)

// PrependSink buffers the whole run and writes it to the front of the
// log file at flush, pushing prior content down. An empty run still
// prepends a single "no changes" section so the log always shows that
// the checker ran.
type PrependSink struct {
	path    string
	now     func() time.Time
	entries []*model.SummaryEntry
}

// PrependOption is a functional option for PrependSink construction
type PrependOption func(*PrependSink)

// WithPrependClock replaces the wall clock used for the "no changes"
// placeholder, mainly for tests.
func WithPrependClock(now func() time.Time) PrependOption {
	return func(s *PrependSink) {
		s.now = now
	}
}

// NewPrepend creates a PrependSink over the given log file path.
func NewPrepend(path string, opts ...PrependOption) *PrependSink {
	s := &PrependSink{
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ interfaces.ReportSink = (*PrependSink)(nil)

// Emit buffers the entry until Flush.
func (s *PrependSink) Emit(ctx context.Context, entry *model.SummaryEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

// Flush writes the buffered sections before the existing log content.
// The result is byte-exact: new content followed by the prior file.
func (s *PrependSink) Flush(ctx context.Context) (bool, error) {
	var fresh strings.Builder
	if len(s.entries) == 0 {
		placeholder := &model.SummaryEntry{
			Repository: "No updates",
			Summary:    "No new commits in any watched repository.",
			Timestamp:  s.now(),
		}
		fresh.WriteString(placeholder.Section())
	} else {
		for _, entry := range s.entries {
			fresh.WriteString(entry.Section())
		}
	}

	prior, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, goerr.Wrap(err, "failed to read summary log", goerr.V("path", s.path))
	}

	content := append([]byte(fresh.String()), prior...)
	if err := os.WriteFile(s.path, content, 0644); err != nil {
		return false, goerr.Wrap(err, "failed to write summary log", goerr.V("path", s.path))
	}

	ctxlog.From(ctx).Info("prepended run summaries to log",
		"entries", len(s.entries),
		"path", s.path,
	)

	s.entries = nil
	return true, nil
}
