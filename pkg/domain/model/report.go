package model

import (
	"fmt"
	"time"
)

// TimestampFormat renders wall-clock times in UTC so log sections are
// comparable across runs regardless of where the checker executed.
const TimestampFormat = "2006-01-02 15:04:05 UTC"

// SummaryEntry is the text produced for one repository's batch of new
// commits in one run. Summary holds either a genuine LLM summary or a
// synthesized human-readable failure description.
type SummaryEntry struct {
	Repository string
	Summary    string
	Timestamp  time.Time
}

// Section renders the entry as a Markdown section delimited by a
// horizontal rule, the unit all reporting sinks emit.
func (e *SummaryEntry) Section() string {
	return fmt.Sprintf("## %s - %s\n\n%s\n\n---\n\n",
		e.Repository, e.Timestamp.UTC().Format(TimestampFormat), e.Summary)
}

// RepoResult is the outcome of checking a single repository. Exactly
// one of Entry and Err may be set; both nil means the repository had
// no new commits.
type RepoResult struct {
	Repository string
	Entry      *SummaryEntry
	NewCommits int
	Err        error
}

// RunReport collects the per-repository results of one run. The
// orchestrator appends one result per configured repository and
// continues regardless of individual result status.
type RunReport struct {
	Results []RepoResult
}

// ChangesMade reports whether any repository produced a summary entry
// this run. It drives both state persistence and the run-completion
// signal to the external scheduler.
func (r *RunReport) ChangesMade() bool {
	for _, res := range r.Results {
		if res.Entry != nil {
			return true
		}
	}
	return false
}

// Failed returns the results that ended with an error.
func (r *RunReport) Failed() []RepoResult {
	var failed []RepoResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}
