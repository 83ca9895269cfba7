package interfaces

import "context"

// Summarizer converts a batch of commit messages into a short
// natural-language summary.
//
// Summarize never fails: a missing credential, a transport error, or
// an unexpected response shape all come back as a human-readable
// string that takes the summary's place. Summarization problems must
// never stop a run.
type Summarizer interface {
	Summarize(ctx context.Context, messages []string) string
}
