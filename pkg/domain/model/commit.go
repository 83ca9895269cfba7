package model

// Commit is one entry from a repository's commit feed. Only the
// identifier and the message are used; diffs are never fetched.
type Commit struct {
	SHA     string // Commit hash
	Message string // Full commit message, possibly multi-line
}

// Messages extracts the commit messages preserving the order of the
// input slice.
func Messages(commits []Commit) []string {
	msgs := make([]string, 0, len(commits))
	for _, c := range commits {
		msgs = append(msgs, c.Message)
	}
	return msgs
}
