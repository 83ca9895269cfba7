package model

// WatchConfig lists the repositories to monitor, in processing order.
// It is read-only for the duration of a run.
type WatchConfig struct {
	Repositories []string `json:"repositories"` // "owner/name" form
}

// WatchState maps a repository identifier ("owner/name") to the last
// processed commit SHA. A repository absent from the map has never
// been processed and gets first-run semantics on its next check.
type WatchState map[string]string

// LastSeen returns the stored watermark for a repository, or an empty
// string when the repository has never been processed.
func (s WatchState) LastSeen(repo string) string {
	return s[repo]
}
