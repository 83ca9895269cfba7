package config

import "github.com/urfave/cli/v3"

// Check holds the file paths and run parameters of a check pass.
type Check struct {
	ConfigPath string
	StatePath  string
	LogPath    string
	Report     string
	PageSize   int64
	OutputPath string
}

// Flags returns CLI flags for check configuration
func (c *Check) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to the repository list (JSON)",
			Value:       "config.json",
			Destination: &c.ConfigPath,
			Sources:     cli.EnvVars("REPODIGEST_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "state",
			Usage:       "Path to the watermark state file (JSON)",
			Value:       "last_commits.json",
			Destination: &c.StatePath,
			Sources:     cli.EnvVars("REPODIGEST_STATE"),
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "Path to the Markdown summary log",
			Value:       "summaries.md",
			Destination: &c.LogPath,
			Sources:     cli.EnvVars("REPODIGEST_LOG_FILE"),
		},
		&cli.StringFlag{
			Name:        "report",
			Usage:       "Report mode: append, prepend, or issue",
			Value:       "append",
			Destination: &c.Report,
			Sources:     cli.EnvVars("REPODIGEST_REPORT"),
		},
		&cli.Int64Flag{
			Name:        "page-size",
			Usage:       "Commits fetched per incremental check; older commits beyond one page are skipped",
			Value:       30,
			Destination: &c.PageSize,
			Sources:     cli.EnvVars("REPODIGEST_PAGE_SIZE"),
		},
		&cli.StringFlag{
			Name:        "output",
			Usage:       "File receiving the changes_made=true signal for the external scheduler",
			Destination: &c.OutputPath,
			Sources:     cli.EnvVars("GITHUB_OUTPUT"),
		},
	}
}
