package config

import "github.com/urfave/cli/v3"

// GitHub holds GitHub API configuration
type GitHub struct {
	Token      string `masq:"secret"`
	ReportRepo string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub API token used for commit listing and issue creation",
			Required:    true,
			Destination: &c.Token,
			Sources:     cli.EnvVars("REPODIGEST_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "report-repo",
			Usage:       "Repository (owner/name) receiving summary issues; required for the issue report mode",
			Destination: &c.ReportRepo,
			Sources:     cli.EnvVars("REPODIGEST_REPORT_REPO"),
		},
	}
}
