package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/repodigest/repodigest/pkg/cli/config"
	"github.com/repodigest/repodigest/pkg/domain/interfaces"
	githubinfra "github.com/repodigest/repodigest/pkg/infra/github"
	"github.com/repodigest/repodigest/pkg/infra/llm"
	"github.com/repodigest/repodigest/pkg/infra/report"
	"github.com/repodigest/repodigest/pkg/infra/state"
	"github.com/repodigest/repodigest/pkg/usecase"
)

func cmdCheck() *cli.Command {
	var (
		checkCfg  config.Check
		githubCfg config.GitHub
		llmCfg    config.LLM
	)

	flags := append(checkCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)

	return &cli.Command{
		Name:    "check",
		Aliases: []string{"c"},
		Usage:   "Run one pass over the configured repositories",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Debug("resolved configuration",
				"check", checkCfg,
				"github", githubCfg,
				"llm", llmCfg,
			)

			githubClient, err := githubinfra.NewClient(githubCfg.Token)
			if err != nil {
				return goerr.Wrap(err, "failed to create GitHub client")
			}

			summarizer, err := llm.New(llmCfg.APIKey, llmCfg.Endpoint, llmCfg.Model, llm.Variant(llmCfg.Variant))
			if err != nil {
				return goerr.Wrap(err, "failed to create summarization client")
			}

			sink, err := newSink(&checkCfg, &githubCfg, githubClient)
			if err != nil {
				return err
			}

			store := state.New(checkCfg.ConfigPath, checkCfg.StatePath)

			uc := usecase.NewCheck(githubClient, summarizer, sink, store,
				usecase.WithPageSize(int(checkCfg.PageSize)),
			)

			rep, err := uc.Run(ctx)
			if err != nil {
				return goerr.Wrap(err, "check run failed")
			}

			if rep.ChangesMade() {
				if err := signalChangesMade(checkCfg.OutputPath); err != nil {
					logger.Error("failed to write run-output signal",
						"path", checkCfg.OutputPath,
						"error", err,
					)
				}
			}

			return nil
		},
	}
}

func newSink(checkCfg *config.Check, githubCfg *config.GitHub, githubClient interfaces.GitHubClient) (interfaces.ReportSink, error) {
	switch checkCfg.Report {
	case "append":
		return report.NewAppend(checkCfg.LogPath), nil
	case "prepend":
		return report.NewPrepend(checkCfg.LogPath), nil
	case "issue":
		if githubCfg.ReportRepo == "" {
			return nil, goerr.New("issue report mode requires --report-repo")
		}
		return report.NewIssue(githubClient, githubCfg.ReportRepo), nil
	default:
		return nil, goerr.New("unknown report mode", goerr.V("mode", checkCfg.Report))
	}
}

// signalChangesMade appends the key-value line the external scheduler
// watches for. No output path configured means no signal is wanted.
func signalChangesMade(path string) error {
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return goerr.Wrap(err, "failed to open run-output file", goerr.V("path", path))
	}
	defer f.Close()

	if _, err := f.WriteString("changes_made=true\n"); err != nil {
		return goerr.Wrap(err, "failed to write run-output file", goerr.V("path", path))
	}

	return nil
}
