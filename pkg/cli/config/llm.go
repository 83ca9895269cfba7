package config

import "github.com/urfave/cli/v3"

// LLM holds summarization endpoint configuration. The API key is
// optional: without it, runs still complete and the summary text is a
// fixed placeholder.
type LLM struct {
	APIKey   string `masq:"secret"`
	Endpoint string
	Model    string
	Variant  string
}

// Flags returns CLI flags for summarization configuration
func (c *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-api-key",
			Usage:       "API key for the summarization endpoint",
			Destination: &c.APIKey,
			Sources:     cli.EnvVars("REPODIGEST_LLM_API_KEY", "ARK_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "llm-endpoint",
			Usage:       "Summarization endpoint URL",
			Value:       "https://ark.cn-beijing.volces.com/api/v3/responses",
			Destination: &c.Endpoint,
			Sources:     cli.EnvVars("REPODIGEST_LLM_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:        "llm-model",
			Usage:       "Model name sent in the request body (output variant only)",
			Value:       "doubao-seed-1-8-251228",
			Destination: &c.Model,
			Sources:     cli.EnvVars("REPODIGEST_LLM_MODEL"),
		},
		&cli.StringFlag{
			Name:        "llm-variant",
			Usage:       "Response shape of the endpoint: 'candidates' (flat candidate list) or 'output' (nested output items)",
			Value:       "output",
			Destination: &c.Variant,
			Sources:     cli.EnvVars("REPODIGEST_LLM_VARIANT"),
		},
	}
}
