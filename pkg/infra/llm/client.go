package llm

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/repodigest/repodigest/pkg/domain/interfaces"
)

//go:embed prompts/summarize.md
var summarizePromptTemplate string

// MissingKeyPlaceholder is returned when no API key is configured.
// The network is never touched in that case.
const MissingKeyPlaceholder = "Could not summarize commits: API key is missing."

// Client talks to a remote summarization endpoint over plain HTTP.
// The request body and the response parsing follow the configured
// Variant; everything that can go wrong is folded into the summary
// text per the Summarizer contract.
type Client struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
	model      string
	variant    Variant
	template   *template.Template
}

// Option is a functional option for Client construction
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for
// tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a summarization client. The apiKey may be empty; in
// that case every Summarize call returns MissingKeyPlaceholder.
func New(apiKey, endpoint, model string, variant Variant, opts ...Option) (*Client, error) {
	if err := variant.Validate(); err != nil {
		return nil, err
	}

	tmpl, err := template.New("summarize").Parse(summarizePromptTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse summarize prompt template")
	}

	c := &Client{
		httpClient: http.DefaultClient,
		apiKey:     apiKey,
		endpoint:   endpoint,
		model:      model,
		variant:    variant,
		template:   tmpl,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

var _ interfaces.Summarizer = (*Client)(nil)

// Summarize sends the commit messages to the configured endpoint and
// returns the extracted summary text. Any failure becomes a
// human-readable string; see interfaces.Summarizer.
func (c *Client) Summarize(ctx context.Context, messages []string) string {
	logger := ctxlog.From(ctx)

	if c.apiKey == "" {
		logger.Warn("summarization API key is not set, skipping network call")
		return MissingKeyPlaceholder
	}

	prompt, err := c.buildPrompt(messages)
	if err != nil {
		logger.Error("failed to build summarization prompt", "error", err)
		return fmt.Sprintf("Error during summarization: %v", err)
	}

	body, err := c.requestBody(prompt)
	if err != nil {
		logger.Error("failed to encode summarization request", "error", err)
		return fmt.Sprintf("Error during summarization: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		logger.Error("failed to create summarization request", "error", err)
		return fmt.Sprintf("Error during summarization: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("summarization request failed", "error", err)
		return fmt.Sprintf("Error during summarization: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("failed to read summarization response", "error", err)
		return fmt.Sprintf("Error during summarization: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("summarization endpoint returned an error status",
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return fmt.Sprintf("Error during summarization: unexpected status %d", resp.StatusCode)
	}

	text, err := extractText(c.variant, respBody)
	if err != nil {
		logger.Error("could not extract summary from response",
			"error", err,
			"body", string(respBody),
		)
		return fmt.Sprintf("Could not extract summary from API response: %v", err)
	}

	return text
}

func (c *Client) buildPrompt(messages []string) (string, error) {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, "- "+msg)
	}

	var buf bytes.Buffer
	if err := c.template.Execute(&buf, map[string]string{
		"Messages": strings.Join(lines, "\n"),
	}); err != nil {
		return "", goerr.Wrap(err, "failed to execute prompt template")
	}

	return buf.String(), nil
}

// requestBody encodes the prompt in the wire shape the configured
// variant expects.
func (c *Client) requestBody(prompt string) ([]byte, error) {
	switch c.variant {
	case VariantCandidates:
		return json.Marshal(map[string]any{
			"contents": []map[string]any{
				{
					"parts": []map[string]string{
						{"text": prompt},
					},
				},
			},
		})

	case VariantOutput:
		return json.Marshal(map[string]any{
			"model": c.model,
			"input": []map[string]any{
				{
					"role": "user",
					"content": []map[string]string{
						{"type": "input_text", "text": prompt},
					},
				},
			},
		})

	default:
		return nil, goerr.New("unsupported response variant", goerr.V("variant", string(c.variant)))
	}
}
