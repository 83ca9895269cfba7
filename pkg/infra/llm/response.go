package llm

import (
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Variant selects the wire shape of the summarization endpoint. The
// two shapes observed in the wild are a flat candidate list
// (Gemini-style generateContent) and a list of nested output items
// (Responses-API style, used by e.g. VolcEngine Ark).
type Variant string

const (
	// VariantCandidates expects `candidates[].content.parts[].text`
	VariantCandidates Variant = "candidates"
	// VariantOutput expects `output[].content[].text` on items of
	// type "message" from role "assistant"
	VariantOutput Variant = "output"
)

// Validate checks the variant is one of the supported shapes.
func (v Variant) Validate() error {
	switch v {
	case VariantCandidates, VariantOutput:
		return nil
	default:
		return goerr.New("unsupported response variant", goerr.V("variant", string(v)))
	}
}

// apiError is the structured error payload both vendors agree on.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// candidateListResponse is the flat candidate-list success shape.
type candidateListResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error *apiError `json:"error"`
}

// outputItemResponse is the nested output-item success shape.
type outputItemResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *apiError `json:"error"`
}

// extractText finds the first text payload in a response body of the
// given variant, with surrounding whitespace trimmed. Each failure
// mode returns a distinct error so the caller can synthesize a
// descriptive fallback string: a structured error payload, a blocked
// prompt, and a response that simply lacks the expected text field
// are all different outcomes.
func extractText(variant Variant, body []byte) (string, error) {
	switch variant {
	case VariantCandidates:
		return extractCandidateText(body)
	case VariantOutput:
		return extractOutputText(body)
	default:
		return "", goerr.New("unsupported response variant", goerr.V("variant", string(variant)))
	}
}

func extractCandidateText(body []byte) (string, error) {
	var resp candidateListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", goerr.Wrap(err, "unrecognized response shape")
	}

	if resp.Error != nil {
		return "", goerr.New("service reported an error", goerr.V("message", resp.Error.Message))
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", goerr.New("request was blocked", goerr.V("reason", resp.PromptFeedback.BlockReason))
	}

	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return strings.TrimSpace(part.Text), nil
			}
		}
	}

	return "", goerr.New("summary text not found in response structure")
}

func extractOutputText(body []byte) (string, error) {
	var resp outputItemResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", goerr.Wrap(err, "unrecognized response shape")
	}

	if resp.Error != nil {
		return "", goerr.New("service reported an error", goerr.V("message", resp.Error.Message))
	}

	for _, item := range resp.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, content := range item.Content {
			if content.Type == "output_text" && content.Text != "" {
				return strings.TrimSpace(content.Text), nil
			}
		}
	}

	return "", goerr.New("summary text not found in response structure")
}
