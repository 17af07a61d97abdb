// Package genclient is the HTTP boundary to the generation collaborator.
// The decision layer never produces final prose itself; it hands a
// directive-derived system prompt to this client.
package genclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nightjarlabs/companion-core/internal/pipeline"
)

const defaultURL = "https://api.anthropic.com/v1/messages"

// #region generator

// Message is one turn of conversation context sent to the collaborator.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator is the collaborator boundary consumed by callers that need
// generated text. The HTTP client below is the production implementation.
type Generator interface {
	Generate(ctx context.Context, d pipeline.Directive, messages []Message) (string, error)
}

// #endregion generator

// #region client

// Client talks to a messages-style completion API.
type Client struct {
	url       string
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
}

// NewClient builds a generation client. An empty url falls back to the
// default endpoint.
func NewClient(url, apiKey, model string, maxTokens int) *Client {
	if url == "" {
		url = defaultURL
	}
	return &Client{
		url:       url,
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: 120 * time.Second},
	}
}

type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate renders the directive into a system prompt and requests a
// completion. An active override short-circuits: the canned response is
// returned without any network call.
func (c *Client) Generate(ctx context.Context, d pipeline.Directive, messages []Message) (string, error) {
	if d.OverrideActive {
		return d.OverrideResponse, nil
	}

	body, err := json.Marshal(request{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    SystemPrompt(d),
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("api error %d: %s: %s", resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response content")
	}
	return apiResp.Content[0].Text, nil
}

// #endregion client

// #region system-prompt

// SystemPrompt renders a directive into the instruction block for the
// generation collaborator.
func SystemPrompt(d pipeline.Directive) string {
	var b strings.Builder
	b.WriteString("You are a long-term conversational companion.\n")
	fmt.Fprintf(&b, "Strategy: %s. Tone: %s.\n", d.Strategy, d.ToneTag)
	for _, hint := range d.TemplateHints {
		fmt.Fprintf(&b, "- %s\n", hint)
	}
	if len(d.Insights) > 0 {
		b.WriteString("If it fits naturally, you may weave in:\n")
		for _, in := range d.Insights {
			fmt.Fprintf(&b, "- %s\n", in)
		}
	}
	for _, rec := range d.Recommendations {
		fmt.Fprintf(&b, "Consider suggesting: %s\n", rec)
	}
	return b.String()
}

// #endregion system-prompt
