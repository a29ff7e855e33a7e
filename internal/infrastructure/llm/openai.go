package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"seoadmin/internal/config"
	"seoadmin/internal/domain"
	"seoadmin/internal/ports"
)

// Client implements ports.Delegate backed by OpenAI-compatible APIs.
type Client struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

var _ ports.Delegate = (*Client)(nil)

// NewClient builds a delegate client from configuration.
func NewClient(cfg config.OpenAIConfig) *Client {
	return &Client{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

const analyzeInstructions = `Audit the page below for SEO problems.
Respond with ONLY a JSON array, no prose. Each element:
{"severity":"HIGH|MEDIUM|LOW","category":"...","title":"...","why":"...",
"where":{"field":"...","selector":"...","example":"..."},
"currentValue":"...","proposedFix":"..."}
Field names must be one of: title, meta_description, content, or a specific
descriptor when none of those apply.`

// Analyze sends the page payload and parses the structured issue list. The
// client is strict: any transport or parse failure is a DelegateError, and
// the caller decides how to degrade.
func (c *Client) Analyze(ctx context.Context, req domain.AnalysisRequest) ([]domain.IssueDraft, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &domain.DelegateError{Op: "analyze", Err: fmt.Errorf("marshal request: %w", err)}
	}

	userPrompt := analyzeInstructions + "\n\nPage payload:\n" + string(payload)
	content, err := c.complete(ctx, userPrompt)
	if err != nil {
		return nil, &domain.DelegateError{Op: "analyze", Err: err}
	}

	drafts, err := parseIssueDrafts(content)
	if err != nil {
		return nil, &domain.DelegateError{Op: "analyze", Err: err}
	}
	return drafts, nil
}

// Regenerate requests a single replacement text for one issue. Plain text is
// expected, no JSON envelope.
func (c *Client) Regenerate(ctx context.Context, req domain.RegenerateRequest) (string, error) {
	var b strings.Builder
	b.WriteString("Write ONE replacement text for the SEO issue below. ")
	b.WriteString("Respond with only the replacement text itself, no quotes, no commentary.\n\n")
	fmt.Fprintf(&b, "Issue: %s\n", req.IssueTitle)
	fmt.Fprintf(&b, "Category: %s\n", req.Category)
	fmt.Fprintf(&b, "Rationale: %s\n", req.Why)
	if req.CurrentValue != "" {
		fmt.Fprintf(&b, "Current value: %s\n", req.CurrentValue)
	}

	content, err := c.complete(ctx, b.String())
	if err != nil {
		return "", &domain.DelegateError{Op: "regenerate", Err: err}
	}

	text := strings.TrimSpace(content)
	if text == "" {
		return "", &domain.DelegateError{Op: "regenerate", Err: fmt.Errorf("empty completion")}
	}
	return text, nil
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, userPrompt string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("delegate client is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("delegate client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model":       c.model,
		"temperature": 0,
		"messages": []map[string]string{
			{"role": "system", "content": safePrompt(c.systemPrompt)},
			{"role": "user", "content": userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("completion error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return parsed.Choices[0].Message.Content, nil
}

// parseIssueDrafts tolerates a fenced code block around the JSON array.
func parseIssueDrafts(content string) ([]domain.IssueDraft, error) {
	text := strings.TrimSpace(content)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var drafts []domain.IssueDraft
	if err := json.Unmarshal([]byte(text), &drafts); err != nil {
		return nil, fmt.Errorf("parse issue list: %w", err)
	}
	return drafts, nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are an SEO auditor for a personal blog. Be specific and concise."
	}
	return prompt
}
