// Package suggest asks the Anthropic Messages API for tags fitting a
// journal entry.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pbaille/journal/internal/domain"
)

const (
	defaultEndpoint = "https://api.anthropic.com/v1/messages"
	maxResponse     = 1 << 20
)

// ErrNoAPIKey is returned by New when no API key is configured.
var ErrNoAPIKey = errors.New("ANTHROPIC_API_KEY is not set")

// Suggester proposes tags for entries
type Suggester struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// Option configures a Suggester
type Option func(*Suggester)

// WithEndpoint overrides the Messages API URL
func WithEndpoint(url string) Option {
	return func(s *Suggester) { s.endpoint = url }
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(s *Suggester) { s.client = c }
}

// New creates a Suggester for the given key and model
func New(apiKey, model string, opts ...Option) (*Suggester, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	s := &Suggester{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Suggest returns normalized tag names for the entry, preferring names
// from existing.
func (s *Suggester) Suggest(ctx context.Context, title, content string, existing []string) ([]string, error) {
	text, err := s.call(ctx, buildPrompt(title, content, existing))
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	return parseResponse(text)
}

func buildPrompt(title, content string, existing []string) string {
	var sb strings.Builder

	sb.WriteString("Suggest tags for this journal entry. Return JSON only.\n\n")
	sb.WriteString("Title: ")
	sb.WriteString(title)
	sb.WriteString("\n\nContent:\n")
	sb.WriteString(content)
	sb.WriteString("\n\n")

	if len(existing) > 0 {
		sb.WriteString("Tags already used in this journal (reuse them when they fit):\n")
		for _, tag := range existing {
			sb.WriteString("- ")
			sb.WriteString(tag)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(`Return a JSON object with this structure:
{"tags": ["tag-one", "tag-two"]}

Rules:
- Suggest 1-5 tags
- Tag names are short, lowercase and hyphenated
- Tags must not contain commas
- Prefer existing tags over near-synonyms

Return ONLY the JSON, no other text.`)

	return sb.String()
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *Suggester) call(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(apiRequest{
		Model:     s.model,
		MaxTokens: 256,
		Messages:  []apiMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out apiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	for _, c := range out.Content {
		if c.Type == "text" {
			return c.Text, nil
		}
	}
	return "", errors.New("empty response")
}

func parseResponse(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var result struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("parse json: %w (response: %s)", err, text)
	}

	// Commas would split a tag in two on the next edit.
	names := make([]string, 0, len(result.Tags))
	for _, n := range result.Tags {
		names = append(names, strings.ReplaceAll(n, ",", " "))
	}
	return domain.NormalizeTags(names), nil
}
