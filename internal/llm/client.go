package llm

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

	"easymode/internal/config"
)

// ErrNotConfigured is the configuration error of the taxonomy: it fires
// before any work is done and tells the operator exactly what to fix.
var ErrNotConfigured = errors.New("llm not configured: set llm.url and llm.model in config")

// ErrEmptyResponse marks an upstream reply with no usable content.
var ErrEmptyResponse = errors.New("llm returned empty content")

const defaultTimeout = 60 * time.Second

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	url    string
	apiKey string
	model  string
	http   *http.Client
}

func NewClient(cfg *config.Config) *Client {
	timeout := defaultTimeout
	if cfg.LLM.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
	}
	return &Client{
		url:    cfg.LLM.URL,
		apiKey: cfg.LLM.APIKey,
		model:  cfg.LLM.Model,
		http:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) ready() error {
	if c.url == "" || c.model == "" {
		return ErrNotConfigured
	}
	return nil
}

// call posts a chat-completions payload and returns the raw body.
func (c *Client) call(ctx context.Context, payload map[string]interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read llm response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llm returned status %d", resp.StatusCode)
	}
	return raw, nil
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content   string     `json:"content"`
			ToolCalls []ToolCall `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete runs a single system+user exchange and returns the text reply.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	messages := []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	}
	raw, err := c.call(ctx, map[string]interface{}{
		"model":    c.model,
		"messages": messages,
	})
	if err != nil {
		return "", err
	}
	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("malformed llm response: %w", err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return parsed.Choices[0].Message.Content, nil
}

// CompleteJSON runs Complete and decodes the reply into out. Code fences
// around the JSON body are tolerated; anything else malformed is an error
// the caller degrades on.
func (c *Client) CompleteJSON(ctx context.Context, system, prompt string, out interface{}) error {
	text, err := c.Complete(ctx, system, prompt)
	if err != nil {
		return err
	}
	cleaned := StripFences(text)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("llm reply is not valid JSON: %w", err)
	}
	return nil
}

// ChatWithTools sends a full transcript plus a tool schema and returns the
// assistant text and/or requested tool calls.
func (c *Client) ChatWithTools(ctx context.Context, messages []Message, tools []Tool) (*ToolResponse, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	payload := map[string]interface{}{
		"model":    c.model,
		"messages": messages,
	}
	if len(tools) > 0 {
		payload["tools"] = tools
	}
	raw, err := c.call(ctx, payload)
	if err != nil {
		return nil, err
	}
	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("malformed llm response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	msg := parsed.Choices[0].Message
	return &ToolResponse{Content: msg.Content, ToolCalls: msg.ToolCalls}, nil
}

// StripFences removes a surrounding markdown code fence, if any.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
