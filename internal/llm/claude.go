package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

const ClaudeURL = "https://api.anthropic.com/v1/messages"

type ClaudeClient struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewClaudeClient(baseURL, apiKey, model string, timeout time.Duration) (*ClaudeClient, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	if baseURL == "" {
		baseURL = ClaudeURL
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &ClaudeClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: timeout},
	}, nil
}

type claudeReq struct {
	Model       string      `json:"model"`
	MaxTokens   int         `json:"max_tokens"`
	Temperature float64     `json:"temperature"`
	Messages    []claudeMsg `json:"messages"`
}

type claudeMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResp struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *ClaudeClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload := claudeReq{
		Model:     c.Model,
		MaxTokens: 64, // a bare number or N/A
		Messages:  []claudeMsg{{Role: "user", Content: prompt}},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("anthropic-version", "2023-06-01")

	res, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode >= 300 {
		return "", statusError("claude", res.StatusCode, body)
	}

	var out claudeResp
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	if len(out.Content) == 0 {
		return "", errors.New("claude: no content")
	}
	return out.Content[0].Text, nil
}

func (c *ClaudeClient) Close() error { return nil }
