package transform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ChatClient calls an OpenAI-compatible /v1/chat/completions endpoint. It
// serves both OpenAI and a local Ollama server.
type ChatClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIClient targets the OpenAI API.
func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration) *ChatClient {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return newChatClient(baseURL, apiKey, model, timeout)
}

// NewOllamaClient targets an Ollama server. No key is sent.
func NewOllamaClient(baseURL, model string, timeout time.Duration) *ChatClient {
	if model == "" {
		model = "llama3:latest"
	}
	return newChatClient(baseURL, "", model, timeout)
}

func newChatClient(baseURL, apiKey, model string, timeout time.Duration) *ChatClient {
	return &ChatClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	// Ollama reads sampling from options.
	Options map[string]float64 `json:"options,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	// Native Ollama /api/chat shape.
	Message *chatMessage `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *ChatClient) Transform(ctx context.Context, systemPrompt, userText string, opts Options) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
	}
	if c.apiKey == "" {
		reqBody.Options = map[string]float64{"temperature": opts.Temperature, "top_p": opts.TopP}
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("chat api error: %s", apiResp.Error.Message)
	}

	var text string
	switch {
	case len(apiResp.Choices) > 0:
		text = apiResp.Choices[0].Message.Content
	case apiResp.Message != nil:
		text = apiResp.Message.Content
	}
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// Close releases resources.
func (c *ChatClient) Close() {
	c.httpClient.CloseIdleConnections()
}
