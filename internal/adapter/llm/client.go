package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client calls an OpenAI-compatible chat-completions endpoint as the
// reasoning service. A client without an API key is disabled: Generate
// fails fast and callers fall back to deterministic scoring.
type Client struct {
	apiURL  string
	apiKey  string
	model   string
	client  *ResilientClient
	enabled bool
}

// NewClientFromEnv builds the reasoning client from environment variables:
// REASONING_API_KEY (OPENAI_API_KEY accepted as fallback), REASONING_API_URL
// and REASONING_MODEL.
func NewClientFromEnv() *Client {
	apiKey := os.Getenv("REASONING_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	apiURL := os.Getenv("REASONING_API_URL")
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/chat/completions"
	}

	model := os.Getenv("REASONING_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	return NewClient(apiURL, apiKey, model)
}

func NewClient(apiURL, apiKey, model string) *Client {
	return &Client{
		apiURL:  apiURL,
		apiKey:  apiKey,
		model:   model,
		client:  NewResilientClient(30*time.Second, DefaultResilientClientConfig()),
		enabled: apiKey != "",
	}
}

// Available reports whether the service has a credential configured.
func (c *Client) Available() bool {
	return c.enabled
}

// Generate sends one prompt and returns the raw response text. No shape is
// guaranteed; the response may contain a structured span anywhere, fenced
// or truncated.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("reasoning service is not configured")
	}

	requestBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": "You are an expert brand trust analyst. Evaluate the supplied data and respond with a structured assessment in JSON format.",
			},
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"temperature": 0.3,
		"max_tokens":  1024,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("reasoning API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in reasoning response")
	}
	return response.Choices[0].Message.Content, nil
}
