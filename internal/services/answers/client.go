// Package answers asks free-form questions against an OpenAI-compatible
// chat-completions endpoint (Ollama by default, so the assistant works
// without a cloud key).
package answers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/novahq/nova/internal/services"
)

// DefaultBaseURL is the local Ollama OpenAI-compatible endpoint.
const DefaultBaseURL = "http://localhost:11434/v1"

// Client answers questions and defines terms via a chat model.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// New creates an answers client.
func New(baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Ask answers a general question in a couple of sentences.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	return c.complete(ctx,
		"You are a concise personal assistant. Answer in at most three sentences.",
		question)
}

// Define returns a short definition of a term.
func (c *Client) Define(ctx context.Context, term string) (string, error) {
	return c.complete(ctx,
		"You are a dictionary. Give a one-sentence definition of the term.",
		term)
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s", services.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		return "", services.ErrInvalidKey
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", services.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", services.ErrUnavailable,
			resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding response: %s", services.ErrService, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", services.ErrService)
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
