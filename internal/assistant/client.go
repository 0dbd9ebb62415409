// Package assistant drafts post content with an OpenAI-compatible chat
// completion endpoint (Groq by default).
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
)

const (
	DefaultBaseURL   = "https://api.groq.com/openai/v1"
	DefaultModel     = "llama-3.3-70b-versatile"
	DefaultMaxTokens = 500
	DefaultTimeout   = 60 * time.Second

	promptTemplate = "Write a blog about: %s. Please write in plain text " +
		"without any markdown formatting, asterisks, or special characters. " +
		"Just write normal paragraphs and leave a space after each paragraph."
)

var (
	ErrMissingAPIKey = errors.New("missing api key for text generation")
	ErrNoContent     = errors.New("no content generated")
)

// Client calls the chat completion endpoint once per request. It never
// retries.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds each provider call. Zero means DefaultTimeout.
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		maxTokens:  DefaultMaxTokens,
		httpClient: httpClient,
	}
}

// Prompt returns the instruction sent for topic.
func Prompt(topic string) string {
	return fmt.Sprintf(promptTemplate, topic)
}

// Generate drafts plain-text blog content about topic.
func (c *Client) Generate(ctx context.Context, topic string) (string, error) {
	text, err := c.complete(ctx, Prompt(topic), c.maxTokens)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoContent
	}
	return text, nil
}

// Ping sends a tiny completion to check that the provider is reachable and
// the key is accepted.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.complete(ctx, "Hello world", 10)
	return err
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	body, err := json.Marshal(chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal chat request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build chat request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "call chat completions endpoint")
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		var apiErr chatError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", errors.Errorf("chat completions status %d: %s", httpResp.StatusCode, apiErr.Error.Message)
		}
		return "", errors.Errorf("chat completions status %d", httpResp.StatusCode)
	}

	var decoded chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&decoded); err != nil {
		return "", errors.Wrap(err, "decode chat response")
	}
	if len(decoded.Choices) == 0 {
		return "", ErrNoContent
	}
	return decoded.Choices[0].Message.Content, nil
}
