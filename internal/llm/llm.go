// Package llm wraps the chat-completion provider behind a small capability
// interface so callers can be tested with fakes and the provider can be
// swapped without touching the rest of the application.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/starfield-labs/quizdeck/internal/logging"
)

// Usage records token consumption for one generation call. When the provider
// omits usage numbers they are approximated from text length and flagged.
type Usage struct {
	PromptTokens     int  `json:"prompt_tokens"`
	CompletionTokens int  `json:"completion_tokens"`
	TotalTokens      int  `json:"total_tokens"`
	Approximate      bool `json:"approximate,omitempty"`
}

// Add merges usage from a second call into u.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
		Approximate:      u.Approximate || other.Approximate,
	}
}

// Generator is the capability the application needs from a language model:
// a JSON-only structured completion for a system/user prompt pair.
type Generator interface {
	GenerateJSON(ctx context.Context, system, user string) (string, Usage, error)
}

// Client is the production Generator backed by an OpenAI-compatible API,
// typically reached through an institutional proxy.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a Client. baseURL may be empty for the provider default.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("API key is empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("chat model is empty")
	}
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}, nil
}

// GenerateJSON requests a JSON-object completion. The reply is returned raw;
// parsing and schema validation happen at the caller's boundary.
func (c *Client) GenerateJSON(ctx context.Context, system, user string) (string, Usage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	logging.LogModelCall("request", c.model, "generate-json", summarize(user))
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", Usage{}, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", Usage{}, errors.New("chat completion returned no choices")
	}

	content := resp.Choices[0].Message.Content
	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if usage.TotalTokens == 0 {
		usage = ApproximateUsage(system+" "+user, content)
	}
	logging.LogModelCall("response", c.model, "generate-json", summarize(content))
	return content, usage, nil
}

// ApproximateUsage estimates token counts from character length when the
// provider does not report them. Four characters per token is close enough
// for the telemetry line this feeds.
func ApproximateUsage(prompt, completion string) Usage {
	promptTokens := len(prompt) / 4
	if promptTokens < 1 {
		promptTokens = 1
	}
	completionTokens := len(completion) / 4
	if completionTokens < 1 {
		completionTokens = 1
	}
	return Usage{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		Approximate:      true,
	}
}

// summarize keeps log lines readable; full payloads stay out of the log.
func summarize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > 160 {
		return text[:160] + "…"
	}
	return text
}
