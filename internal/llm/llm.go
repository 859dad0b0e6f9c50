package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pavelanni/pathways/internal/llm/prompts"
	"github.com/pavelanni/pathways/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// Question is one assistant request in the context of a session's result.
type Question struct {
	Code    model.Code
	Majors  []string
	Careers []string
	Text    string
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api       *openai.Client
	model     string
	variant   prompts.PromptVariant
	maxTokens int
}

// New creates a new LLM client and loads the prompt templates.
func New(baseURL, apiKey, modelName, variant string) (*Client, error) {
	if err := prompts.Load(prompts.Templates); err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	if !prompts.IsValidVariant(variant) {
		return nil, fmt.Errorf("invalid prompt variant %q", variant)
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:       openai.NewClientWithConfig(config),
		model:     modelName,
		variant:   prompts.PromptVariant(variant),
		maxTokens: 300,
	}, nil
}

// Ping checks that the endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// Ask sends a question to the LLM and returns the reply split into chat bubbles.
func (c *Client) Ask(ctx context.Context, q Question) ([]string, error) {
	systemPrompt, err := prompts.BuildSystemPrompt(c.variant, q.Code, q.Majors, q.Careers)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompts.WrapQuestion(q.Text)},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "raw", raw)

	blocks := SplitReply(raw)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("LLM returned an empty reply")
	}
	return blocks, nil
}

// SplitReply splits a reply on the bubble marker, dropping empty blocks.
func SplitReply(raw string) []string {
	var blocks []string
	for _, b := range strings.Split(raw, prompts.SplitMarker) {
		if b = strings.TrimSpace(b); b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}
