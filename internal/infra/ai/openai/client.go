package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/medtrust/internal/infra/ai/prompt"
)

const maxTokens = 2048

type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

// Chat answers a free-form assistant question.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetChatSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	}
	c.applyTokenLimit(&req)

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	return resp.Choices[0].Message.Content, nil
}

// Summarize produces a strict-JSON summary of a record snapshot.
func (c *Client) Summarize(ctx context.Context, recordJSON string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model(),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSummarySystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetSummaryUserPrompt(recordJSON)},
		},
	}
	c.applyTokenLimit(&req)

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) model() string {
	if c.Model == "" {
		return "o3-2025-04-16"
	}
	return c.Model
}

// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
func (c *Client) applyTokenLimit(req *openai.ChatCompletionRequest) {
	model := req.Model
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}
}
