package llm

import (
	"context"
	"fmt"
	"strings"

	"elderease/internal/config"
	"elderease/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// openAIClient talks to any OpenAI-compatible chat completion API (OpenAI, DeepSeek, ...).
type openAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client for an OpenAI-compatible API.
func NewOpenAIClient(cfg config.LLMConfig) Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &openAIClient{client: openai.NewClientWithConfig(oc), model: cfg.Model}
}

func (c *openAIClient) Chat(ctx context.Context, history model.History, message string, gen GenerationParams) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    openAIMessages(history, message),
		MaxTokens:   gen.MaxTokens,
		Temperature: gen.Temperature,
		TopP:        gen.TopP,
		N:           1,
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}

// openAIMessages maps model turns to the assistant role; top_k has no equivalent here.
func openAIMessages(history model.History, message string) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	for _, t := range history {
		role := openai.ChatMessageRoleUser
		if t.Role == model.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.Text})
	}
	return append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})
}
