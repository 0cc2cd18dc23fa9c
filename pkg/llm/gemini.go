package llm

import (
	"context"
	"fmt"
	"strings"

	"elderease/internal/config"
	"elderease/internal/model"

	"google.golang.org/genai"
)

type geminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a client for the Gemini API. cfg.BaseURL overrides the endpoint,
// which is only needed for proxies and tests.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &geminiClient{client: client, model: cfg.Model}, nil
}

func (c *geminiClient) Chat(ctx context.Context, history model.History, message string, gen GenerationParams) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, geminiContents(history, message), geminiConfig(gen))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// geminiContents maps the history and the new message onto Gemini contents.
func geminiContents(history model.History, message string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		var role genai.Role = genai.RoleUser
		if t.Role == model.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}
	return append(contents, genai.NewContentFromText(message, genai.RoleUser))
}

func geminiConfig(gen GenerationParams) *genai.GenerateContentConfig {
	gc := &genai.GenerateContentConfig{CandidateCount: 1}
	if gen.Temperature != 0 {
		gc.Temperature = genai.Ptr(gen.Temperature)
	}
	if gen.TopP != 0 {
		gc.TopP = genai.Ptr(gen.TopP)
	}
	if gen.TopK != 0 {
		gc.TopK = genai.Ptr(float32(gen.TopK))
	}
	if gen.MaxTokens != 0 {
		gc.MaxOutputTokens = int32(gen.MaxTokens)
	}
	return gc
}
