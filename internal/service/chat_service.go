// Package service contains the business logic of the backend.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"elderease/internal/model"
	"elderease/internal/prompt"
	"elderease/pkg/llm"
	"elderease/pkg/log"
)

var (
	// ErrEmptyMessage is returned when a chat request carries no message text.
	ErrEmptyMessage = errors.New("message is required")
	// ErrMissingUserID is returned when a request carries no user identifier.
	ErrMissingUserID = errors.New("userId is required")
)

// ChatService forwards one user message to the generative-language API.
type ChatService interface {
	// Reply returns the assistant's answer. Nothing is stored.
	Reply(ctx context.Context, req model.ChatRequest) (string, error)
}

type chatService struct {
	llmClient llm.Client
	params    llm.GenerationParams
	maxTurns  int
}

// NewChatService creates a ChatService. maxTurns bounds the forwarded history; 0 forwards all of it.
func NewChatService(llmClient llm.Client, params llm.GenerationParams, maxTurns int) ChatService {
	return &chatService{
		llmClient: llmClient,
		params:    params,
		maxTurns:  maxTurns,
	}
}

func (s *chatService) Reply(ctx context.Context, req model.ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", ErrEmptyMessage
	}
	if strings.TrimSpace(req.UserID) == "" {
		return "", ErrMissingUserID
	}

	locale := model.ParseLocale(req.Language)
	history := prompt.Strip(req.History).Tail(s.maxTurns)
	messages := prompt.Compose(locale, history)

	reply, err := s.llmClient.Chat(ctx, messages, req.Message, s.params)
	if err != nil {
		log.Errorw("generative API call failed", "userId", req.UserID, "locale", locale, "error", err)
		return "", fmt.Errorf("failed to get AI response: %w", err)
	}
	log.Infow("chat reply generated", "userId", req.UserID, "locale", locale, "historyTurns", len(history))
	return reply, nil
}
