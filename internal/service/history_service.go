package service

import (
	"context"
	"fmt"
	"strings"

	"elderease/internal/model"
	"elderease/internal/prompt"
	"elderease/internal/repository"
	"elderease/pkg/log"
)

// HistoryService applies the persistence rules on top of a HistoryRepository.
type HistoryService interface {
	Save(ctx context.Context, userID string, history model.History) error
	Load(ctx context.Context, userID string) (model.History, error)
	Clear(ctx context.Context, userID string) error
}

type historyService struct {
	repo     repository.HistoryRepository
	maxTurns int
}

// NewHistoryService creates a HistoryService. maxTurns caps what is stored; 0 stores everything.
func NewHistoryService(repo repository.HistoryRepository, maxTurns int) HistoryService {
	return &historyService{repo: repo, maxTurns: maxTurns}
}

// Save replaces the user's stored history. System-instruction turns and local turns are
// dropped and only the newest maxTurns turns are kept.
func (s *historyService) Save(ctx context.Context, userID string, history model.History) error {
	if strings.TrimSpace(userID) == "" {
		return ErrMissingUserID
	}
	clean := prompt.Strip(history.Persistable()).Tail(s.maxTurns)
	if err := s.repo.Save(ctx, userID, clean); err != nil {
		log.Errorw("failed to save chat history", "userId", userID, "error", err)
		return fmt.Errorf("failed to save chat: %w", err)
	}
	return nil
}

// Load returns the stored history, never nil.
func (s *historyService) Load(ctx context.Context, userID string) (model.History, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUserID
	}
	history, err := s.repo.Load(ctx, userID)
	if err != nil {
		log.Errorw("failed to load chat history", "userId", userID, "error", err)
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}
	if history == nil {
		history = model.History{}
	}
	return history, nil
}

// Clear deletes the stored history. Clearing an unknown user succeeds.
func (s *historyService) Clear(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrMissingUserID
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		log.Errorw("failed to clear chat history", "userId", userID, "error", err)
		return fmt.Errorf("failed to clear chat: %w", err)
	}
	return nil
}
