// Package repository provides the data access layer.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"elderease/internal/model"

	"github.com/go-redis/redis/v8"
)

// HistoryRepository stores one conversation document per user identifier.
// Every operation overwrites or removes the whole document; nothing is appended in place.
type HistoryRepository interface {
	// Save replaces the stored history for userID and stamps the update time.
	Save(ctx context.Context, userID string, history model.History) error
	// Load returns the stored history, or an empty history when there is none.
	Load(ctx context.Context, userID string) (model.History, error)
	// Delete removes the document. Deleting a missing document succeeds.
	Delete(ctx context.Context, userID string) error
}

// encodeHistory serialises a history the way it is kept inside a document: a JSON string.
func encodeHistory(history model.History) (string, error) {
	if history == nil {
		history = model.History{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat history: %w", err)
	}
	return string(data), nil
}

func decodeHistory(data string) (model.History, error) {
	if data == "" {
		return model.History{}, nil
	}
	var history model.History
	if err := json.Unmarshal([]byte(data), &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat history: %w", err)
	}
	if history == nil {
		history = model.History{}
	}
	return history, nil
}

type redisHistoryRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewRedisHistoryRepository stores each history in a hash chat:<userId> with the fields
// history and lastUpdated. A ttl of 0 keeps histories until they are cleared.
func NewRedisHistoryRepository(redisClient *redis.Client, ttl time.Duration) HistoryRepository {
	return &redisHistoryRepository{redisClient: redisClient, ttl: ttl}
}

func redisHistoryKey(userID string) string {
	return fmt.Sprintf("chat:%s", userID)
}

func (r *redisHistoryRepository) Save(ctx context.Context, userID string, history model.History) error {
	data, err := encodeHistory(history)
	if err != nil {
		return err
	}
	key := redisHistoryKey(userID)
	pipe := r.redisClient.TxPipeline()
	pipe.HSet(ctx, key, "history", data, "lastUpdated", time.Now().UTC().Format(time.RFC3339Nano))
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set chat history: %w", err)
	}
	return nil
}

func (r *redisHistoryRepository) Load(ctx context.Context, userID string) (model.History, error) {
	data, err := r.redisClient.HGet(ctx, redisHistoryKey(userID), "history").Result()
	if err == redis.Nil {
		return model.History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}
	return decodeHistory(data)
}

func (r *redisHistoryRepository) Delete(ctx context.Context, userID string) error {
	if err := r.redisClient.Del(ctx, redisHistoryKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete chat history: %w", err)
	}
	return nil
}
