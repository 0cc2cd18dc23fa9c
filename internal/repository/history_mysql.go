package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"elderease/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type mysqlHistoryRepository struct {
	db *gorm.DB
}

// NewMySQLHistoryRepository keeps each history in one chat_histories row.
func NewMySQLHistoryRepository(db *gorm.DB) HistoryRepository {
	return &mysqlHistoryRepository{db: db}
}

func (r *mysqlHistoryRepository) Save(ctx context.Context, userID string, history model.History) error {
	data, err := encodeHistory(history)
	if err != nil {
		return err
	}
	record := model.ChatHistoryRecord{
		UserID:      userID,
		History:     data,
		LastUpdated: time.Now().UTC(),
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"history", "last_updated"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert chat history: %w", err)
	}
	return nil
}

func (r *mysqlHistoryRepository) Load(ctx context.Context, userID string) (model.History, error) {
	var record model.ChatHistoryRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	return decodeHistory(record.History)
}

func (r *mysqlHistoryRepository) Delete(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.ChatHistoryRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete chat history: %w", err)
	}
	return nil
}
