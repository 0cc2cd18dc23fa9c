// Package database opens the connections backing the history store.
package database

import (
	"fmt"
	"time"

	"elderease/internal/model"
	"elderease/pkg/log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewMySQL opens a pooled MySQL connection and migrates the chat_histories table.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&model.ChatHistoryRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate chat_histories: %w", err)
	}

	log.Info("MySQL database connected successfully")
	return db, nil
}
