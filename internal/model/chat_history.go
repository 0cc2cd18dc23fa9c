package model

import "time"

// ChatHistoryRecord is the MySQL row holding one user's serialised history.
type ChatHistoryRecord struct {
	UserID      string    `gorm:"primaryKey;size:191" json:"userId"`
	History     string    `gorm:"type:longtext;not null" json:"history"`
	LastUpdated time.Time `gorm:"not null" json:"lastUpdated"`
}

func (ChatHistoryRecord) TableName() string {
	return "chat_histories"
}
