package models

import "time"

// UserToken holds the per-user Trello token obtained through the OAuth
// hand-off. One row per user, overwritten on reconnect.
type UserToken struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      string `gorm:"size:64;not null;uniqueIndex"`
	TrelloToken string `gorm:"size:255;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
