package models

import "time"

// BoardMapping routes inbound board events to the owning user. It is a
// lookup-only association: refreshed whenever a user's board list is synced,
// read by the ingestor, never followed for ownership mutation.
type BoardMapping struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BoardID   string    `gorm:"size:64;not null;uniqueIndex" json:"board_id"`
	UserID    string    `gorm:"size:64;not null;index" json:"user_id"`
	BoardName string    `gorm:"size:255" json:"board_name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
