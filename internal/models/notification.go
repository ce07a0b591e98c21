package models

import "time"

// Notification is a stored record of a single card-level change on a board,
// routed to the user that owns the board. ActionID carries the upstream
// event id and is the dedup key: the unique index rejects a second insert
// for the same event, while NULL values stay exempt so events without an
// id can still be recorded.
type Notification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"size:64;not null;index" json:"user_id"`
	BoardID    string    `gorm:"size:64;not null;index" json:"board_id"`
	BoardName  string    `gorm:"size:255" json:"board_name"`
	CardID     string    `gorm:"size:64" json:"card_id"`
	ActionType string    `gorm:"size:64" json:"action_type"`
	ActionID   *string   `gorm:"size:64;uniqueIndex" json:"action_id,omitempty"`
	Message    string    `gorm:"type:text" json:"message"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	RawEvent   string    `gorm:"type:text" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
