package models

import "time"

// GeneratedDocument is one immutable version of the documentation generated
// for a (user, project, template) key. Rows are append-only: a new run or a
// regenerate always inserts a fresh row with a bumped version, never updates
// an existing one. Within a key, versions form a dense sequence starting at 1
// and each version's heading set contains the previous version's.
type GeneratedDocument struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	DocID         string    `gorm:"size:36;not null;uniqueIndex" json:"doc_id"`
	UserID        string    `gorm:"size:64;not null;index:idx_doc_key" json:"user_id"`
	ProjectID     string    `gorm:"size:64;not null;index:idx_doc_key" json:"project_id"`
	TemplateName  string    `gorm:"size:255;not null;index:idx_doc_key" json:"template_name"`
	Version       int       `gorm:"not null" json:"version"`
	GeneratedDocs string    `gorm:"type:text;not null" json:"generated_docs"`
	BoardName     string    `gorm:"size:255" json:"board_name"`
	CreatedAt     time.Time `json:"created_at"`
}
