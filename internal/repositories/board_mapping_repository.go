package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"autodocgen/internal/models"
)

type BoardMappingRepository interface {
	FindByBoardID(ctx context.Context, boardID string) (*models.BoardMapping, error)
	Upsert(ctx context.Context, m *models.BoardMapping) error
}

type boardMappingRepository struct {
	db *gorm.DB
}

func NewBoardMappingRepository(db *gorm.DB) BoardMappingRepository {
	return &boardMappingRepository{db: db}
}

// FindByBoardID returns (nil, nil) when the board has no owner on record.
func (r *boardMappingRepository) FindByBoardID(ctx context.Context, boardID string) (*models.BoardMapping, error) {
	var m models.BoardMapping
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding mapping for board %s: %w", boardID, err)
	}
	return &m, nil
}

func (r *boardMappingRepository) Upsert(ctx context.Context, m *models.BoardMapping) error {
	if m.BoardID == "" || m.UserID == "" {
		return fmt.Errorf("board id and user id are required")
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "board_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "board_name", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return fmt.Errorf("upserting mapping for board %s: %w", m.BoardID, err)
	}
	return nil
}
