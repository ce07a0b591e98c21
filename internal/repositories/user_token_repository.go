package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"autodocgen/internal/models"
)

type UserTokenRepository interface {
	Get(ctx context.Context, userID string) (string, error)
	Save(ctx context.Context, userID, token string) error
	// List returns every stored token, one per connected user.
	List(ctx context.Context) ([]models.UserToken, error)
}

type userTokenRepository struct {
	db *gorm.DB
}

func NewUserTokenRepository(db *gorm.DB) UserTokenRepository {
	return &userTokenRepository{db: db}
}

// Get returns the stored Trello token for the user, or "" when the user has
// never connected.
func (r *userTokenRepository) Get(ctx context.Context, userID string) (string, error) {
	var t models.UserToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("getting token for user %s: %w", userID, err)
	}
	return t.TrelloToken, nil
}

func (r *userTokenRepository) Save(ctx context.Context, userID, token string) error {
	if userID == "" || token == "" {
		return fmt.Errorf("user id and token are required")
	}
	t := models.UserToken{UserID: userID, TrelloToken: token}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"trello_token", "updated_at"}),
	}).Create(&t).Error
	if err != nil {
		return fmt.Errorf("saving token for user %s: %w", userID, err)
	}
	return nil
}

func (r *userTokenRepository) List(ctx context.Context) ([]models.UserToken, error) {
	var list []models.UserToken
	if err := r.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing tokens: %w", err)
	}
	return list, nil
}
