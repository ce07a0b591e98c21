package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"autodocgen/internal/models"
)

// ErrDuplicateAction is returned when a notification with the same upstream
// action id has already been stored. Callers treat it as a successful no-op.
var ErrDuplicateAction = errors.New("notification for action already exists")

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateAction
		}
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	var list []models.Notification
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing notifications for user %s: %w", userID, err)
	}
	return list, nil
}

// MarkRead is idempotent: marking an already-read notification succeeds and
// changes nothing.
func (r *notificationRepository) MarkRead(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return fmt.Errorf("marking notification %d read: %w", id, res.Error)
	}
	return nil
}
