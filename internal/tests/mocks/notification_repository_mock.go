package mocks

import (
	"context"

	"autodocgen/internal/models"
)

type NotificationRepositoryMock struct {
	CreateFunc     func(ctx context.Context, n *models.Notification) error
	ListByUserFunc func(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkReadFunc   func(ctx context.Context, id uint) error
}

func (m *NotificationRepositoryMock) Create(ctx context.Context, n *models.Notification) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, n)
	}
	return nil
}

func (m *NotificationRepositoryMock) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit)
	}
	return []models.Notification{}, nil
}

func (m *NotificationRepositoryMock) MarkRead(ctx context.Context, id uint) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, id)
	}
	return nil
}
