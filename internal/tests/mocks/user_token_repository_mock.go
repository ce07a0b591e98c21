package mocks

import (
	"context"

	"autodocgen/internal/models"
)

type UserTokenRepositoryMock struct {
	GetFunc  func(ctx context.Context, userID string) (string, error)
	SaveFunc func(ctx context.Context, userID, token string) error
	ListFunc func(ctx context.Context) ([]models.UserToken, error)
}

func (m *UserTokenRepositoryMock) Get(ctx context.Context, userID string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	return "", nil
}

func (m *UserTokenRepositoryMock) Save(ctx context.Context, userID, token string) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, userID, token)
	}
	return nil
}

func (m *UserTokenRepositoryMock) List(ctx context.Context) ([]models.UserToken, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []models.UserToken{}, nil
}
