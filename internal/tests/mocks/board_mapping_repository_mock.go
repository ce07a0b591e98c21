package mocks

import (
	"context"

	"autodocgen/internal/models"
)

type BoardMappingRepositoryMock struct {
	FindByBoardIDFunc func(ctx context.Context, boardID string) (*models.BoardMapping, error)
	UpsertFunc        func(ctx context.Context, m *models.BoardMapping) error
}

func (m *BoardMappingRepositoryMock) FindByBoardID(ctx context.Context, boardID string) (*models.BoardMapping, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *BoardMappingRepositoryMock) Upsert(ctx context.Context, mapping *models.BoardMapping) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, mapping)
	}
	return nil
}
