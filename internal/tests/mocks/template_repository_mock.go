package mocks

import (
	"context"

	"autodocgen/internal/models"
)

type TemplateRepositoryMock struct {
	FindByNameFunc func(ctx context.Context, name string) (*models.Template, error)
	GetAllFunc     func(ctx context.Context) ([]*models.Template, error)
	CreateFunc     func(ctx context.Context, template *models.Template) error
}

func (m *TemplateRepositoryMock) FindByName(ctx context.Context, name string) (*models.Template, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *TemplateRepositoryMock) GetAll(ctx context.Context) ([]*models.Template, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}
	return []*models.Template{}, nil
}

func (m *TemplateRepositoryMock) Create(ctx context.Context, template *models.Template) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, template)
	}
	return nil
}
