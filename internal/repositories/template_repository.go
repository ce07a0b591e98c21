package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"autodocgen/internal/models"
)

type TemplateRepository interface {
	FindByName(ctx context.Context, name string) (*models.Template, error)
	GetAll(ctx context.Context) ([]*models.Template, error)
	Create(ctx context.Context, template *models.Template) error
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// FindByName matches case-insensitively and returns (nil, nil) when no
// template carries the name.
func (r *templateRepository) FindByName(ctx context.Context, name string) (*models.Template, error) {
	var tmpl models.Template
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).Take(&tmpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding template %q: %w", name, err)
	}
	return &tmpl, nil
}

func (r *templateRepository) GetAll(ctx context.Context) ([]*models.Template, error) {
	var list []*models.Template
	if err := r.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return list, nil
}

func (r *templateRepository) Create(ctx context.Context, template *models.Template) error {
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		return fmt.Errorf("creating template: %w", err)
	}
	return nil
}
