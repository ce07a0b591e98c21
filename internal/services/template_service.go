package services

import (
	"context"
	"fmt"
	"strings"

	"autodocgen/internal/models"
	"autodocgen/internal/repositories"
)

// TemplateService serves the named document shapes a generation run can
// target.
type TemplateService interface {
	// Headings looks a template up by name, case-insensitively. A missing
	// template returns (nil, nil).
	Headings(ctx context.Context, name string) (*models.Template, error)
	ListTemplates(ctx context.Context) ([]*models.Template, error)
	CreateTemplate(ctx context.Context, t *models.Template) (*models.Template, error)
}

type templateService struct {
	repo repositories.TemplateRepository
}

func NewTemplateService(repo repositories.TemplateRepository) TemplateService {
	return &templateService{repo: repo}
}

func (s *templateService) Headings(ctx context.Context, name string) (*models.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingParams
	}
	tmpl, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("service: get template %q: %w", name, err)
	}
	return tmpl, nil
}

func (s *templateService) ListTemplates(ctx context.Context) ([]*models.Template, error) {
	list, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: list templates: %w", err)
	}
	return list, nil
}

func (s *templateService) CreateTemplate(ctx context.Context, t *models.Template) (*models.Template, error) {
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("service: create template: %w", err)
	}
	return t, nil
}
