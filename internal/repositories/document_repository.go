package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"autodocgen/internal/models"
)

// DocumentKey identifies one generated-document version chain.
type DocumentKey struct {
	UserID       string
	ProjectID    string
	TemplateName string
}

type DocumentRepository interface {
	// LatestByKey returns the highest-version document for the key, or
	// (nil, nil) when no version exists yet.
	LatestByKey(ctx context.Context, key DocumentKey) (*models.GeneratedDocument, error)
	CountByKey(ctx context.Context, key DocumentKey) (int64, error)
	Create(ctx context.Context, doc *models.GeneratedDocument) error
	FindByDocID(ctx context.Context, docID string) (*models.GeneratedDocument, error)
	ListByUserBoard(ctx context.Context, userID, boardID string, limit int) ([]models.GeneratedDocument, error)
	ListKeysByUser(ctx context.Context, userID string) ([]models.GeneratedDocument, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) keyScope(ctx context.Context, key DocumentKey) *gorm.DB {
	return r.db.WithContext(ctx).Where(
		"user_id = ? AND project_id = ? AND template_name = ?",
		key.UserID, key.ProjectID, key.TemplateName,
	)
}

func (r *documentRepository) LatestByKey(ctx context.Context, key DocumentKey) (*models.GeneratedDocument, error) {
	var doc models.GeneratedDocument
	err := r.keyScope(ctx, key).Order("version DESC").Take(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding latest document for %s/%s/%s: %w",
			key.UserID, key.ProjectID, key.TemplateName, err)
	}
	return &doc, nil
}

func (r *documentRepository) CountByKey(ctx context.Context, key DocumentKey) (int64, error) {
	var count int64
	if err := r.keyScope(ctx, key).Model(&models.GeneratedDocument{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting documents for %s/%s/%s: %w",
			key.UserID, key.ProjectID, key.TemplateName, err)
	}
	return count, nil
}

func (r *documentRepository) Create(ctx context.Context, doc *models.GeneratedDocument) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("creating document version %d: %w", doc.Version, err)
	}
	return nil
}

func (r *documentRepository) FindByDocID(ctx context.Context, docID string) (*models.GeneratedDocument, error) {
	var doc models.GeneratedDocument
	err := r.db.WithContext(ctx).Where("doc_id = ?", docID).Take(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding document %s: %w", docID, err)
	}
	return &doc, nil
}

func (r *documentRepository) ListByUserBoard(ctx context.Context, userID, boardID string, limit int) ([]models.GeneratedDocument, error) {
	var docs []models.GeneratedDocument
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, boardID).
		Order("version DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("listing documents for user %s board %s: %w", userID, boardID, err)
	}
	return docs, nil
}

// ListKeysByUser returns one row per stored document for the user, used to
// surface which boards already have generated documentation.
func (r *documentRepository) ListKeysByUser(ctx context.Context, userID string) ([]models.GeneratedDocument, error) {
	var docs []models.GeneratedDocument
	err := r.db.WithContext(ctx).
		Select("doc_id", "user_id", "project_id", "template_name", "version", "board_name", "created_at").
		Where("user_id = ?", userID).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("listing document keys for user %s: %w", userID, err)
	}
	return docs, nil
}
