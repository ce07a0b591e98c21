package mocks

import (
	"context"
	"sync"

	"autodocgen/internal/models"
	"autodocgen/internal/repositories"
)

type DocumentRepositoryMock struct {
	LatestByKeyFunc     func(ctx context.Context, key repositories.DocumentKey) (*models.GeneratedDocument, error)
	CountByKeyFunc      func(ctx context.Context, key repositories.DocumentKey) (int64, error)
	CreateFunc          func(ctx context.Context, doc *models.GeneratedDocument) error
	FindByDocIDFunc     func(ctx context.Context, docID string) (*models.GeneratedDocument, error)
	ListByUserBoardFunc func(ctx context.Context, userID, boardID string, limit int) ([]models.GeneratedDocument, error)
	ListKeysByUserFunc  func(ctx context.Context, userID string) ([]models.GeneratedDocument, error)
}

func (m *DocumentRepositoryMock) LatestByKey(ctx context.Context, key repositories.DocumentKey) (*models.GeneratedDocument, error) {
	if m.LatestByKeyFunc != nil {
		return m.LatestByKeyFunc(ctx, key)
	}
	return nil, nil
}

func (m *DocumentRepositoryMock) CountByKey(ctx context.Context, key repositories.DocumentKey) (int64, error) {
	if m.CountByKeyFunc != nil {
		return m.CountByKeyFunc(ctx, key)
	}
	return 0, nil
}

func (m *DocumentRepositoryMock) Create(ctx context.Context, doc *models.GeneratedDocument) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, doc)
	}
	return nil
}

func (m *DocumentRepositoryMock) FindByDocID(ctx context.Context, docID string) (*models.GeneratedDocument, error) {
	if m.FindByDocIDFunc != nil {
		return m.FindByDocIDFunc(ctx, docID)
	}
	return nil, nil
}

func (m *DocumentRepositoryMock) ListByUserBoard(ctx context.Context, userID, boardID string, limit int) ([]models.GeneratedDocument, error) {
	if m.ListByUserBoardFunc != nil {
		return m.ListByUserBoardFunc(ctx, userID, boardID, limit)
	}
	return []models.GeneratedDocument{}, nil
}

func (m *DocumentRepositoryMock) ListKeysByUser(ctx context.Context, userID string) ([]models.GeneratedDocument, error) {
	if m.ListKeysByUserFunc != nil {
		return m.ListKeysByUserFunc(ctx, userID)
	}
	return []models.GeneratedDocument{}, nil
}

// DocumentStoreMock is an in-memory DocumentRepository for tests that need
// real append/count semantics across successive runs.
type DocumentStoreMock struct {
	mu   sync.Mutex
	Docs []models.GeneratedDocument
}

func (m *DocumentStoreMock) match(doc models.GeneratedDocument, key repositories.DocumentKey) bool {
	return doc.UserID == key.UserID && doc.ProjectID == key.ProjectID && doc.TemplateName == key.TemplateName
}

func (m *DocumentStoreMock) LatestByKey(_ context.Context, key repositories.DocumentKey) (*models.GeneratedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.GeneratedDocument
	for i := range m.Docs {
		doc := m.Docs[i]
		if m.match(doc, key) && (latest == nil || doc.Version > latest.Version) {
			latest = &m.Docs[i]
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (m *DocumentStoreMock) CountByKey(_ context.Context, key repositories.DocumentKey) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, doc := range m.Docs {
		if m.match(doc, key) {
			count++
		}
	}
	return count, nil
}

func (m *DocumentStoreMock) Create(_ context.Context, doc *models.GeneratedDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc.ID = uint(len(m.Docs) + 1)
	m.Docs = append(m.Docs, *doc)
	return nil
}

func (m *DocumentStoreMock) FindByDocID(_ context.Context, docID string) (*models.GeneratedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Docs {
		if m.Docs[i].DocID == docID {
			copied := m.Docs[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *DocumentStoreMock) ListByUserBoard(_ context.Context, userID, boardID string, limit int) ([]models.GeneratedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.GeneratedDocument
	for _, doc := range m.Docs {
		if doc.UserID == userID && doc.ProjectID == boardID {
			out = append(out, doc)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *DocumentStoreMock) ListKeysByUser(_ context.Context, userID string) ([]models.GeneratedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.GeneratedDocument
	for _, doc := range m.Docs {
		if doc.UserID == userID {
			out = append(out, doc)
		}
	}
	return out, nil
}
