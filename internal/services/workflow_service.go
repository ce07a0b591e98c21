package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"autodocgen/internal/docgen"
	"autodocgen/internal/models"
	"autodocgen/internal/repositories"
	"autodocgen/internal/trello"
	"autodocgen/internal/workflow"
)

// PipelineRunner is the orchestrator contract the service drives: one run
// from input state to a terminal state.
type PipelineRunner interface {
	Run(ctx context.Context, st workflow.State) (workflow.State, error)
}

// BoardNamer resolves a board id to its display name.
type BoardNamer interface {
	BoardName(ctx context.Context, boardID string, creds trello.Credentials) (string, error)
}

// GenerateRequest carries the caller-supplied generation inputs.
type GenerateRequest struct {
	Template         string   `json:"template"`
	PDFHeadings      []string `json:"pdf_headings"`
	SelectedHeadings []string `json:"selected_headings"`
}

// Result is the structured outcome of one successful pipeline run.
type Result struct {
	Status        string `json:"status"`
	TemplateName  string `json:"template_name"`
	Version       int    `json:"version"`
	DocID         string `json:"doc_id"`
	GeneratedDocs string `json:"generated_docs"`
}

// WorkflowService runs the generation pipeline and persists the merged
// document as a new version. It never retries; retry policy belongs to the
// caller.
type WorkflowService interface {
	Execute(ctx context.Context, userID, projectID string, req GenerateRequest) (*Result, error)
	Regenerate(ctx context.Context, userID, boardID string, docIDs []string) ([]string, error)
	ListDocuments(ctx context.Context, userID, boardID string) ([]models.GeneratedDocument, error)
}

// WorkflowConfig wires the service's collaborators.
type WorkflowConfig struct {
	Tokens   repositories.UserTokenRepository
	Docs     repositories.DocumentRepository
	Pipeline PipelineRunner
	Boards   BoardNamer
	// AppKey is the application's Trello API key, paired with the per-user
	// token for every board call.
	AppKey string
}

type workflowService struct {
	cfg WorkflowConfig
}

func NewWorkflowService(cfg WorkflowConfig) WorkflowService {
	return &workflowService{cfg: cfg}
}

func (s *workflowService) Execute(ctx context.Context, userID, projectID string, req GenerateRequest) (*Result, error) {
	token, err := s.cfg.Tokens.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: fetch token: %w", err)
	}
	if token == "" {
		return nil, ErrNotConnected
	}

	templateName := strings.TrimSpace(req.Template)
	if templateName == "" {
		return nil, ErrMissingTemplate
	}

	creds := trello.Credentials{Key: s.cfg.AppKey, Token: token}
	boardName := s.boardName(ctx, projectID, creds)

	st := workflow.State{
		ProjectID:        projectID,
		ProjectName:      boardName,
		Credentials:      creds,
		PDFHeadings:      req.PDFHeadings,
		SelectedHeadings: req.SelectedHeadings,
	}
	st, err = s.cfg.Pipeline.Run(ctx, st)
	if err != nil {
		return nil, err
	}

	formatted := docgen.Clean(st.GeneratedDocs, boardName)

	key := repositories.DocumentKey{UserID: userID, ProjectID: projectID, TemplateName: templateName}
	latest, err := s.cfg.Docs.LatestByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("service: load latest version: %w", err)
	}
	if latest != nil {
		formatted = docgen.Merge(latest.GeneratedDocs, formatted).Text
	}
	if strings.TrimSpace(formatted) == "" {
		formatted = docgen.Placeholder
	}

	// Version is derived from the count of stored versions. Concurrent runs
	// for the same key can race here; see DESIGN.md.
	count, err := s.cfg.Docs.CountByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("service: count versions: %w", err)
	}
	version := int(count) + 1

	doc := &models.GeneratedDocument{
		DocID:         uuid.NewString(),
		UserID:        userID,
		ProjectID:     projectID,
		TemplateName:  templateName,
		Version:       version,
		GeneratedDocs: formatted,
		BoardName:     boardName,
	}
	if err := s.cfg.Docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("service: store version %d: %w", version, err)
	}

	return &Result{
		Status:        "success",
		TemplateName:  templateName,
		Version:       version,
		DocID:         doc.DocID,
		GeneratedDocs: formatted,
	}, nil
}

// boardName fetches the board's display name, falling back to a fixed
// placeholder when the board cannot be resolved. A failed name lookup must
// not fail the run.
func (s *workflowService) boardName(ctx context.Context, projectID string, creds trello.Credentials) string {
	const fallback = "Untitled Project"
	if projectID == "" || s.cfg.Boards == nil {
		return fallback
	}
	name, err := s.cfg.Boards.BoardName(ctx, projectID, creds)
	if err != nil || name == "" {
		log.Printf("workflow: board name lookup for %s failed: %v", projectID, err)
		return fallback
	}
	return name
}

// Regenerate copies each referenced document into a fresh row with a bumped
// version. History stays immutable; unknown doc ids are skipped.
func (s *workflowService) Regenerate(ctx context.Context, userID, boardID string, docIDs []string) ([]string, error) {
	if userID == "" || boardID == "" || len(docIDs) == 0 {
		return nil, ErrMissingParams
	}

	var newIDs []string
	for _, docID := range docIDs {
		doc, err := s.cfg.Docs.FindByDocID(ctx, docID)
		if err != nil {
			return nil, fmt.Errorf("service: load document %s: %w", docID, err)
		}
		if doc == nil {
			continue
		}

		copied := &models.GeneratedDocument{
			DocID:         uuid.NewString(),
			UserID:        doc.UserID,
			ProjectID:     doc.ProjectID,
			TemplateName:  doc.TemplateName,
			Version:       doc.Version + 1,
			GeneratedDocs: doc.GeneratedDocs,
			BoardName:     doc.BoardName,
		}
		if err := s.cfg.Docs.Create(ctx, copied); err != nil {
			return nil, fmt.Errorf("service: regenerate document %s: %w", docID, err)
		}
		newIDs = append(newIDs, copied.DocID)
	}
	return newIDs, nil
}

func (s *workflowService) ListDocuments(ctx context.Context, userID, boardID string) ([]models.GeneratedDocument, error) {
	docs, err := s.cfg.Docs.ListByUserBoard(ctx, userID, boardID, 50)
	if err != nil {
		return nil, fmt.Errorf("service: list documents: %w", err)
	}
	return docs, nil
}
