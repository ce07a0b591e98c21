package services

import (
	"context"
	"fmt"
	"log"

	"autodocgen/internal/models"
	"autodocgen/internal/repositories"
	"autodocgen/internal/trello"
)

// BoardAPI is the slice of the Trello client the board service uses.
type BoardAPI interface {
	ListBoards(ctx context.Context, creds trello.Credentials) ([]trello.Board, error)
	EnsureWebhook(ctx context.Context, boardID, callbackURL string, creds trello.Credentials) (*trello.Webhook, error)
}

// BoardService manages the user's Trello connection: saving the per-user
// token, keeping the board→user mapping fresh so webhook events can be
// routed, and registering board webhooks.
type BoardService interface {
	// ConnectToken stores the token, refreshes the board-user mapping from
	// the user's current board list, and ensures each board has a webhook
	// pointed at the callback URL.
	ConnectToken(ctx context.Context, userID, token string) error
	// RefreshMappings repeats the board-map and webhook sync for every
	// stored token. Run at startup so boards created since a user's last
	// reconnect still route notifications. Per-user failures are logged and
	// skipped.
	RefreshMappings(ctx context.Context) error
	ListBoards(ctx context.Context, userID string) ([]trello.Board, error)
	// GeneratedBoards returns the stored documents of the user, one row per
	// version, so the UI can show which boards already have documentation.
	GeneratedBoards(ctx context.Context, userID string) ([]models.GeneratedDocument, error)
	AuthorizeURL(userID string) string
}

// BoardConfig wires the service's collaborators.
type BoardConfig struct {
	Tokens   repositories.UserTokenRepository
	Mappings repositories.BoardMappingRepository
	Docs     repositories.DocumentRepository
	Client   BoardAPI
	AppKey   string
	// BaseURL is this service's public root; the webhook callback and the
	// OAuth return URL are derived from it.
	BaseURL string
}

type boardService struct {
	cfg BoardConfig
}

func NewBoardService(cfg BoardConfig) BoardService {
	return &boardService{cfg: cfg}
}

func (s *boardService) ConnectToken(ctx context.Context, userID, token string) error {
	if userID == "" || token == "" {
		return ErrMissingParams
	}
	if err := s.cfg.Tokens.Save(ctx, userID, token); err != nil {
		return fmt.Errorf("service: save token: %w", err)
	}
	return s.refresh(ctx, userID, token)
}

func (s *boardService) RefreshMappings(ctx context.Context) error {
	tokens, err := s.cfg.Tokens.List(ctx)
	if err != nil {
		return fmt.Errorf("service: list tokens: %w", err)
	}
	for _, t := range tokens {
		if err := s.refresh(ctx, t.UserID, t.TrelloToken); err != nil {
			log.Printf("boards: mapping refresh for user %s failed: %v", t.UserID, err)
		}
	}
	return nil
}

// refresh re-syncs the board-user map from the user's current board list and
// ensures each board has a webhook pointed at the callback URL.
func (s *boardService) refresh(ctx context.Context, userID, token string) error {
	creds := trello.Credentials{Key: s.cfg.AppKey, Token: token}
	boards, err := s.cfg.Client.ListBoards(ctx, creds)
	if err != nil {
		return fmt.Errorf("service: refresh boards: %w", err)
	}

	callbackURL := ""
	if s.cfg.BaseURL != "" {
		callbackURL = s.cfg.BaseURL + "/pm"
	}

	for _, board := range boards {
		mapping := &models.BoardMapping{
			BoardID:   board.ID,
			UserID:    userID,
			BoardName: board.Name,
		}
		if err := s.cfg.Mappings.Upsert(ctx, mapping); err != nil {
			return fmt.Errorf("service: map board %s: %w", board.ID, err)
		}

		// Webhook registration is best-effort: a board that refuses a hook
		// still gets documentation on demand, it just loses notifications.
		if callbackURL == "" {
			continue
		}
		if _, err := s.cfg.Client.EnsureWebhook(ctx, board.ID, callbackURL, creds); err != nil {
			log.Printf("boards: webhook registration for %s failed: %v", board.ID, err)
		}
	}
	return nil
}

func (s *boardService) ListBoards(ctx context.Context, userID string) ([]trello.Board, error) {
	token, err := s.cfg.Tokens.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: fetch token: %w", err)
	}
	if token == "" {
		return nil, ErrNotConnected
	}
	boards, err := s.cfg.Client.ListBoards(ctx, trello.Credentials{Key: s.cfg.AppKey, Token: token})
	if err != nil {
		return nil, fmt.Errorf("service: list boards: %w", err)
	}
	return boards, nil
}

func (s *boardService) GeneratedBoards(ctx context.Context, userID string) ([]models.GeneratedDocument, error) {
	docs, err := s.cfg.Docs.ListKeysByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: list generated boards: %w", err)
	}
	return docs, nil
}

func (s *boardService) AuthorizeURL(userID string) string {
	returnURL := s.cfg.BaseURL + "/trello/callback?user_id=" + userID
	return trello.AuthorizeURL(s.cfg.AppKey, returnURL)
}
