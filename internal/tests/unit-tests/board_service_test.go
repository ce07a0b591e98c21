package unit_tests

import (
	"context"
	"testing"

	"autodocgen/internal/models"
	"autodocgen/internal/services"
	"autodocgen/internal/tests/mocks"
	"autodocgen/internal/trello"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boardAPIMock struct {
	ListBoardsFunc    func(ctx context.Context, creds trello.Credentials) ([]trello.Board, error)
	EnsureWebhookFunc func(ctx context.Context, boardID, callbackURL string, creds trello.Credentials) (*trello.Webhook, error)
}

func (m *boardAPIMock) ListBoards(ctx context.Context, creds trello.Credentials) ([]trello.Board, error) {
	if m.ListBoardsFunc != nil {
		return m.ListBoardsFunc(ctx, creds)
	}
	return nil, nil
}

func (m *boardAPIMock) EnsureWebhook(ctx context.Context, boardID, callbackURL string, creds trello.Credentials) (*trello.Webhook, error) {
	if m.EnsureWebhookFunc != nil {
		return m.EnsureWebhookFunc(ctx, boardID, callbackURL, creds)
	}
	return &trello.Webhook{}, nil
}

func TestBoardService_ConnectToken_MapsBoardsAndRegistersWebhooks(t *testing.T) {
	var savedToken string
	tokens := &mocks.UserTokenRepositoryMock{
		SaveFunc: func(ctx context.Context, userID, token string) error {
			assert.Equal(t, "u1", userID)
			savedToken = token
			return nil
		},
	}

	var upserts []models.BoardMapping
	mappings := &mocks.BoardMappingRepositoryMock{
		UpsertFunc: func(ctx context.Context, m *models.BoardMapping) error {
			upserts = append(upserts, *m)
			return nil
		},
	}

	var hookCallbacks []string
	client := &boardAPIMock{
		ListBoardsFunc: func(ctx context.Context, creds trello.Credentials) ([]trello.Board, error) {
			assert.Equal(t, "app-key", creds.Key)
			assert.Equal(t, "tok-1", creds.Token)
			return []trello.Board{
				{ID: "b1", Name: "Sprint Board"},
				{ID: "b2", Name: "Backlog"},
			}, nil
		},
		EnsureWebhookFunc: func(ctx context.Context, boardID, callbackURL string, creds trello.Credentials) (*trello.Webhook, error) {
			hookCallbacks = append(hookCallbacks, callbackURL)
			return &trello.Webhook{IDModel: boardID, CallbackURL: callbackURL}, nil
		},
	}

	service := services.NewBoardService(services.BoardConfig{
		Tokens:   tokens,
		Mappings: mappings,
		Docs:     &mocks.DocumentRepositoryMock{},
		Client:   client,
		AppKey:   "app-key",
		BaseURL:  "https://docs.example.com",
	})

	err := service.ConnectToken(context.Background(), "u1", "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", savedToken)

	require.Len(t, upserts, 2)
	assert.Equal(t, "b1", upserts[0].BoardID)
	assert.Equal(t, "u1", upserts[0].UserID)
	assert.Equal(t, "Sprint Board", upserts[0].BoardName)

	require.Len(t, hookCallbacks, 2)
	assert.Equal(t, "https://docs.example.com/pm", hookCallbacks[0])
}

func TestBoardService_ConnectToken_WebhookFailureIsBestEffort(t *testing.T) {
	client := &boardAPIMock{
		ListBoardsFunc: func(ctx context.Context, creds trello.Credentials) ([]trello.Board, error) {
			return []trello.Board{{ID: "b1", Name: "Sprint Board"}}, nil
		},
		EnsureWebhookFunc: func(ctx context.Context, boardID, callbackURL string, creds trello.Credentials) (*trello.Webhook, error) {
			return nil, assert.AnError
		},
	}
	service := services.NewBoardService(services.BoardConfig{
		Tokens:   &mocks.UserTokenRepositoryMock{},
		Mappings: &mocks.BoardMappingRepositoryMock{},
		Docs:     &mocks.DocumentRepositoryMock{},
		Client:   client,
		AppKey:   "app-key",
		BaseURL:  "https://docs.example.com",
	})

	assert.NoError(t, service.ConnectToken(context.Background(), "u1", "tok-1"))
}

func TestBoardService_RefreshMappings_SyncsEveryStoredToken(t *testing.T) {
	tokens := &mocks.UserTokenRepositoryMock{
		ListFunc: func(ctx context.Context) ([]models.UserToken, error) {
			return []models.UserToken{
				{UserID: "u1", TrelloToken: "tok-1"},
				{UserID: "u2", TrelloToken: "tok-2"},
			}, nil
		},
	}

	var upserts []models.BoardMapping
	mappings := &mocks.BoardMappingRepositoryMock{
		UpsertFunc: func(ctx context.Context, m *models.BoardMapping) error {
			upserts = append(upserts, *m)
			return nil
		},
	}

	client := &boardAPIMock{
		ListBoardsFunc: func(ctx context.Context, creds trello.Credentials) ([]trello.Board, error) {
			return []trello.Board{{ID: "b-" + creds.Token, Name: "Board"}}, nil
		},
	}

	service := services.NewBoardService(services.BoardConfig{
		Tokens:   tokens,
		Mappings: mappings,
		Docs:     &mocks.DocumentRepositoryMock{},
		Client:   client,
		AppKey:   "app-key",
		BaseURL:  "https://docs.example.com",
	})

	require.NoError(t, service.RefreshMappings(context.Background()))
	require.Len(t, upserts, 2)
	assert.Equal(t, "u1", upserts[0].UserID)
	assert.Equal(t, "b-tok-1", upserts[0].BoardID)
	assert.Equal(t, "u2", upserts[1].UserID)
	assert.Equal(t, "b-tok-2", upserts[1].BoardID)
}

func TestBoardService_RefreshMappings_SkipsFailingUser(t *testing.T) {
	tokens := &mocks.UserTokenRepositoryMock{
		ListFunc: func(ctx context.Context) ([]models.UserToken, error) {
			return []models.UserToken{
				{UserID: "u1", TrelloToken: "bad"},
				{UserID: "u2", TrelloToken: "tok-2"},
			}, nil
		},
	}

	var upserts []models.BoardMapping
	mappings := &mocks.BoardMappingRepositoryMock{
		UpsertFunc: func(ctx context.Context, m *models.BoardMapping) error {
			upserts = append(upserts, *m)
			return nil
		},
	}

	client := &boardAPIMock{
		ListBoardsFunc: func(ctx context.Context, creds trello.Credentials) ([]trello.Board, error) {
			if creds.Token == "bad" {
				return nil, assert.AnError
			}
			return []trello.Board{{ID: "b2", Name: "Board"}}, nil
		},
	}

	service := services.NewBoardService(services.BoardConfig{
		Tokens:   tokens,
		Mappings: mappings,
		Docs:     &mocks.DocumentRepositoryMock{},
		Client:   client,
		AppKey:   "app-key",
	})

	// One user with a dead token must not block the others.
	require.NoError(t, service.RefreshMappings(context.Background()))
	require.Len(t, upserts, 1)
	assert.Equal(t, "u2", upserts[0].UserID)
}

func TestBoardService_ConnectToken_MissingParams(t *testing.T) {
	service := services.NewBoardService(services.BoardConfig{})

	assert.ErrorIs(t, service.ConnectToken(context.Background(), "", "tok"), services.ErrMissingParams)
	assert.ErrorIs(t, service.ConnectToken(context.Background(), "u1", ""), services.ErrMissingParams)
}

func TestBoardService_ListBoards_NotConnected(t *testing.T) {
	service := services.NewBoardService(services.BoardConfig{
		Tokens: &mocks.UserTokenRepositoryMock{},
		Client: &boardAPIMock{},
	})

	_, err := service.ListBoards(context.Background(), "u1")
	assert.ErrorIs(t, err, services.ErrNotConnected)
}

func TestBoardService_AuthorizeURL(t *testing.T) {
	service := services.NewBoardService(services.BoardConfig{
		AppKey:  "app-key",
		BaseURL: "https://docs.example.com",
	})

	u := service.AuthorizeURL("u1")
	assert.Contains(t, u, "https://trello.com/1/authorize")
	assert.Contains(t, u, "key=app-key")
	assert.Contains(t, u, "user_id%3Du1")
}
