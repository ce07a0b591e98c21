package unit_tests

import (
	"context"
	"encoding/json"
	"testing"

	"autodocgen/internal/models"
	"autodocgen/internal/repositories"
	"autodocgen/internal/services"
	"autodocgen/internal/tests/mocks"
	"autodocgen/internal/trello"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const createCardPayload = `{
	"action": {
		"id": "act-100",
		"type": "createCard",
		"data": {
			"board": {"id": "board-1", "name": "Sprint Board"},
			"list": {"id": "list-1", "name": "Doing"},
			"card": {"id": "card-1", "name": "Ship it", "idShort": 7}
		}
	}
}`

func decodeEvent(t *testing.T, payload string) trello.WebhookEvent {
	t.Helper()
	var event trello.WebhookEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &event))
	return event
}

func mappedBoards(userID string) *mocks.BoardMappingRepositoryMock {
	return &mocks.BoardMappingRepositoryMock{
		FindByBoardIDFunc: func(ctx context.Context, boardID string) (*models.BoardMapping, error) {
			return &models.BoardMapping{BoardID: boardID, UserID: userID}, nil
		},
	}
}

func TestNotificationService_Ingest_CreateCard(t *testing.T) {
	var stored *models.Notification
	mockRepo := &mocks.NotificationRepositoryMock{
		CreateFunc: func(ctx context.Context, n *models.Notification) error {
			stored = n
			return nil
		},
	}
	service := services.NewNotificationService(mockRepo, mappedBoards("u1"))

	err := service.Ingest(context.Background(), decodeEvent(t, createCardPayload))
	assert.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, "board-1", stored.BoardID)
	assert.Equal(t, "Sprint Board", stored.BoardName)
	assert.Equal(t, "card-1", stored.CardID)
	assert.Equal(t, "createCard", stored.ActionType)
	require.NotNil(t, stored.ActionID)
	assert.Equal(t, "act-100", *stored.ActionID)
	assert.Equal(t, "Card 'Ship it' created in 'Doing'", stored.Message)
	assert.NotEmpty(t, stored.RawEvent)
}

func TestNotificationService_Ingest_DuplicateAbsorbed(t *testing.T) {
	mockRepo := &mocks.NotificationRepositoryMock{
		CreateFunc: func(ctx context.Context, n *models.Notification) error {
			return repositories.ErrDuplicateAction
		},
	}
	service := services.NewNotificationService(mockRepo, mappedBoards("u1"))

	err := service.Ingest(context.Background(), decodeEvent(t, createCardPayload))
	assert.NoError(t, err)
}

func TestNotificationService_Ingest_RedeliveryStoresOneRow(t *testing.T) {
	seen := map[string]bool{}
	mockRepo := &mocks.NotificationRepositoryMock{
		CreateFunc: func(ctx context.Context, n *models.Notification) error {
			if n.ActionID != nil && seen[*n.ActionID] {
				return repositories.ErrDuplicateAction
			}
			if n.ActionID != nil {
				seen[*n.ActionID] = true
			}
			return nil
		},
	}
	service := services.NewNotificationService(mockRepo, mappedBoards("u1"))

	event := decodeEvent(t, createCardPayload)
	for i := 0; i < 3; i++ {
		assert.NoError(t, service.Ingest(context.Background(), event))
	}
	assert.Len(t, seen, 1)
}

func TestNotificationService_Ingest_UnmappedBoardDropped(t *testing.T) {
	created := false
	mockRepo := &mocks.NotificationRepositoryMock{
		CreateFunc: func(ctx context.Context, n *models.Notification) error {
			created = true
			return nil
		},
	}
	service := services.NewNotificationService(mockRepo, &mocks.BoardMappingRepositoryMock{})

	err := service.Ingest(context.Background(), decodeEvent(t, createCardPayload))
	assert.NoError(t, err)
	assert.False(t, created)
}

func TestNotificationService_Ingest_NonCardEventSkipped(t *testing.T) {
	resolved := false
	mappings := &mocks.BoardMappingRepositoryMock{
		FindByBoardIDFunc: func(ctx context.Context, boardID string) (*models.BoardMapping, error) {
			resolved = true
			return nil, nil
		},
	}
	service := services.NewNotificationService(&mocks.NotificationRepositoryMock{}, mappings)

	event := trello.WebhookEvent{Action: trello.Action{ID: "act-101", Type: "updateBoard"}}
	err := service.Ingest(context.Background(), event)
	assert.NoError(t, err)
	assert.False(t, resolved)
}

func TestNotificationService_Ingest_MoveMessage(t *testing.T) {
	var stored *models.Notification
	mockRepo := &mocks.NotificationRepositoryMock{
		CreateFunc: func(ctx context.Context, n *models.Notification) error {
			stored = n
			return nil
		},
	}
	service := services.NewNotificationService(mockRepo, mappedBoards("u1"))

	event := trello.WebhookEvent{Action: trello.Action{
		ID:   "act-102",
		Type: "updateCard",
		Data: trello.ActionData{
			Board:     &trello.NamedRef{ID: "board-1", Name: "Sprint Board"},
			Card:      &trello.CardRef{ID: "card-1", Name: "Ship it"},
			ListAfter: &trello.NamedRef{ID: "list-2", Name: "Done"},
		},
	}}
	require.NoError(t, service.Ingest(context.Background(), event))
	require.NotNil(t, stored)
	assert.Equal(t, "Card 'Ship it' moved to 'Done'", stored.Message)
}

func TestNotificationService_Ingest_CommentMessage(t *testing.T) {
	var stored *models.Notification
	mockRepo := &mocks.NotificationRepositoryMock{
		CreateFunc: func(ctx context.Context, n *models.Notification) error {
			stored = n
			return nil
		},
	}
	service := services.NewNotificationService(mockRepo, mappedBoards("u1"))

	event := trello.WebhookEvent{Action: trello.Action{
		ID:   "act-103",
		Type: "commentCard",
		Data: trello.ActionData{
			Board: &trello.NamedRef{ID: "board-1", Name: "Sprint Board"},
			Card:  &trello.CardRef{ID: "card-1", Name: "Ship it"},
			Text:  "looks good",
		},
	}}
	require.NoError(t, service.Ingest(context.Background(), event))
	require.NotNil(t, stored)
	assert.Equal(t, "New comment on 'Ship it': looks good", stored.Message)
}

func TestNotificationService_Ingest_UnnamedCardFallsBackToShortID(t *testing.T) {
	var stored *models.Notification
	mockRepo := &mocks.NotificationRepositoryMock{
		CreateFunc: func(ctx context.Context, n *models.Notification) error {
			stored = n
			return nil
		},
	}
	service := services.NewNotificationService(mockRepo, mappedBoards("u1"))

	event := trello.WebhookEvent{Action: trello.Action{
		ID:   "act-104",
		Type: "deleteCard",
		Data: trello.ActionData{
			Board: &trello.NamedRef{ID: "board-1", Name: "Sprint Board"},
			Card:  &trello.CardRef{ID: "card-9", IDShort: 42},
		},
	}}
	require.NoError(t, service.Ingest(context.Background(), event))
	require.NotNil(t, stored)
	assert.Equal(t, "Card 'Card 42' deleted", stored.Message)
}

func TestNotificationService_ListByUser_GroupsByBoard(t *testing.T) {
	mockRepo := &mocks.NotificationRepositoryMock{
		ListByUserFunc: func(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
			assert.Equal(t, "u1", userID)
			return []models.Notification{
				{ID: 3, BoardID: "b1", BoardName: "Sprint Board", Message: "newest"},
				{ID: 2, BoardID: "b2", BoardName: "Backlog", Message: "middle", IsRead: true},
				{ID: 1, BoardID: "b1", BoardName: "Sprint Board", Message: "oldest"},
			}, nil
		},
	}
	service := services.NewNotificationService(mockRepo, &mocks.BoardMappingRepositoryMock{})

	feed, err := service.ListByUser(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, 2, feed.UnreadCount)
	assert.Len(t, feed.Boards, 2)
	assert.Equal(t, "Sprint Board", feed.Boards["b1"].BoardName)
	assert.Len(t, feed.Boards["b1"].Notifications, 2)
	assert.Equal(t, "newest", feed.Boards["b1"].Notifications[0].Message)
}

func TestNotificationService_MarkRead_WrapsRepositoryError(t *testing.T) {
	mockRepo := &mocks.NotificationRepositoryMock{
		MarkReadFunc: func(ctx context.Context, id uint) error {
			return assert.AnError
		},
	}
	service := services.NewNotificationService(mockRepo, &mocks.BoardMappingRepositoryMock{})

	err := service.MarkRead(context.Background(), 5)
	assert.ErrorIs(t, err, assert.AnError)
}
