package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"autodocgen/internal/models"
	"autodocgen/internal/repositories"
	"autodocgen/internal/trello"
)

// NotificationService turns inbound board events into per-user
// notifications and serves the notification inbox.
type NotificationService interface {
	// Ingest processes one webhook event. Events that are not card-level
	// changes, carry no board, or belong to an unmapped board are discarded
	// without side effects. Duplicate deliveries of the same action id are
	// absorbed silently.
	Ingest(ctx context.Context, event trello.WebhookEvent) error
	ListByUser(ctx context.Context, userID string) (*NotificationFeed, error)
	MarkRead(ctx context.Context, id uint) error
}

// BoardFeed groups a user's notifications under one board.
type BoardFeed struct {
	BoardName     string                `json:"board_name"`
	Notifications []models.Notification `json:"notifications"`
}

// NotificationFeed is the query-side view: notifications grouped by board,
// most recent first, with an unread count.
type NotificationFeed struct {
	UnreadCount int                   `json:"unread_count"`
	Boards      map[string]*BoardFeed `json:"notifications_by_board"`
}

const feedLimit = 100

type notificationService struct {
	notifications repositories.NotificationRepository
	mappings      repositories.BoardMappingRepository
}

func NewNotificationService(
	notifications repositories.NotificationRepository,
	mappings repositories.BoardMappingRepository,
) NotificationService {
	return &notificationService{notifications: notifications, mappings: mappings}
}

func (s *notificationService) Ingest(ctx context.Context, event trello.WebhookEvent) error {
	action := event.Action

	if !action.IsCardAction() {
		log.Printf("notifications: skipping non-card event %q", action.Type)
		return nil
	}

	boardID, boardName := "", "Unknown Board"
	if action.Data.Board != nil {
		boardID = action.Data.Board.ID
		if action.Data.Board.Name != "" {
			boardName = action.Data.Board.Name
		}
	}
	if boardID == "" {
		return nil
	}

	mapping, err := s.mappings.FindByBoardID(ctx, boardID)
	if err != nil {
		return fmt.Errorf("service: resolve board owner: %w", err)
	}
	if mapping == nil {
		// Unmapped board: no owner on record, do not guess one.
		return nil
	}

	n := &models.Notification{
		UserID:     mapping.UserID,
		BoardID:    boardID,
		BoardName:  boardName,
		ActionType: action.Type,
		Message:    buildMessage(action),
	}
	if action.Data.Card != nil {
		n.CardID = action.Data.Card.ID
	}
	if action.ID != "" {
		id := action.ID
		n.ActionID = &id
	}
	if raw, err := json.Marshal(action); err == nil {
		n.RawEvent = string(raw)
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		if errors.Is(err, repositories.ErrDuplicateAction) {
			log.Printf("notifications: duplicate webhook ignored: %s", action.ID)
			return nil
		}
		return fmt.Errorf("service: store notification: %w", err)
	}
	return nil
}

// buildMessage derives the human-readable notification text from the
// action type.
func buildMessage(action trello.Action) string {
	data := action.Data

	cardName := "a card"
	if data.Card != nil {
		if data.Card.Name != "" {
			cardName = data.Card.Name
		} else if data.Card.IDShort != 0 {
			cardName = fmt.Sprintf("Card %d", data.Card.IDShort)
		}
	}

	switch action.Type {
	case "createCard":
		listName := "Unknown List"
		if data.List != nil && data.List.Name != "" {
			listName = data.List.Name
		}
		return fmt.Sprintf("Card '%s' created in '%s'", cardName, listName)

	case "updateCard":
		if data.ListAfter != nil {
			listName := data.ListAfter.Name
			if listName == "" {
				listName = "Unknown List"
			}
			return fmt.Sprintf("Card '%s' moved to '%s'", cardName, listName)
		}
		return fmt.Sprintf("Card '%s' updated", cardName)

	case "deleteCard":
		return fmt.Sprintf("Card '%s' deleted", cardName)

	case "commentCard":
		return fmt.Sprintf("New comment on '%s': %s", cardName, data.Text)

	case "addAttachmentToCard":
		return fmt.Sprintf("Attachment '%s' added to '%s'", attachmentName(data), cardName)

	case "removeAttachmentFromCard":
		return fmt.Sprintf("Attachment '%s' removed from '%s'", attachmentName(data), cardName)

	default:
		return fmt.Sprintf("Card '%s' action: %s", cardName, action.Type)
	}
}

func attachmentName(data trello.ActionData) string {
	if data.Attachment != nil && data.Attachment.Name != "" {
		return data.Attachment.Name
	}
	return "Attachment"
}

func (s *notificationService) ListByUser(ctx context.Context, userID string) (*NotificationFeed, error) {
	list, err := s.notifications.ListByUser(ctx, userID, feedLimit)
	if err != nil {
		return nil, fmt.Errorf("service: list notifications: %w", err)
	}

	feed := &NotificationFeed{Boards: map[string]*BoardFeed{}}
	for _, n := range list {
		if !n.IsRead {
			feed.UnreadCount++
		}
		group, ok := feed.Boards[n.BoardID]
		if !ok {
			name := n.BoardName
			if name == "" {
				name = "Untitled Board"
			}
			group = &BoardFeed{BoardName: name}
			feed.Boards[n.BoardID] = group
		}
		group.Notifications = append(group.Notifications, n)
	}
	return feed, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uint) error {
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("service: mark notification read: %w", err)
	}
	return nil
}
