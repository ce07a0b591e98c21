package trello

import "strings"

// WebhookEvent is the body Trello POSTs to a registered webhook callback.
// Only the action envelope matters to ingestion; Model is ignored.
type WebhookEvent struct {
	Action Action `json:"action"`
}

// Action describes a single change on a board.
type Action struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Data          ActionData `json:"data"`
	MemberCreator *Member    `json:"memberCreator,omitempty"`
}

// ActionData holds the optional sub-objects Trello attaches depending on the
// action type.
type ActionData struct {
	Board      *NamedRef `json:"board,omitempty"`
	Card       *CardRef  `json:"card,omitempty"`
	List       *NamedRef `json:"list,omitempty"`
	ListBefore *NamedRef `json:"listBefore,omitempty"`
	ListAfter  *NamedRef `json:"listAfter,omitempty"`
	Attachment *NamedRef `json:"attachment,omitempty"`
	Text       string    `json:"text,omitempty"`
}

// NamedRef is the common {id, name} shape of board/list/attachment refs.
type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CardRef references the card an action touched.
type CardRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IDShort int    `json:"idShort,omitempty"`
}

// Member identifies who performed the action.
type Member struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
}

// IsCardAction reports whether the action type represents a card-level
// change (createCard, updateCard, commentCard, ...). Everything else is
// ignored by ingestion.
func (a Action) IsCardAction() bool {
	return a.Type != "" && strings.HasSuffix(a.Type, "Card")
}
