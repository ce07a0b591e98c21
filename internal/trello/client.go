// Package trello is a thin client for the pieces of the Trello REST API the
// documentation pipeline needs: listing a member's boards, pulling the lists
// and cards of one board, and keeping a board webhook registered. It holds no
// state beyond the HTTP client and base URL.
package trello

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.trello.com/1"

// Credentials carries the application key plus the per-user token every
// Trello call is authenticated with.
type Credentials struct {
	Key   string
	Token string
}

// APIError is a non-2xx response from Trello.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trello: API error %d: %s", e.StatusCode, e.Message)
}

// Board is one entry of a member's board list.
type Board struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// List is a sub-grouping of cards on a board.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Card is a single work item.
type Card struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
	URL  string `json:"shortUrl"`
}

// Client calls the Trello REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes client construction.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Tests use this to
// target an httptest server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, creds Credentials, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", creds.Key)
	params.Set("token", creds.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("trello: build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("trello: GET %s: %w", path, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return &APIError{StatusCode: res.StatusCode, Message: string(body)}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("trello: decode %s: %w", path, err)
	}
	return nil
}

// ListBoards returns all boards visible to the token's member.
func (c *Client) ListBoards(ctx context.Context, creds Credentials) ([]Board, error) {
	var boards []Board
	params := url.Values{"fields": {"id,name,url"}}
	if err := c.get(ctx, "/members/me/boards", creds, params, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// BoardName fetches the display name of a single board.
func (c *Client) BoardName(ctx context.Context, boardID string, creds Credentials) (string, error) {
	var board Board
	params := url.Values{"fields": {"name"}}
	if err := c.get(ctx, "/boards/"+boardID, creds, params, &board); err != nil {
		return "", err
	}
	return board.Name, nil
}

// BoardCards fetches the board's lists and then the cards of each list,
// returning cards grouped by list name. A list whose card fetch fails is
// logged and skipped so one broken list does not abort the whole board; a
// failure on the lists call itself is fatal.
func (c *Client) BoardCards(ctx context.Context, boardID string, creds Credentials) (map[string][]Card, error) {
	var lists []List
	if err := c.get(ctx, "/boards/"+boardID+"/lists", creds, nil, &lists); err != nil {
		return nil, err
	}

	cardsByList := make(map[string][]Card, len(lists))
	for _, lst := range lists {
		var cards []Card
		params := url.Values{"fields": {"id,name,desc,shortUrl"}}
		if err := c.get(ctx, "/lists/"+lst.ID+"/cards", creds, params, &cards); err != nil {
			log.Printf("trello: skipping list %q: %v", lst.Name, err)
			continue
		}
		cardsByList[lst.Name] = cards
	}
	return cardsByList, nil
}
