package trello

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const webhookDescription = "AutoDocGen Webhook"

// Webhook is a registered callback on a token.
type Webhook struct {
	ID          string `json:"id"`
	IDModel     string `json:"idModel"`
	CallbackURL string `json:"callbackURL"`
	Description string `json:"description"`
}

// EnsureWebhook registers callbackURL as a webhook on the board unless an
// identical registration already exists on the token. Registration is
// idempotent from the caller's point of view.
func (c *Client) EnsureWebhook(ctx context.Context, boardID, callbackURL string, creds Credentials) (*Webhook, error) {
	var existing []Webhook
	if err := c.get(ctx, "/tokens/"+creds.Token+"/webhooks", creds, nil, &existing); err != nil {
		return nil, err
	}
	for _, hook := range existing {
		if hook.IDModel == boardID && hook.CallbackURL == callbackURL {
			return &hook, nil
		}
	}

	body, err := json.Marshal(map[string]string{
		"idModel":     boardID,
		"callbackURL": callbackURL,
		"description": webhookDescription,
	})
	if err != nil {
		return nil, fmt.Errorf("trello: marshal webhook body: %w", err)
	}

	params := url.Values{"key": {creds.Key}, "token": {creds.Token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/webhooks?"+params.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("trello: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trello: create webhook: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, &APIError{StatusCode: res.StatusCode, Message: string(msg)}
	}

	var hook Webhook
	if err := json.NewDecoder(res.Body).Decode(&hook); err != nil {
		return nil, fmt.Errorf("trello: decode webhook: %w", err)
	}
	return &hook, nil
}

// AuthorizeURL builds the Trello authorization hand-off URL for a user. The
// token lands on returnURL; exchanging and persisting it is the caller's job.
func AuthorizeURL(appKey, returnURL string) string {
	params := url.Values{
		"expiration":    {"30days"},
		"name":          {"AutoDocGen"},
		"scope":         {"read,write"},
		"response_type": {"token"},
		"key":           {appKey},
		"return_url":    {returnURL},
	}
	return "https://trello.com/1/authorize?" + params.Encode()
}
