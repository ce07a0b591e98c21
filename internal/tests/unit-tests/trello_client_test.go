package unit_tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"autodocgen/internal/trello"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = trello.Credentials{Key: "app-key", Token: "tok-1"}

func trelloTestServer(t *testing.T, routes map[string]http.HandlerFunc) *trello.Client {
	t.Helper()
	mux := http.NewServeMux()
	for path, handler := range routes {
		mux.HandleFunc(path, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return trello.NewClient(trello.WithBaseURL(srv.URL), trello.WithHTTPClient(srv.Client()))
}

func TestClient_ListBoards_SendsCredentials(t *testing.T) {
	client := trelloTestServer(t, map[string]http.HandlerFunc{
		"/members/me/boards": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "app-key", r.URL.Query().Get("key"))
			assert.Equal(t, "tok-1", r.URL.Query().Get("token"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"b1","name":"Sprint Board","url":"https://trello.com/b/b1"}]`))
		},
	})

	boards, err := client.ListBoards(context.Background(), testCreds)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, "b1", boards[0].ID)
	assert.Equal(t, "Sprint Board", boards[0].Name)
}

func TestClient_ListBoards_APIError(t *testing.T) {
	client := trelloTestServer(t, map[string]http.HandlerFunc{
		"/members/me/boards": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid token", http.StatusUnauthorized)
		},
	})

	_, err := client.ListBoards(context.Background(), testCreds)
	require.Error(t, err)

	var apiErr *trello.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "invalid token")
}

func TestClient_BoardName(t *testing.T) {
	client := trelloTestServer(t, map[string]http.HandlerFunc{
		"/boards/b1": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"b1","name":"Sprint Board"}`))
		},
	})

	name, err := client.BoardName(context.Background(), "b1", testCreds)
	require.NoError(t, err)
	assert.Equal(t, "Sprint Board", name)
}

func TestClient_BoardCards_GroupsByListName(t *testing.T) {
	client := trelloTestServer(t, map[string]http.HandlerFunc{
		"/boards/b1/lists": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":"l1","name":"Doing"},{"id":"l2","name":"Done"}]`))
		},
		"/lists/l1/cards": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":"c1","name":"Ship it","desc":"finish","shortUrl":"https://trello.com/c/c1"}]`))
		},
		"/lists/l2/cards": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		},
	})

	cards, err := client.BoardCards(context.Background(), "b1", testCreds)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	require.Len(t, cards["Doing"], 1)
	assert.Equal(t, "Ship it", cards["Doing"][0].Name)
	assert.Equal(t, "https://trello.com/c/c1", cards["Doing"][0].URL)
	assert.Empty(t, cards["Done"])
}

func TestClient_BoardCards_SkipsFailingList(t *testing.T) {
	client := trelloTestServer(t, map[string]http.HandlerFunc{
		"/boards/b1/lists": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":"l1","name":"Doing"},{"id":"l2","name":"Broken"}]`))
		},
		"/lists/l1/cards": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":"c1","name":"Ship it"}]`))
		},
		"/lists/l2/cards": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})

	cards, err := client.BoardCards(context.Background(), "b1", testCreds)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Contains(t, cards, "Doing")
	assert.NotContains(t, cards, "Broken")
}

func TestClient_BoardCards_ListsFailureIsFatal(t *testing.T) {
	client := trelloTestServer(t, map[string]http.HandlerFunc{
		"/boards/b1/lists": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		},
	})

	_, err := client.BoardCards(context.Background(), "b1", testCreds)
	var apiErr *trello.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestClient_EnsureWebhook_SkipsExistingRegistration(t *testing.T) {
	posted := false
	client := trelloTestServer(t, map[string]http.HandlerFunc{
		"/tokens/tok-1/webhooks": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":"w1","idModel":"b1","callbackURL":"https://docs.example.com/pm"}]`))
		},
		"/webhooks": func(w http.ResponseWriter, r *http.Request) {
			posted = true
			_, _ = w.Write([]byte(`{"id":"w2"}`))
		},
	})

	hook, err := client.EnsureWebhook(context.Background(), "b1", "https://docs.example.com/pm", testCreds)
	require.NoError(t, err)
	assert.Equal(t, "w1", hook.ID)
	assert.False(t, posted)
}

func TestClient_EnsureWebhook_RegistersWhenMissing(t *testing.T) {
	client := trelloTestServer(t, map[string]http.HandlerFunc{
		"/tokens/tok-1/webhooks": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		},
		"/webhooks": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			_, _ = w.Write([]byte(`{"id":"w2","idModel":"b1","callbackURL":"https://docs.example.com/pm"}`))
		},
	})

	hook, err := client.EnsureWebhook(context.Background(), "b1", "https://docs.example.com/pm", testCreds)
	require.NoError(t, err)
	assert.Equal(t, "w2", hook.ID)
}
