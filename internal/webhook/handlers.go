package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"autodocgen/internal/models"
	"autodocgen/internal/services"
	"autodocgen/internal/trello"
	"autodocgen/internal/workflow"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": s.clock().Sub(s.startTime).String(),
	})
}

// handleVerify acknowledges Trello's webhook verification probe.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// handleEvent accepts a webhook delivery. The event is queued for
// background processing and the request is acknowledged immediately;
// processing failures never surface here.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		// Verification probes may POST without a body.
		w.WriteHeader(http.StatusOK)
		return
	}

	var event trello.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	s.dispatcher.Dispatch(event)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	feed, err := s.services.Notifications.ListByUser(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":                 "success",
		"unread_count":           feed.UnreadCount,
		"notifications_by_board": feed.Boards,
	})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid notification id"))
		return
	}
	if err := s.services.Notifications.MarkRead(r.Context(), uint(id)); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, errors.New("user_id is required"))
		return
	}
	http.Redirect(w, r, s.services.Boards.AuthorizeURL(userID), http.StatusFound)
}

// callbackPage finishes the authorization hand-off. Trello returns the token
// in the URL fragment, which never reaches the server, so the page forwards
// it to the save_token endpoint from the browser side.
const callbackPage = `<!doctype html>
<html>
<body>
<p id="status">Connecting your Trello account...</p>
<script>
const token = new URLSearchParams(window.location.hash.slice(1)).get("token");
const userID = new URLSearchParams(window.location.search).get("user_id");
const status = document.getElementById("status");
if (!token || !userID) {
  status.textContent = "Authorization failed: missing token or user id.";
} else {
  fetch("/trello/save_token", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({user_id: userID, trello_token: token}),
  }).then(function (res) {
    status.textContent = res.ok
      ? "Trello account connected. You can close this window."
      : "Saving the token failed. Please try again.";
  });
}
</script>
</body>
</html>
`

// handleCallback serves the page Trello redirects to after authorization.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(callbackPage))
}

func (s *Server) handleSaveToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Token  string `json:"trello_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON payload"))
		return
	}
	if err := s.services.Boards.ConnectToken(r.Context(), req.UserID, req.Token); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

func (s *Server) handleBoards(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, errors.New("user_id is required"))
		return
	}
	boards, err := s.services.Boards.ListBoards(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "boards": boards})
}

// handleGeneratedBoards reports the user's stored document versions so a UI
// can show which boards already have documentation.
func (s *Server) handleGeneratedBoards(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, errors.New("user_id is required"))
		return
	}
	docs, err := s.services.Boards.GeneratedBoards(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "documents": docs})
}

func (s *Server) handleBoardDocs(w http.ResponseWriter, r *http.Request) {
	docs, err := s.services.Workflows.ListDocuments(r.Context(), r.PathValue("user_id"), r.PathValue("board_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "documents": docs})
}

func (s *Server) handleRunWorkflow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string `json:"user_id"`
		ProjectID string `json:"project_id"`
		services.GenerateRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON payload"))
		return
	}
	if req.UserID == "" || req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, errors.New("user_id and project_id are required"))
		return
	}

	result, err := s.services.Workflows.Execute(r.Context(), req.UserID, req.ProjectID, req.GenerateRequest)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string   `json:"user_id"`
		BoardID string   `json:"board_id"`
		DocIDs  []string `json:"doc_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON payload"))
		return
	}
	newIDs, err := s.services.Workflows.Regenerate(r.Context(), req.UserID, req.BoardID, req.DocIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "new_doc_ids": newIDs})
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.services.Templates.ListTemplates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "templates": templates})
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string   `json:"name"`
		Headings []string `json:"headings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON payload"))
		return
	}
	if req.Name == "" || len(req.Headings) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("name and headings are required"))
		return
	}

	tmpl, err := s.services.Templates.CreateTemplate(r.Context(), &models.Template{
		Name:     req.Name,
		Headings: strings.Join(req.Headings, "\n"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"status": "success", "template": tmpl})
}

func (s *Server) handleTemplateHeadings(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("template")
	tmpl, err := s.services.Templates.Headings(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if tmpl == nil {
		writeError(w, http.StatusNotFound, errors.New("no data found for template '"+name+"'"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "success",
		"template_name": tmpl.Name,
		"structure":     tmpl.HeadingList(),
	})
}

// writeServiceError maps domain errors onto the HTTP taxonomy:
// configuration errors are client errors, failed pipeline runs report their
// retry classification, anything else is a plain 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotConnected),
		errors.Is(err, services.ErrMissingTemplate),
		errors.Is(err, services.ErrMissingParams):
		writeError(w, http.StatusBadRequest, err)
	default:
		var werr *workflow.Error
		if errors.As(err, &werr) {
			status := http.StatusBadGateway
			if werr.Kind == workflow.KindPermanent {
				status = http.StatusUnprocessableEntity
			}
			writeJSON(w, status, map[string]any{
				"status":    "error",
				"message":   werr.Error(),
				"retryable": workflow.Retryable(err),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"status": "error", "message": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("webhook: encode response: %v", err)
	}
}
