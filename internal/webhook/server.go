// Package webhook exposes the service's HTTP surface: the Trello webhook
// callback, the notification inbox, and the document generation endpoints.
// Accepting an event and processing it are decoupled; POST /pm only parses
// the payload and hands it to the ingest queue before acknowledging.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"autodocgen/internal/services"
	"autodocgen/internal/trello"
)

// EventDispatcher enqueues a parsed webhook event for background
// processing. Dispatch must never block.
type EventDispatcher interface {
	Dispatch(event trello.WebhookEvent) bool
}

// Settings configures the HTTP listener.
type Settings struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func (s Settings) withDefaults() Settings {
	if s.Addr == "" {
		s.Addr = ":8080"
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 15 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 60 * time.Second
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = 120 * time.Second
	}
	return s
}

// Server wraps the HTTP listener and handlers.
type Server struct {
	settings   Settings
	services   *services.Services
	dispatcher EventDispatcher
	clock      func() time.Time

	mu        sync.Mutex
	server    *http.Server
	listener  net.Listener
	startTime time.Time
}

// Option customizes server construction.
type Option func(*Server)

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewServer prepares the HTTP server. The dispatcher receives every
// syntactically valid webhook event.
func NewServer(settings Settings, svcs *services.Services, dispatcher EventDispatcher, opts ...Option) *Server {
	s := &Server{
		settings:   settings.withDefaults(),
		services:   svcs,
		dispatcher: dispatcher,
		clock:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler builds the route table. Exposed separately so tests can drive the
// handlers through httptest without binding a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Trello webhook boundary.
	mux.HandleFunc("HEAD /pm", s.handleVerify)
	mux.HandleFunc("GET /pm", s.handleVerify)
	mux.HandleFunc("POST /pm", s.handleEvent)

	// Notification inbox.
	mux.HandleFunc("GET /trello/notifications/{user_id}", s.handleNotifications)
	mux.HandleFunc("POST /notifications/mark-read/{id}", s.handleMarkRead)

	// Trello connection.
	mux.HandleFunc("GET /trello/connect", s.handleConnect)
	mux.HandleFunc("GET /trello/callback", s.handleCallback)
	mux.HandleFunc("POST /trello/save_token", s.handleSaveToken)
	mux.HandleFunc("GET /trello/boards", s.handleBoards)
	mux.HandleFunc("GET /trello/generated_boards", s.handleGeneratedBoards)

	// Documents.
	mux.HandleFunc("GET /board/{user_id}/{board_id}/docs", s.handleBoardDocs)
	mux.HandleFunc("POST /workflow/run", s.handleRunWorkflow)
	mux.HandleFunc("POST /regenerate-doc", s.handleRegenerate)

	// Templates.
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("POST /templates", s.handleCreateTemplate)
	mux.HandleFunc("GET /templates/headings", s.handleTemplateHeadings)

	return mux
}

// Start binds the TCP listener and begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return errors.New("webhook: server already started")
	}

	listener, err := net.Listen("tcp", s.settings.Addr)
	if err != nil {
		return fmt.Errorf("webhook: listen %s: %w", s.settings.Addr, err)
	}
	s.listener = listener
	s.startTime = s.clock()

	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.server = server

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("webhook: serve: %v", err)
		}
	}()
	log.Printf("webhook: listening on %s", listener.Addr())
	return nil
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// Addr reports the bound listener address, useful when Addr was ":0".
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
