// Package api exposes the chat, ingestion and settings services over
// HTTP, including the SSE streaming endpoint.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/lodestone-ai/lodestone/internal/core/ports/driving"
	"github.com/lodestone-ai/lodestone/internal/logger"
)

// Server is the HTTP front end.
type Server struct {
	chat     driving.ChatService
	ingestor driving.Ingestor
	settings driving.SettingsService
	mux      *http.ServeMux
}

// NewServer wires the services into the route table.
func NewServer(chat driving.ChatService, ingestor driving.Ingestor, settings driving.SettingsService) *Server {
	s := &Server{
		chat:     chat,
		ingestor: ingestor,
		settings: settings,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /chat", s.handleChat)
	s.mux.HandleFunc("POST /chat/stream", s.handleChatStream)
	s.mux.HandleFunc("GET /settings", s.handleGetSettings)
	s.mux.HandleFunc("POST /settings", s.handleUpdateSettings)
	s.mux.HandleFunc("POST /refresh", s.handleRefresh)
	s.mux.HandleFunc("POST /clear-database", s.handleClearDatabase)
	s.mux.HandleFunc("POST /clear-memory", s.handleClearMemory)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /files", s.handleFiles)

	return s
}

// Handler returns the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
