package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/logger"
)

// chatRequest is the body of /chat and /chat/stream.
type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	answer, err := s.chat.Answer(r.Context(), req.Message)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	err := s.chat.AnswerStream(r.Context(), req.Message, func(ev domain.StreamEvent) error {
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// The error event, if any, is already on the wire.
		logger.Debug("chat stream ended: %v", err)
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Get()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, settings.ToMap())
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var changes map[string]any
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings payload")
		return
	}

	updated, err := s.settings.Update(r.Context(), changes)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated.ToMap())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	result, err := s.ingestor.Refresh(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Database refreshed successfully",
		"files":   len(result.Files),
		"chunks":  result.Chunks,
	})
}

func (s *Server) handleClearDatabase(w http.ResponseWriter, r *http.Request) {
	if err := s.ingestor.ClearAll(r.Context()); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Database and source documents cleared successfully",
	})
}

func (s *Server) handleClearMemory(w http.ResponseWriter, r *http.Request) {
	s.chat.ClearMemory()
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Conversation memory cleared",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.ingestor.ListFiles(r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if files == nil {
		files = []domain.FileInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrIndexBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidModel):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSettings), errors.Is(err, domain.ErrInvalidChunkParams):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmbeddingUnavailable), errors.Is(err, domain.ErrGenerationUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
