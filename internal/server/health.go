package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Health is the health check response.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Store     struct {
		Status  string `json:"status"`
		Books   int    `json:"books"`
		Message string `json:"message,omitempty"`
	} `json:"store"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := Health{Status: "ok", Timestamp: time.Now().UTC()}
	books, err := s.store.List(ctx)
	if err != nil {
		s.logger.Warn("Health check failed", slog.Any("error", err))
		health.Status = "degraded"
		health.Store.Status = "error"
		health.Store.Message = "store unavailable"
		s.writeJSON(w, http.StatusServiceUnavailable, health)
		return
	}
	health.Store.Status = "ok"
	health.Store.Books = len(books)
	s.writeJSON(w, http.StatusOK, health)
}
