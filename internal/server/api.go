package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/verte-zerg/readlog/internal/library"
	"github.com/verte-zerg/readlog/internal/model"
	"github.com/verte-zerg/readlog/internal/stats"
	"github.com/verte-zerg/readlog/internal/store"
	"github.com/verte-zerg/readlog/internal/validate"
)

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		s.writeInputError(w, http.StatusBadRequest, err)
		return
	}
	books, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("Failed to list books", slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, "failed to list books")
		return
	}
	page, err := library.Apply(books, q)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err, "failed to get book")
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readBookInput(w, r)
	if !ok {
		return
	}
	b, err := s.store.Create(r.Context(), in)
	if err != nil {
		s.writeStoreError(w, err, "failed to create book")
		return
	}
	w.Header().Set("Location", "/api/books/"+b.ID)
	s.writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readBookInput(w, r)
	if !ok {
		return
	}
	b, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeStoreError(w, err, "failed to update book")
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err, "failed to delete book")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	cfg, err := parseStatsConfig(r.URL.Query())
	if err != nil {
		s.writeInputError(w, http.StatusBadRequest, err)
		return
	}
	report, err := stats.BuildReport(r.Context(), s.store, cfg, s.engine)
	if err != nil {
		s.logger.Error("Failed to build report", slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, "failed to load books")
		return
	}
	if report.Summary == nil {
		s.writeError(w, http.StatusServiceUnavailable, "statistics unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, report.Summary)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="books.json"`)
	if err := store.Export(r.Context(), s.store, w); err != nil {
		s.logger.Error("Failed to export books", slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, "failed to export books")
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	mode, err := store.ParseImportMode(r.URL.Query().Get("mode"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	n, err := store.Import(r.Context(), s.store, r.Body, mode)
	if err != nil {
		s.logger.Warn("Import rejected", slog.Any("error", err))
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Info("Imported books", slog.Int("count", n), slog.String("mode", string(mode)))
	s.writeJSON(w, http.StatusOK, map[string]any{"imported": n, "mode": mode})
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	path, err := store.Backup(r.Context(), s.store, s.backupDir)
	if err != nil {
		s.logger.Error("Failed to write backup", slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, "failed to write backup")
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

func (s *Server) readBookInput(w http.ResponseWriter, r *http.Request) (model.BookInput, bool) {
	var in model.BookInput
	if err := s.decodeJSON(w, r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return model.BookInput{}, false
	}
	in = in.Normalize()
	if err := validate.Book(in); err != nil {
		s.writeInputError(w, http.StatusUnprocessableEntity, err)
		return model.BookInput{}, false
	}
	return in, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "book not found")
		return
	}
	s.logger.Error(message, slog.Any("error", err))
	s.writeError(w, http.StatusInternalServerError, message)
}

// parseQuery reads list parameters: q, genre, minRating, year, sort, desc, page, size.
func parseQuery(values url.Values) (model.Query, error) {
	var errs validate.Errors
	intParam := func(name string) int {
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, validate.FieldError{Field: name, Message: "must be a whole number"})
			return 0
		}
		return n
	}
	q := model.Query{
		Search:    values.Get("q"),
		Genre:     values.Get("genre"),
		MinRating: intParam("minRating"),
		Year:      intParam("year"),
		Sort:      values.Get("sort"),
		Page:      intParam("page"),
		PageSize:  intParam("size"),
	}
	if raw := values.Get("desc"); raw != "" {
		desc, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, validate.FieldError{Field: "desc", Message: "must be true or false"})
		}
		q.Desc = desc
	}
	if len(errs) > 0 {
		return model.Query{}, errs
	}
	if err := validate.Pagination(q.Page, q.PageSize); err != nil {
		return model.Query{}, err
	}
	return q, nil
}

// parseStatsConfig reads stats filters: genre, year, since.
func parseStatsConfig(values url.Values) (model.StatsConfig, error) {
	cfg := model.StatsConfig{Genre: strings.TrimSpace(values.Get("genre"))}
	if raw := strings.TrimSpace(values.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return model.StatsConfig{}, validate.Errors{{Field: "year", Message: "must be a whole number"}}
		}
		cfg.Year = year
	}
	if raw := strings.TrimSpace(values.Get("since")); raw != "" {
		since, ok := model.ParseCompletionDate(raw)
		if !ok {
			return model.StatsConfig{}, validate.Errors{{Field: "since", Message: fmt.Sprintf("must be a date like %s", model.DateLayout)}}
		}
		cfg.Since = &since
	}
	return cfg, nil
}
