// Package transport is the thin HTTP wrapper over the bar service: it maps a
// form or JSON submission to a creation request and serves freshly computed
// progress. All temporal logic lives in the domain package.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/barkeep/barkeep/internal/domain/bar"
	"github.com/go-chi/chi/v5"
)

// BarService is the slice of the lifecycle service the HTTP layer needs.
type BarService interface {
	Create(ctx context.Context, req bar.CreateRequest) (*bar.TimeBasedBar, error)
	Get(ctx context.Context, id string) (*bar.TimeBasedBar, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]bar.TimeBasedBar, error)
	Progress(b *bar.TimeBasedBar) (bar.ProgressCalculation, error)
}

// Server wires HTTP handlers.
type Server struct {
	bars   BarService
	logger *slog.Logger
}

// NewServer creates an HTTP router for the bar API.
func NewServer(bars BarService, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{bars: bars, logger: logger}

	r := chi.NewRouter()
	r.Get("/health", srv.handleHealth)
	r.Post("/bars", srv.handleCreate)
	r.Get("/bars", srv.handleList)
	r.Get("/bars/{id}/progress", srv.handleProgress)
	r.Delete("/bars/{id}", srv.handleDelete)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// createSubmission is the raw shape of a bar creation, from either a JSON
// body or an HTML form.
type createSubmission struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	StartDate   string `json:"start_date"`
	TargetDate  string `json:"target_date"`
}

// barWithProgress pairs a bar's static fields with a fresh calculation.
type barWithProgress struct {
	Bar      bar.TimeBasedBar        `json:"bar"`
	Progress bar.ProgressCalculation `json:"progress"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sub, err := parseSubmission(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := bar.CreateRequest{
		Title:       sub.Title,
		Description: sub.Description,
		Type:        bar.BarType(sub.Type),
	}

	// Unparsable dates are reported with the same code and field
	// attribution the validator uses, so the form can render them inline.
	var parseErrs []bar.ValidationError
	if sub.StartDate != "" {
		start, perr := parseDate(sub.StartDate)
		if perr != nil {
			parseErrs = append(parseErrs, dateFormatError("startDate"))
		} else {
			req.StartDate = start
		}
	}
	if sub.TargetDate != "" {
		target, perr := parseDate(sub.TargetDate)
		if perr != nil {
			parseErrs = append(parseErrs, dateFormatError("targetDate"))
		} else {
			req.TargetDate = target
		}
	}
	if len(parseErrs) > 0 {
		writeValidationErrors(w, parseErrs)
		return
	}

	created, err := s.bars.Create(r.Context(), req)
	if err != nil {
		var cfgErr *bar.ConfigError
		switch {
		case errors.As(err, &cfgErr):
			writeValidationErrors(w, cfgErr.Errors)
		case errors.Is(err, bar.ErrNotTimeBased):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("create bar failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	bars, err := s.bars.List(r.Context())
	if err != nil {
		s.logger.Error("list bars failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]barWithProgress, 0, len(bars))
	for i := range bars {
		calc, err := s.bars.Progress(&bars[i])
		if err != nil {
			s.logger.Error("progress calculation failed", "id", bars[i].ID, "error", err)
			continue
		}
		items = append(items, barWithProgress{Bar: bars[i], Progress: calc})
	}

	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b, err := s.bars.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, bar.ErrBarNotFound) {
			writeError(w, http.StatusNotFound, "bar not found")
			return
		}
		s.logger.Error("get bar failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	calc, err := s.bars.Progress(b)
	if err != nil {
		s.logger.Error("progress calculation failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, barWithProgress{Bar: *b, Progress: calc})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.bars.Delete(r.Context(), id); err != nil {
		if errors.Is(err, bar.ErrBarNotFound) {
			writeError(w, http.StatusNotFound, "bar not found")
			return
		}
		s.logger.Error("delete bar failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseSubmission(r *http.Request) (createSubmission, error) {
	var sub createSubmission
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			return sub, errors.New("invalid JSON body")
		}
		return sub, nil
	}

	if err := r.ParseForm(); err != nil {
		return sub, errors.New("invalid form body")
	}
	sub.Title = r.PostFormValue("title")
	sub.Description = r.PostFormValue("description")
	sub.Type = r.PostFormValue("type")
	sub.StartDate = r.PostFormValue("start_date")
	sub.TargetDate = r.PostFormValue("target_date")
	return sub, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func dateFormatError(field string) bar.ValidationError {
	return bar.ValidationError{
		Field:   field,
		Message: field + " is not a valid date",
		Code:    bar.CodeInvalidDateFormat,
	}
}

type errorResponse struct {
	Error  string                `json:"error"`
	Fields []bar.ValidationError `json:"fields,omitempty"`
}

func writeValidationErrors(w http.ResponseWriter, errs []bar.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error:  "validation failed",
		Fields: errs,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
