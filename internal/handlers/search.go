package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/internal/search"
	"github.com/prospectlab/prospect/pkg/httpx"
)

// SearchService defines the interface for search business logic
type SearchService interface {
	Search(ctx context.Context, userID, email, query string, source models.Source) (*search.View, error)
	Replay(ctx context.Context, userID, email, historyID string) (*search.View, error)
	View(ctx context.Context, userID string) (*search.View, error)
	SetFilters(ctx context.Context, userID string, industry, country, keywords []string, description string) (*search.View, error)
	SetRange(ctx context.Context, userID string, min, max int) (*search.View, error)
	ResetFilters(ctx context.Context, userID string) (*search.View, error)
	Select(ctx context.Context, userID string, ids []string) (*search.View, error)
	Focus(ctx context.Context, userID, companyID string) (*search.View, error)
	Export(ctx context.Context, userID string, w io.Writer) (string, error)
}

// SearchHandler handles search, filter and export HTTP requests
type SearchHandler struct {
	service SearchService
}

func NewSearchHandler(service SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Request DTOs

type SubmitSearchRequest struct {
	Query  string `json:"query" validate:"required,min=4"`
	Source string `json:"source" validate:"required,oneof=linkedin kompass europages"`
}

type ReplayRequest struct {
	HistoryID string `json:"historyId" validate:"required"`
}

type SetFiltersRequest struct {
	Industry    []string `json:"industry"`
	Country     []string `json:"country"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
}

type SetRangeRequest struct {
	Min int `json:"min" validate:"gte=0"`
	Max int `json:"max" validate:"gtefield=Min"`
}

type SelectRequest struct {
	IDs []string `json:"ids"`
}

type FocusRequest struct {
	CompanyID string `json:"companyId" validate:"required"`
}

type SourceResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// RegisterRoutes registers all search routes with the chi router
func (h *SearchHandler) RegisterRoutes(router chi.Router) {
	router.Route("/search", func(r chi.Router) {
		r.Get("/", h.View)
		r.Post("/", h.Submit)
		r.Post("/replay", h.Replay)
		r.Put("/filters", h.SetFilters)
		r.Delete("/filters", h.ResetFilters)
		r.Put("/range", h.SetRange)
		r.Put("/selection", h.Select)
		r.Put("/focus", h.Focus)
		r.Get("/export", h.Export)
	})
}

// Submit runs a new search against one source and replaces the result set.
func (h *SearchHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, email, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req SubmitSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		httpx.WriteBadRequest(w, err.Error())
		return
	}

	view, err := h.service.Search(r.Context(), userID, email, req.Query, models.Source(req.Source))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

// Replay restores a past search from the history ledger.
func (h *SearchHandler) Replay(w http.ResponseWriter, r *http.Request) {
	userID, email, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req ReplayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		httpx.WriteBadRequest(w, err.Error())
		return
	}

	view, err := h.service.Replay(r.Context(), userID, email, req.HistoryID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

// View renders the current result set with filters applied.
func (h *SearchHandler) View(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	view, err := h.service.View(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *SearchHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req SetFiltersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "invalid request body")
		return
	}

	view, err := h.service.SetFilters(r.Context(), userID, req.Industry, req.Country, req.Keywords, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *SearchHandler) SetRange(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req SetRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		httpx.WriteBadRequest(w, err.Error())
		return
	}

	view, err := h.service.SetRange(r.Context(), userID, req.Min, req.Max)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *SearchHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	view, err := h.service.ResetFilters(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *SearchHandler) Select(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "invalid request body")
		return
	}

	view, err := h.service.Select(r.Context(), userID, req.IDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

// Focus toggles the detail panel company.
func (h *SearchHandler) Focus(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req FocusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		httpx.WriteBadRequest(w, err.Error())
		return
	}

	view, err := h.service.Focus(r.Context(), userID, req.CompanyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

// Export downloads the full unfiltered result set as CSV.
func (h *SearchHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	// Buffer the CSV so an export error still gets a clean JSON response.
	var buf bytes.Buffer
	filename, err := h.service.Export(r.Context(), userID, &buf)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ListSources enumerates the supported search sources.
func (h *SearchHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	sources := make([]SourceResponse, 0, len(models.AllSources))
	for _, src := range models.AllSources {
		sources = append(sources, SourceResponse{
			ID:          string(src),
			Description: models.SourceDescriptions[src],
		})
	}
	httpx.WriteJSON(w, http.StatusOK, sources)
}
