package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/pkg/httpx"
)

// HistoryService defines the interface for the search ledger
type HistoryService interface {
	List(ctx context.Context, userID, cursor string, limit int) (*models.HistoryPage, error)
	Delete(ctx context.Context, userID string, ids []string) (int64, error)
}

// HistoryHandler handles search history HTTP requests
type HistoryHandler struct {
	service HistoryService
}

func NewHistoryHandler(service HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

type DeleteHistoryRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type DeleteHistoryResponse struct {
	Deleted int64 `json:"deleted"`
}

// RegisterRoutes registers all history routes with the chi router
func (h *HistoryHandler) RegisterRoutes(router chi.Router) {
	router.Route("/history", func(r chi.Router) {
		r.Get("/", h.List)
		r.Delete("/", h.Delete)
	})
}

// List returns one page of past searches, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteBadRequest(w, "limit must be an integer")
			return
		}
		limit = parsed
	}
	cursor := r.URL.Query().Get("cursor")

	page, err := h.service.List(r.Context(), userID, cursor, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

// Delete removes entries from the ledger.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req DeleteHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		httpx.WriteBadRequest(w, err.Error())
		return
	}

	deleted, err := h.service.Delete(r.Context(), userID, req.IDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, DeleteHistoryResponse{Deleted: deleted})
}
