package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/pkg/httpx"
)

// UnlockService defines the interface for paid unlock business logic
type UnlockService interface {
	UnlockEmployees(ctx context.Context, userID, email string, companyIDs []string) (int, error)
	UnlockContact(ctx context.Context, userID, email, employeeID string) (*models.Employee, error)
}

// UnlockHandler handles employee and contact unlock HTTP requests
type UnlockHandler struct {
	service UnlockService
}

func NewUnlockHandler(service UnlockService) *UnlockHandler {
	return &UnlockHandler{service: service}
}

type UnlockEmployeesRequest struct {
	CompanyIDs []string `json:"companyIds" validate:"required,min=1,dive,required"`
}

type UnlockEmployeesResponse struct {
	Unlocked int `json:"unlocked"`
}

// RegisterRoutes registers all unlock routes with the chi router
func (h *UnlockHandler) RegisterRoutes(router chi.Router) {
	router.Route("/unlock", func(r chi.Router) {
		r.Post("/employees", h.UnlockEmployees)
		r.Post("/contact/{employeeID}", h.UnlockContact)
	})
}

// UnlockEmployees fetches employee lists for the selected companies.
// Companies already unlocked are skipped and not charged again.
func (h *UnlockHandler) UnlockEmployees(w http.ResponseWriter, r *http.Request) {
	userID, email, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req UnlockEmployeesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		httpx.WriteBadRequest(w, err.Error())
		return
	}

	n, err := h.service.UnlockEmployees(r.Context(), userID, email, req.CompanyIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, UnlockEmployeesResponse{Unlocked: n})
}

// UnlockContact fetches the full contact sheet for one employee.
func (h *UnlockHandler) UnlockContact(w http.ResponseWriter, r *http.Request) {
	userID, email, ok := requireUser(w, r)
	if !ok {
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		httpx.WriteBadRequest(w, "employee id is required")
		return
	}

	employee, err := h.service.UnlockContact(r.Context(), userID, email, employeeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, employee)
}
