package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/pkg/httpx"
)

// UserService defines the interface for user profile business logic
type UserService interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, update *models.UserUpdate) (*models.User, error)
}

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// UpdateUserRequest is a partial update; absent fields keep their stored
// values.
type UpdateUserRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Job          *string `json:"job"`
	Company      *string `json:"company"`
	Product      *string `json:"product"`
	Description  *string `json:"description"`
	SellingPoint *string `json:"sellingPoint"`
}

type UserResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Image        string `json:"image,omitempty"`
	Job          string `json:"job"`
	Company      string `json:"company"`
	Product      string `json:"product"`
	Description  string `json:"description"`
	SellingPoint string `json:"sellingPoint"`
}

func userModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Image:        user.Image,
		Job:          user.Job,
		Company:      user.Company,
		Product:      user.Product,
		Description:  user.Description,
		SellingPoint: user.SellingPoint,
	}
}

// RegisterRoutes registers all user routes with the chi router
func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Route("/users", func(r chi.Router) {
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
	})
}

// GetUser retrieves a user profile. Users can only read their own profile.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	authID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "id")
	if userID != authID {
		httpx.WriteForbidden(w, "you cannot access this resource")
		return
	}

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

// UpdateUser applies a partial profile update. Users can only update their
// own profile.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	authID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "id")
	if userID != authID {
		httpx.WriteForbidden(w, "you cannot access this resource")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		httpx.WriteBadRequest(w, err.Error())
		return
	}

	update := &models.UserUpdate{
		Name:         req.Name,
		Email:        req.Email,
		Job:          req.Job,
		Company:      req.Company,
		Product:      req.Product,
		Description:  req.Description,
		SellingPoint: req.SellingPoint,
	}

	user, err := h.service.Update(r.Context(), userID, update)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}
