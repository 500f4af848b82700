package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/pkg/httpx"
)

// MailService defines the interface for outreach mail business logic
type MailService interface {
	Draft(ctx context.Context, fields map[string]string) (*models.MailDraft, error)
	Send(ctx context.Context, mail models.Mail) error
}

// MailHandler handles mail drafting and sending HTTP requests
type MailHandler struct {
	service MailService
}

func NewMailHandler(service MailService) *MailHandler {
	return &MailHandler{service: service}
}

// DraftMailRequest carries the prompt fields for AI drafting. Profile fields
// describe the sender, target fields describe the prospect.
type DraftMailRequest struct {
	Job           string `json:"job"`
	Company       string `json:"company"`
	Product       string `json:"product"`
	Description   string `json:"description"`
	SellingPoint  string `json:"sellingPoint"`
	TargetCompany string `json:"targetCompany"`
	TargetPerson  string `json:"targetPerson"`
	Language      string `json:"language"`
}

type SendMailRequest struct {
	Mails   []string `json:"mails" validate:"required,min=1,dive,email"`
	Subject string   `json:"subject" validate:"required,min=1"`
	Message string   `json:"message" validate:"required,min=1"`
}

// RegisterRoutes registers all mail routes with the chi router
func (h *MailHandler) RegisterRoutes(router chi.Router) {
	router.Route("/mail", func(r chi.Router) {
		r.Post("/draft", h.Draft)
		r.Post("/send", h.Send)
	})
}

// Draft generates an email body from the sender profile and target fields.
func (h *MailHandler) Draft(w http.ResponseWriter, r *http.Request) {
	_, email, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req DraftMailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "invalid request body")
		return
	}

	fields := map[string]string{
		"user":          email,
		"job":           req.Job,
		"company":       req.Company,
		"product":       req.Product,
		"description":   req.Description,
		"sellingPoint":  req.SellingPoint,
		"targetCompany": req.TargetCompany,
		"targetPerson":  req.TargetPerson,
		"language":      req.Language,
	}

	draft, err := h.service.Draft(r.Context(), fields)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, draft)
}

// Send delivers the finished message to the selected contacts.
func (h *MailHandler) Send(w http.ResponseWriter, r *http.Request) {
	_, email, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req SendMailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		httpx.WriteBadRequest(w, err.Error())
		return
	}

	mail := models.Mail{
		User:    email,
		Mails:   req.Mails,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.service.Send(r.Context(), mail); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
