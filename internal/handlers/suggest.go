package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prospectlab/prospect/internal/gateway"
	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/pkg/httpx"
)

// SuggestService defines the interface for AI extraction business logic
type SuggestService interface {
	KeywordsFromURL(ctx context.Context, user, url string) ([]string, error)
	KeywordsFromFiles(ctx context.Context, user string, files []gateway.File) ([]string, error)
	ProfileFromURL(ctx context.Context, user, url string) (*models.ProfileSuggest, error)
	ProfileFromFiles(ctx context.Context, user string, files []gateway.File) (*models.ProfileSuggest, error)
}

// SuggestHandler handles keyword and profile extraction HTTP requests
type SuggestHandler struct {
	service SuggestService
}

func NewSuggestHandler(service SuggestService) *SuggestHandler {
	return &SuggestHandler{service: service}
}

const (
	maxUploadBytes = 32 << 20
	maxUploadFiles = 10
)

type SuggestURLRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type KeywordsResponse struct {
	Keywords []string `json:"keywords"`
}

// RegisterRoutes registers all suggestion routes with the chi router
func (h *SuggestHandler) RegisterRoutes(router chi.Router) {
	router.Route("/suggest", func(r chi.Router) {
		r.Post("/keywords/url", h.KeywordsFromURL)
		r.Post("/keywords/files", h.KeywordsFromFiles)
		r.Post("/profile/url", h.ProfileFromURL)
		r.Post("/profile/files", h.ProfileFromFiles)
	})
}

func (h *SuggestHandler) KeywordsFromURL(w http.ResponseWriter, r *http.Request) {
	_, email, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req SuggestURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		httpx.WriteBadRequest(w, err.Error())
		return
	}

	keywords, err := h.service.KeywordsFromURL(r.Context(), email, req.URL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, KeywordsResponse{Keywords: keywords})
}

func (h *SuggestHandler) KeywordsFromFiles(w http.ResponseWriter, r *http.Request) {
	_, email, ok := requireUser(w, r)
	if !ok {
		return
	}

	files, cleanup, ok := h.uploadedFiles(w, r)
	if !ok {
		return
	}
	defer cleanup()

	keywords, err := h.service.KeywordsFromFiles(r.Context(), email, files)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, KeywordsResponse{Keywords: keywords})
}

func (h *SuggestHandler) ProfileFromURL(w http.ResponseWriter, r *http.Request) {
	_, email, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req SuggestURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		httpx.WriteBadRequest(w, err.Error())
		return
	}

	profile, err := h.service.ProfileFromURL(r.Context(), email, req.URL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profile)
}

func (h *SuggestHandler) ProfileFromFiles(w http.ResponseWriter, r *http.Request) {
	_, email, ok := requireUser(w, r)
	if !ok {
		return
	}

	files, cleanup, ok := h.uploadedFiles(w, r)
	if !ok {
		return
	}
	defer cleanup()

	profile, err := h.service.ProfileFromFiles(r.Context(), email, files)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profile)
}

// uploadedFiles parses the multipart "files" field. The cleanup func closes
// every opened part and must be deferred by the caller.
func (h *SuggestHandler) uploadedFiles(w http.ResponseWriter, r *http.Request) ([]gateway.File, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.WriteBadRequest(w, "invalid multipart body")
		return nil, nil, false
	}

	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		httpx.WriteBadRequest(w, "at least one file is required")
		return nil, nil, false
	}
	if len(parts) > maxUploadFiles {
		httpx.WriteBadRequest(w, "too many files")
		return nil, nil, false
	}

	files := make([]gateway.File, 0, len(parts))
	var opened []interface{ Close() error }
	cleanup := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, part := range parts {
		f, err := part.Open()
		if err != nil {
			cleanup()
			httpx.WriteBadRequest(w, "unreadable file upload")
			return nil, nil, false
		}
		opened = append(opened, f)
		files = append(files, gateway.File{Name: part.Filename, Reader: f})
	}

	return files, cleanup, true
}
