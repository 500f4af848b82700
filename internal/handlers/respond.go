package handlers

import (
	"errors"
	"net/http"

	"github.com/prospectlab/prospect/internal/middleware"
	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/pkg/httpx"
)

// writeServiceError maps the service sentinel errors onto the JSON error
// envelope.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrQueryTooShort):
		httpx.WriteBadRequest(w, "query must be at least 4 characters")
	case errors.Is(err, models.ErrInvalidSource):
		httpx.WriteBadRequest(w, "unknown search source")
	case errors.Is(err, models.ErrBadRequest):
		httpx.WriteBadRequest(w, "invalid request")
	case errors.Is(err, models.ErrNotFound):
		httpx.WriteNotFound(w, "resource not found")
	case errors.Is(err, models.ErrStaleSearch):
		httpx.WriteConflict(w, "search superseded by a newer submission")
	case errors.Is(err, models.ErrNoSearch):
		httpx.WriteConflict(w, "no search result loaded")
	case errors.Is(err, models.ErrUnlockPending):
		httpx.WriteConflict(w, "unlock already in progress")
	case errors.Is(err, models.ErrAlreadyUnlocked):
		httpx.WriteConflict(w, "already unlocked")
	case errors.Is(err, models.ErrConflict):
		httpx.WriteConflict(w, "conflict")
	case errors.Is(err, models.ErrPartialContact):
		httpx.WriteBadGateway(w, "contact data incomplete, not charged")
	case errors.Is(err, models.ErrUnauthorized):
		httpx.WriteUnauthorized(w, "unauthorized")
	case errors.Is(err, models.ErrForbidden):
		httpx.WriteForbidden(w, "forbidden")
	default:
		httpx.WriteInternalError(w, "internal server error")
	}
}

// requireUser pulls the authenticated identity off the context, answering
// 401 itself when the middleware did not run.
func requireUser(w http.ResponseWriter, r *http.Request) (id, email string, ok bool) {
	id, email, ok = middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteUnauthorized(w, "authentication required")
	}
	return id, email, ok
}
