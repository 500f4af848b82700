package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Search/unlock state errors
	ErrNoSearch        = errors.New("no search results loaded")
	ErrQueryTooShort   = errors.New("query must be at least 4 characters")
	ErrInvalidSource   = errors.New("unknown data source")
	ErrStaleSearch     = errors.New("search superseded by a newer one")
	ErrAlreadyUnlocked = errors.New("already unlocked")
	ErrUnlockPending   = errors.New("unlock already in progress")
	ErrPartialContact  = errors.New("contact data is incomplete")
)
