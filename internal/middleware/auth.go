package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prospectlab/prospect/pkg/httpx"
)

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	userEmailKey contextKey = "user_email"
)

// SessionCookieName is the cookie set by the auth provider frontend.
const SessionCookieName = "session_token"

// SessionClaims are the claims the auth provider signs into the session
// token. Subject carries the user id.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticate verifies the session token issued by the auth provider and
// puts the caller's identity on the request context. Tokens are accepted
// from the Authorization header or the session cookie.
func Authenticate(sessionSecret string, logger *slog.Logger) func(http.Handler) http.Handler {
	secret := []byte(sessionSecret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				httpx.WriteUnauthorized(w, "missing session token")
				return
			}

			claims := &SessionClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				logger.Warn("rejected session token", slog.Any("error", err))
				httpx.WriteUnauthorized(w, "invalid session token")
				return
			}
			if claims.Subject == "" || claims.Email == "" {
				httpx.WriteUnauthorized(w, "invalid session token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			ctx = context.WithValue(ctx, userEmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return token
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// UserFromContext returns the authenticated user's id and email.
func UserFromContext(ctx context.Context) (id, email string, ok bool) {
	id, ok = ctx.Value(userIDKey).(string)
	if !ok {
		return "", "", false
	}
	email, ok = ctx.Value(userEmailKey).(string)
	if !ok {
		return "", "", false
	}
	return id, email, true
}

// WithUser injects an identity into the context. Intended for tests and
// internal callers.
func WithUser(ctx context.Context, id, email string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id)
	return context.WithValue(ctx, userEmailKey, email)
}
