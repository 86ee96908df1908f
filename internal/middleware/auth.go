// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/subwaymap/internal/models"
	"github.com/atinyakov/subwaymap/internal/service"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenResolver maps a bearer token to the email of the member owning it.
// Unknown or expired tokens are reported as service.ErrUnauthorized.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// BearerAuth is a middleware that enforces bearer token authentication.
//
// It reads the token from the Authorization header, resolves it to a member
// email and stores the email in the request context so downstream handlers
// can use it as the authenticated user ID. Missing, malformed or unknown
// tokens are answered with 401 and a JSON message. Any other resolver
// failure is a 500.
func BearerAuth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			email, err := resolver.Resolve(r.Context(), token)
			switch {
			case errors.Is(err, service.ErrUnauthorized):
				writeMessage(w, http.StatusUnauthorized, "invalid token")
				return
			case err != nil:
				writeMessage(w, http.StatusInternalServerError, "internal error")
				return
			case email == "":
				writeMessage(w, http.StatusUnauthorized, "invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), userKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated member email from the
// request context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// WithUserID returns a copy of ctx carrying email as the authenticated user.
func WithUserID(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userKey, email)
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorBody{Message: msg})
}
