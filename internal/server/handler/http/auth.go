// Package http provides the HTTP handlers of the subway service: member
// registration, token login, and the line and station endpoints.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atinyakov/subwaymap/internal/middleware"
	"github.com/atinyakov/subwaymap/internal/models"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a member and returns its id.
	Register(ctx context.Context, email, password string) (int64, error)
	// Login verifies the credentials and returns a fresh access token.
	Login(ctx context.Context, email, password string) (string, error)
	// Member returns the member registered under email.
	Member(ctx context.Context, email string) (*models.Member, error)
}

// AuthHandler handles HTTP requests for member registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// Register handles POST /members.
// It expects a JSON body with "email" and "password" and answers 201 with
// the new member.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	id, err := h.AuthService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.MemberResponse{ID: id, Email: req.Email})
}

// Login handles POST /login/token and returns {"accessToken": ...}.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.TokenResponse{AccessToken: token})
}

// Me handles GET /members/me for the member authenticated by BearerAuth.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserIDFromContext(r.Context())
	if email == "" {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	m, err := h.AuthService.Member(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.MemberResponse{ID: m.ID, Email: m.Email})
}
