package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/atinyakov/subwaymap/internal/models"
)

// SessionAPI calls the authentication endpoints.
type SessionAPI struct {
	Transport Requester
}

// Login exchanges email and password for a bearer token. Only 200 succeeds.
// The identity is the email passed in, not one read back from the body.
func (a *SessionAPI) Login(ctx context.Context, endpoint, email, password string) (models.Credentials, error) {
	const op = "login"
	resp, err := a.Transport.Do(ctx, http.MethodPost, joinURL(endpoint, "/login/token"),
		models.LoginRequest{Email: email, Password: password}, "")
	if err != nil {
		return models.Credentials{}, &TransportFault{Op: op, Err: err}
	}
	if resp.Status != http.StatusOK {
		return models.Credentials{}, rejection(resp.Status, resp.Body)
	}

	var body models.TokenResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return models.Credentials{}, &TransportFault{Op: op, Err: fmt.Errorf("decode body: %w", err)}
	}
	if body.AccessToken == "" {
		return models.Credentials{}, &TransportFault{Op: op, Err: errors.New("response has no access token")}
	}
	return models.Credentials{Email: email, AccessToken: body.AccessToken}, nil
}

// ResumeByToken looks up the member owning token. Only a 200 naming the member
// succeeds and the token is echoed back unchanged.
func (a *SessionAPI) ResumeByToken(ctx context.Context, endpoint, token string) (models.Credentials, error) {
	const op = "resume session"
	resp, err := a.Transport.Do(ctx, http.MethodGet, joinURL(endpoint, "/members/me"), nil, token)
	if err != nil {
		return models.Credentials{}, &TransportFault{Op: op, Err: err}
	}
	if resp.Status != http.StatusOK {
		return models.Credentials{}, rejection(resp.Status, resp.Body)
	}

	var body models.MemberResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return models.Credentials{}, &TransportFault{Op: op, Err: fmt.Errorf("decode body: %w", err)}
	}
	if body.Email == "" {
		return models.Credentials{}, &TransportFault{Op: op, Err: errors.New("response has no email")}
	}
	return models.Credentials{Email: body.Email, AccessToken: token}, nil
}
