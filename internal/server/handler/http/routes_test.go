package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/atinyakov/subwaymap/internal/models"
	"github.com/atinyakov/subwaymap/internal/service"
)

type staticResolver map[string]string

func (s staticResolver) Resolve(_ context.Context, token string) (string, error) {
	if email, ok := s[token]; ok {
		return email, nil
	}
	return "", service.ErrUnauthorized
}

func newTestRouter(metrics http.Handler) http.Handler {
	auth := &AuthHandler{AuthService: &fakeAuthService{
		registerID: 1,
		token:      "tok",
		member:     &models.Member{ID: 1, Email: "a@b.com"},
	}}
	lines := &LineHandler{LineService: &fakeLineService{}}
	return NewRouter(auth, lines, staticResolver{"tok": "a@b.com"}, zap.NewNop(), metrics)
}

func TestNewRouter_Routes(t *testing.T) {
	router := newTestRouter(nil)

	tests := []struct {
		name         string
		method       string
		path         string
		body         string
		token        string
		expectedCode int
	}{
		{"register is public", http.MethodPost, "/members", `{"email":"a@b.com","password":"x"}`, "", http.StatusCreated},
		{"login is public", http.MethodPost, "/login/token", `{"email":"a@b.com","password":"x"}`, "", http.StatusOK},
		{"me requires token", http.MethodGet, "/members/me", "", "", http.StatusUnauthorized},
		{"me with bad token", http.MethodGet, "/members/me", "", "nope", http.StatusUnauthorized},
		{"me with token", http.MethodGet, "/members/me", "", "tok", http.StatusOK},
		{"lines requires token", http.MethodGet, "/lines", "", "", http.StatusUnauthorized},
		{"lines with token", http.MethodGet, "/lines", "", "tok", http.StatusOK},
		{"delete line", http.MethodDelete, "/lines/3", "", "tok", http.StatusNoContent},
		{"stations with token", http.MethodGet, "/stations", "", "tok", http.StatusOK},
		{"metrics disabled", http.MethodGet, "/metrics", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *bytes.Buffer
			if tt.body != "" {
				body = bytes.NewBufferString(tt.body)
			} else {
				body = &bytes.Buffer{}
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.expectedCode {
				t.Errorf("%s %s: expected %d, got %d (%s)", tt.method, tt.path, tt.expectedCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestNewRouter_RejectsNonJSONBody(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodPost, "/login/token", bytes.NewBufferString("email=a"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", rec.Code)
	}
}

func TestNewRouter_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	rec := httptest.NewRecorder()

	newTestRouter(metrics).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("metrics: %d %q", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_ExtraMiddleware(t *testing.T) {
	var seen []string
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = append(seen, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
	auth := &AuthHandler{AuthService: &fakeAuthService{token: "tok"}}
	router := NewRouter(auth, &LineHandler{LineService: &fakeLineService{}}, staticResolver{}, zap.NewNop(), nil, mw)

	req := httptest.NewRequest(http.MethodPost, "/login/token", bytes.NewBufferString(`{"email":"a@b.com","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	if len(seen) != 1 || seen[0] != "/login/token" {
		t.Errorf("middleware saw %v", seen)
	}
}
