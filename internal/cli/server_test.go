package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/atinyakov/subwaymap/internal/models"
)

const (
	testEmail    = "a@b.com"
	testPassword = "pw"
	testToken    = "tok"
)

// fakeServer is an in-memory rendition of the lines service.
type fakeServer struct {
	mu       sync.Mutex
	nextID   int64
	lines    []models.Line
	stations map[int64]models.Station
}

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	fs := &fakeServer{
		nextID:   1,
		stations: map[int64]models.Station{1: {ID: 1, Name: "Gangnam"}, 2: {ID: 2, Name: "Yeoksam"}},
	}
	srv := httptest.NewServer(fs)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (fs *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if r.Method == http.MethodPost && r.URL.Path == "/login/token" {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != testEmail || req.Password != testPassword {
			writeJSON(w, http.StatusUnauthorized, models.ErrorBody{Message: "invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, models.TokenResponse{AccessToken: testToken})
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+testToken {
		writeJSON(w, http.StatusUnauthorized, models.ErrorBody{Message: "invalid token"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/members/me":
		writeJSON(w, http.StatusOK, models.MemberResponse{ID: 1, Email: testEmail})
	case r.Method == http.MethodGet && r.URL.Path == "/lines":
		writeJSON(w, http.StatusOK, fs.lines)
	case r.Method == http.MethodPost && r.URL.Path == "/lines":
		var req models.CreateLineRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		up, okUp := fs.stations[req.UpStationID]
		down, okDown := fs.stations[req.DownStationID]
		if !okUp || !okDown || req.Distance <= 0 {
			writeJSON(w, http.StatusBadRequest, models.ErrorBody{Message: "invalid input"})
			return
		}
		l := models.Line{ID: fs.nextID, Name: req.Name, StartStation: up, EndStation: down, Distance: req.Distance, Color: req.Color}
		fs.nextID++
		fs.lines = append(fs.lines, l)
		writeJSON(w, http.StatusCreated, models.LineResponse{Line: l, Stations: []models.Station{up, down}})
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/lines/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/lines/"), 10, 64)
		for i, l := range fs.lines {
			if l.ID == id {
				fs.lines = append(fs.lines[:i], fs.lines[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, models.ErrorBody{Message: "not found"})
	default:
		http.NotFound(w, r)
	}
}
