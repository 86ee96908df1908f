package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/subwaymap/internal/models"
)

// LineService defines the line and station operations
// required by the LineHandler.
type LineService interface {
	List(ctx context.Context) ([]models.Line, error)
	Create(ctx context.Context, req models.CreateLineRequest) (models.LineResponse, error)
	Delete(ctx context.Context, id int64) error
	CreateStation(ctx context.Context, name string) (models.Station, error)
	Stations(ctx context.Context) ([]models.Station, error)
}

// LineHandler handles HTTP requests for lines and stations.
type LineHandler struct {
	LineService LineService
}

// List handles GET /lines.
func (h *LineHandler) List(w http.ResponseWriter, r *http.Request) {
	lines, err := h.LineService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if lines == nil {
		lines = []models.Line{}
	}
	writeJSON(w, http.StatusOK, lines)
}

// Create handles POST /lines and answers 201 with the line and its
// terminal stations.
func (h *LineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	line, err := h.LineService.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/lines/%d", line.ID))
	writeJSON(w, http.StatusCreated, line)
}

// Delete handles DELETE /lines/{id} and answers 204 with no body.
func (h *LineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid line id")
		return
	}

	if err := h.LineService.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateStation handles POST /stations.
func (h *LineHandler) CreateStation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	st, err := h.LineService.CreateStation(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/stations/%d", st.ID))
	writeJSON(w, http.StatusCreated, st)
}

// Stations handles GET /stations.
func (h *LineHandler) Stations(w http.ResponseWriter, r *http.Request) {
	list, err := h.LineService.Stations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []models.Station{}
	}
	writeJSON(w, http.StatusOK, list)
}
