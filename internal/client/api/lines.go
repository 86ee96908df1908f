package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/atinyakov/subwaymap/internal/client/transport"
	"github.com/atinyakov/subwaymap/internal/models"
)

// Requester is the transport capability the calls are made through.
type Requester interface {
	Do(ctx context.Context, method, url string, body any, token string) (*transport.Response, error)
}

var errMissingStations = errors.New("response lists fewer than two stations")

// LinesAPI calls the /lines endpoints.
type LinesAPI struct {
	Transport Requester
}

// FetchAll returns the server's line list in server order. Only 200 succeeds.
func (a *LinesAPI) FetchAll(ctx context.Context, endpoint, token string) ([]models.Line, error) {
	const op = "fetch lines"
	resp, err := a.Transport.Do(ctx, http.MethodGet, joinURL(endpoint, "/lines"), nil, token)
	if err != nil {
		return nil, &TransportFault{Op: op, Err: err}
	}
	if resp.Status != http.StatusOK {
		return nil, rejection(resp.Status, resp.Body)
	}

	lines := []models.Line{}
	if err := json.Unmarshal(resp.Body, &lines); err != nil {
		return nil, &TransportFault{Op: op, Err: fmt.Errorf("decode body: %w", err)}
	}
	return lines, nil
}

// Create submits a new line. Only 201 succeeds; the returned Line takes its id
// and terminal stations from the response and everything else from req.
func (a *LinesAPI) Create(ctx context.Context, endpoint, token string, req models.CreateLineRequest) (models.Line, error) {
	const op = "create line"
	resp, err := a.Transport.Do(ctx, http.MethodPost, joinURL(endpoint, "/lines"), req, token)
	if err != nil {
		return models.Line{}, &TransportFault{Op: op, Err: err}
	}
	if resp.Status != http.StatusCreated {
		return models.Line{}, rejection(resp.Status, resp.Body)
	}

	var body models.LineResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return models.Line{}, &TransportFault{Op: op, Err: fmt.Errorf("decode body: %w", err)}
	}
	if len(body.Stations) < 2 {
		return models.Line{}, &TransportFault{Op: op, Err: errMissingStations}
	}

	return models.Line{
		ID:           body.ID,
		StartStation: body.Stations[0],
		EndStation:   body.Stations[1],
		Name:         req.Name,
		Distance:     req.Distance,
		Color:        req.Color,
	}, nil
}

// Remove deletes line id. Only 204 succeeds and the removed id is returned.
func (a *LinesAPI) Remove(ctx context.Context, endpoint, token string, id int64) (int64, error) {
	resp, err := a.Transport.Do(ctx, http.MethodDelete, joinURL(endpoint, fmt.Sprintf("/lines/%d", id)), nil, token)
	if err != nil {
		return 0, &TransportFault{Op: "remove line", Err: err}
	}
	if resp.Status != http.StatusNoContent {
		return 0, rejection(resp.Status, resp.Body)
	}
	return id, nil
}

func joinURL(endpoint, path string) string {
	return strings.TrimRight(endpoint, "/") + path
}
