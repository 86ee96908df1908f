package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/subwaymap/internal/models"
	"github.com/atinyakov/subwaymap/internal/repository"
)

// LineRepository defines the persistence operations needed by the LineService.
type LineRepository interface {
	ListLines(ctx context.Context) ([]models.Line, error)
	CreateLine(ctx context.Context, l models.Line) (int64, error)
	DeleteLine(ctx context.Context, id int64) error
	GetStation(ctx context.Context, id int64) (*models.Station, error)
	CreateStation(ctx context.Context, name string) (int64, error)
	ListStations(ctx context.Context) ([]models.Station, error)
}

// LineService implements station and line business logic.
type LineService struct {
	repo LineRepository
}

// NewLineService constructs a LineService with the provided LineRepository.
func NewLineService(repo LineRepository) *LineService {
	return &LineService{repo: repo}
}

// List returns all lines in server order.
func (s *LineService) List(ctx context.Context) ([]models.Line, error) {
	return s.repo.ListLines(ctx)
}

// Create validates req, stores the line and returns it with its terminal
// stations.
func (s *LineService) Create(ctx context.Context, req models.CreateLineRequest) (models.LineResponse, error) {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return models.LineResponse{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	case req.Distance <= 0:
		return models.LineResponse{}, fmt.Errorf("%w: distance must be positive", ErrInvalidInput)
	case req.UpStationID == req.DownStationID:
		return models.LineResponse{}, fmt.Errorf("%w: up and down stations must differ", ErrInvalidInput)
	}

	up, err := s.station(ctx, req.UpStationID)
	if err != nil {
		return models.LineResponse{}, err
	}
	down, err := s.station(ctx, req.DownStationID)
	if err != nil {
		return models.LineResponse{}, err
	}

	line := models.Line{
		Name:         name,
		Color:        req.Color,
		Distance:     req.Distance,
		StartStation: *up,
		EndStation:   *down,
	}
	id, err := s.repo.CreateLine(ctx, line)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.LineResponse{}, fmt.Errorf("%w: line %s", ErrConflict, name)
	}
	if err != nil {
		return models.LineResponse{}, err
	}
	line.ID = id

	return models.LineResponse{Line: line, Stations: []models.Station{*up, *down}}, nil
}

// Delete removes line id.
func (s *LineService) Delete(ctx context.Context, id int64) error {
	err := s.repo.DeleteLine(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: line %d", ErrNotFound, id)
	}
	return err
}

// CreateStation stores a station with a unique name.
func (s *LineService) CreateStation(ctx context.Context, name string) (models.Station, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Station{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	id, err := s.repo.CreateStation(ctx, name)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Station{}, fmt.Errorf("%w: station %s", ErrConflict, name)
	}
	if err != nil {
		return models.Station{}, err
	}
	return models.Station{ID: id, Name: name}, nil
}

// Stations returns all stations.
func (s *LineService) Stations(ctx context.Context) ([]models.Station, error) {
	return s.repo.ListStations(ctx)
}

func (s *LineService) station(ctx context.Context, id int64) (*models.Station, error) {
	st, err := s.repo.GetStation(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: station %d does not exist", ErrInvalidInput, id)
	}
	return st, err
}
