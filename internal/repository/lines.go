package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/subwaymap/internal/models"
)

// PostgresLineRepository implements station and line persistence against a PostgreSQL database.
type PostgresLineRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresLineRepository creates a new PostgresLineRepository using the provided *sql.DB.
func NewPostgresLineRepository(db *sql.DB) *PostgresLineRepository {
	return &PostgresLineRepository{DB: db}
}

const listLinesQuery = `
	SELECT l.id, l.name, l.color, l.distance,
	       u.id, u.name, d.id, d.name
	  FROM lines l
	  JOIN stations u ON u.id = l.up_station_id
	  JOIN stations d ON d.id = l.down_station_id
	 ORDER BY l.id`

// ListLines returns every line with its terminal stations, oldest first.
func (r *PostgresLineRepository) ListLines(ctx context.Context) ([]models.Line, error) {
	rows, err := r.DB.QueryContext(ctx, listLinesQuery)
	if err != nil {
		return nil, fmt.Errorf("ListLines: %w", err)
	}
	defer rows.Close()

	lines := []models.Line{}
	for rows.Next() {
		var l models.Line
		if err := rows.Scan(
			&l.ID, &l.Name, &l.Color, &l.Distance,
			&l.StartStation.ID, &l.StartStation.Name,
			&l.EndStation.ID, &l.EndStation.Name,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListLines: %w", err)
	}
	return lines, nil
}

// CreateLine inserts l and returns the new id. Only the station ids of l are
// stored. A taken name yields ErrDuplicate.
func (r *PostgresLineRepository) CreateLine(ctx context.Context, l models.Line) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO lines (name, color, distance, up_station_id, down_station_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, l.Name, l.Color, l.Distance, l.StartStation.ID, l.EndStation.ID).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, fmt.Errorf("CreateLine: %w", err)
	}
	return id, nil
}

// DeleteLine removes line id. It returns ErrNotFound if nothing was deleted.
func (r *PostgresLineRepository) DeleteLine(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteLine: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteLine: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetStation fetches station id or returns ErrNotFound.
func (r *PostgresLineRepository) GetStation(ctx context.Context, id int64) (*models.Station, error) {
	var s models.Station
	err := r.DB.QueryRowContext(ctx, `SELECT id, name FROM stations WHERE id = $1`, id).Scan(&s.ID, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetStation: %w", err)
	}
	return &s, nil
}

// CreateStation inserts a station and returns its id. A taken name yields ErrDuplicate.
func (r *PostgresLineRepository) CreateStation(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `INSERT INTO stations (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, fmt.Errorf("CreateStation: %w", err)
	}
	return id, nil
}

// ListStations returns every station ordered by id.
func (r *PostgresLineRepository) ListStations(ctx context.Context) ([]models.Station, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM stations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListStations: %w", err)
	}
	defer rows.Close()

	stations := []models.Station{}
	for rows.Next() {
		var s models.Station
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListStations: %w", err)
	}
	return stations, nil
}
