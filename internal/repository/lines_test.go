package repository

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/atinyakov/subwaymap/internal/models"
)

func setupLinesMock(t *testing.T) (*PostgresLineRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	return NewPostgresLineRepository(db), mock, func() { db.Close() }
}

var lineColumns = []string{"id", "name", "color", "distance", "up_id", "up_name", "down_id", "down_name"}

func TestListLines(t *testing.T) {
	repo, mock, cleanup := setupLinesMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM lines l`)).
		WillReturnRows(sqlmock.NewRows(lineColumns).
			AddRow(int64(1), "1호선", "blue", 5, int64(1), "a", int64(2), "b").
			AddRow(int64(2), "2호선", "green", 10, int64(2), "b", int64(3), "c"))

	lines, err := repo.ListLines(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []models.Line{
		{ID: 1, Name: "1호선", Color: "blue", Distance: 5, StartStation: models.Station{ID: 1, Name: "a"}, EndStation: models.Station{ID: 2, Name: "b"}},
		{ID: 2, Name: "2호선", Color: "green", Distance: 10, StartStation: models.Station{ID: 2, Name: "b"}, EndStation: models.Station{ID: 3, Name: "c"}},
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %+v; want %+v", lines, want)
	}
}

func TestListLines_Empty(t *testing.T) {
	repo, mock, cleanup := setupLinesMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM lines l`)).WillReturnRows(sqlmock.NewRows(lineColumns))

	lines, err := repo.ListLines(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines == nil || len(lines) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", lines)
	}
}

func TestListLines_QueryError(t *testing.T) {
	repo, mock, cleanup := setupLinesMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM lines l`)).WillReturnError(errors.New("db down"))

	_, err := repo.ListLines(context.Background())
	if err == nil || !regexp.MustCompile(`ListLines`).MatchString(err.Error()) {
		t.Errorf("expected ListLines error, got %v", err)
	}
}

func TestListLines_ScanError(t *testing.T) {
	repo, mock, cleanup := setupLinesMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM lines l`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	_, err := repo.ListLines(context.Background())
	if err == nil || !regexp.MustCompile(`scan`).MatchString(err.Error()) {
		t.Errorf("expected scan error, got %v", err)
	}
}

func TestCreateLine(t *testing.T) {
	repo, mock, cleanup := setupLinesMock(t)
	defer cleanup()

	l := models.Line{Name: "2호선", Color: "green", Distance: 10, StartStation: models.Station{ID: 1}, EndStation: models.Station{ID: 2}}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO lines`)).
		WithArgs("2호선", "green", 10, int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	id, err := repo.CreateLine(context.Background(), l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 5 {
		t.Errorf("id = %d; want 5", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateLine_Duplicate(t *testing.T) {
	repo, mock, cleanup := setupLinesMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO lines`)).WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.CreateLine(context.Background(), models.Line{Name: "2호선"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestDeleteLine(t *testing.T) {
	cases := []struct {
		name     string
		affected int64
		execErr  error
		want     error
	}{
		{"deleted", 1, nil, nil},
		{"missing", 0, nil, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, cleanup := setupLinesMock(t)
			defer cleanup()

			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM lines WHERE id = $1`)).
				WithArgs(int64(4)).
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			err := repo.DeleteLine(context.Background(), 4)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v; want %v", err, tc.want)
			}
		})
	}
}

func TestDeleteLine_ExecError(t *testing.T) {
	repo, mock, cleanup := setupLinesMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM lines`)).WillReturnError(errors.New("boom"))

	err := repo.DeleteLine(context.Background(), 4)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected exec error, got %v", err)
	}
}

func TestGetStation(t *testing.T) {
	repo, mock, cleanup := setupLinesMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM stations WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "강남"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM stations WHERE id = $1`)).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	s, err := repo.GetStation(context.Background(), 1)
	if err != nil || s.Name != "강남" {
		t.Errorf("GetStation(1) = %+v, %v", s, err)
	}
	if _, err := repo.GetStation(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetStation(9) err = %v; want ErrNotFound", err)
	}
}

func TestCreateAndListStations(t *testing.T) {
	repo, mock, cleanup := setupLinesMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO stations (name) VALUES ($1) RETURNING id`)).
		WithArgs("역삼").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO stations`)).
		WithArgs("역삼").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM stations ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "강남").AddRow(int64(2), "역삼"))

	id, err := repo.CreateStation(context.Background(), "역삼")
	if err != nil || id != 2 {
		t.Fatalf("CreateStation = %d, %v", id, err)
	}
	if _, err := repo.CreateStation(context.Background(), "역삼"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
	stations, err := repo.ListStations(context.Background())
	if err != nil {
		t.Fatalf("ListStations: %v", err)
	}
	if len(stations) != 2 || stations[1].Name != "역삼" {
		t.Errorf("unexpected stations %+v", stations)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
