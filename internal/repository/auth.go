// Package repository provides PostgreSQL persistence for members, tokens,
// stations and lines.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/subwaymap/internal/models"
)

// PostgresAuthRepository implements member and token persistence using a PostgreSQL database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// CreateMember inserts a member and returns its id.
// A taken email yields ErrDuplicate.
func (r *PostgresAuthRepository) CreateMember(ctx context.Context, email string, passwordHash []byte) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO members (email, password_hash) VALUES ($1, $2) RETURNING id`,
		email, passwordHash,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, fmt.Errorf("CreateMember: %w", err)
	}
	return id, nil
}

// GetMemberByEmail fetches a member by email.
// It returns ErrNotFound if no member has that email.
func (r *PostgresAuthRepository) GetMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	var m models.Member
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash FROM members WHERE email = $1`,
		email,
	).Scan(&m.ID, &m.Email, &m.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetMemberByEmail: %w", err)
	}
	return &m, nil
}

// SaveToken stores an access token for email valid until expiresAt.
func (r *PostgresAuthRepository) SaveToken(ctx context.Context, token, email string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO tokens (token, member_email, expires_at) VALUES ($1, $2, $3)`,
		token, email, expiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("SaveToken: %w", err)
	}
	return nil
}

// EmailByToken returns the email owning token if it has not expired at now.
// It returns ErrNotFound for unknown or expired tokens.
func (r *PostgresAuthRepository) EmailByToken(ctx context.Context, token string, now time.Time) (string, error) {
	var email string
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT member_email FROM tokens WHERE token = $1 AND expires_at > $2`,
		token, now.Unix(),
	).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("EmailByToken: %w", err)
	}
	return email, nil
}
