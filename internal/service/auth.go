// Package service provides authentication and line management business
// logic, delegating persistence to repository interfaces.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/subwaymap/internal/models"
	"github.com/atinyakov/subwaymap/internal/repository"
)

// DefaultTokenTTL is how long an issued access token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// CreateMember stores a new member, returning repository.ErrDuplicate for a taken email.
	CreateMember(ctx context.Context, email string, passwordHash []byte) (int64, error)
	// GetMemberByEmail returns repository.ErrNotFound for an unknown email.
	GetMemberByEmail(ctx context.Context, email string) (*models.Member, error)
	// SaveToken stores an access token valid until expiresAt.
	SaveToken(ctx context.Context, token, email string, expiresAt time.Time) error
	// EmailByToken returns repository.ErrNotFound for unknown or expired tokens.
	EmailByToken(ctx context.Context, token string, now time.Time) (string, error)
}

// AuthService registers members, issues access tokens and resolves them.
type AuthService struct {
	// repo performs the data-layer operations.
	repo AuthRepository
	ttl  time.Duration
	now  func() time.Time
}

// NewAuthService constructs an AuthService issuing tokens valid for ttl.
// A non-positive ttl means DefaultTokenTTL.
func NewAuthService(repo AuthRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{repo: repo, ttl: ttl, now: time.Now}
}

// Register creates a member with a bcrypt hash of password.
func (s *AuthService) Register(ctx context.Context, email, password string) (int64, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return 0, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if password == "" {
		return 0, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.repo.CreateMember(ctx, email, hash)
	if errors.Is(err, repository.ErrDuplicate) {
		return 0, fmt.Errorf("%w: email %s", ErrConflict, email)
	}
	return id, err
}

// Login checks email and password and issues a new access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	m, err := s.repo.GetMemberByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(m.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := s.repo.SaveToken(ctx, token, m.Email, s.now().Add(s.ttl)); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the email owning a live token.
func (s *AuthService) Resolve(ctx context.Context, token string) (string, error) {
	email, err := s.repo.EmailByToken(ctx, token, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrUnauthorized
	}
	return email, err
}

// Member returns the member registered under email.
func (s *AuthService) Member(ctx context.Context, email string) (*models.Member, error) {
	m, err := s.repo.GetMemberByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return m, err
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
