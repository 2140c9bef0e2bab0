package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/rl1809/savdo-pos/internal/core/domain"
	"github.com/rl1809/savdo-pos/internal/port"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

const sessionTTL = 24 * time.Hour

type sessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService authenticates users and keeps the in-memory session
// registry. Sessions live for the process lifetime only; a restart logs
// everyone out.
type AuthService struct {
	users  port.UserRepository
	secret []byte
	logger zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*domain.Principal
}

func NewAuthService(users port.UserRepository, secret []byte, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		secret:   secret,
		logger:   logger,
		sessions: make(map[string]*domain.Principal),
	}
}

// Login verifies credentials, resolves the principal's capability set and
// issues a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Principal, string, error) {
	rec, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if rec == nil || rec.Password != password {
		return nil, "", ErrInvalidCredentials
	}

	principal := domain.NewPrincipal(rec.ID, rec.Name, rec.Email, rec.Role, rec.StoreID, rec.StoreName, rec.Permissions)

	claims := &sessionClaims{
		Name:  rec.Name,
		Email: rec.Email,
		Role:  string(rec.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}

	s.mu.Lock()
	s.sessions[token] = principal
	s.mu.Unlock()

	s.logger.Info().Str("email", rec.Email).Str("role", string(rec.Role)).Msg("login")
	return principal, token, nil
}

// Session resolves a token to its principal, or nil for unknown tokens.
func (s *AuthService) Session(token string) *domain.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[token]
}

func (s *AuthService) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
