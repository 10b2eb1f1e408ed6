package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskflow/internal/apperrors"
	"taskflow/internal/clock"
	"taskflow/internal/models"
	"taskflow/internal/repositories"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "taskflow"

var ErrInvalidSession = errors.New("invalid session")

type SessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type SessionService interface {
	Issue(ctx context.Context, userID uuid.UUID) (string, time.Time, error)
	Resolve(ctx context.Context, token string) (*models.User, error)
	Revoke(ctx context.Context, token string) error
}

// SessionServiceImpl signs a short claim set pointing at a session row.
// The row is the source of truth, so logout takes effect immediately.
type SessionServiceImpl struct {
	sessions repositories.SessionRepository
	users    repositories.UserRepository
	clock    clock.Clock
	secret   []byte
	ttl      time.Duration
}

func NewSessionService(sessions repositories.SessionRepository, users repositories.UserRepository, clk clock.Clock, secret string, ttl time.Duration) *SessionServiceImpl {
	return &SessionServiceImpl{
		sessions: sessions,
		users:    users,
		clock:    clk,
		secret:   []byte(secret),
		ttl:      ttl,
	}
}

func (s *SessionServiceImpl) Issue(ctx context.Context, userID uuid.UUID) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)

	session := &models.Session{UserID: userID, ExpiresAt: expiresAt, CreatedAt: now.UTC()}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("create session: %w", err)
	}

	claims := SessionClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID.String(),
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *SessionServiceImpl) parse(token string) (*SessionClaims, uuid.UUID, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	sessionID, err := uuid.FromString(claims.ID)
	if err != nil {
		return nil, uuid.Nil, ErrInvalidSession
	}
	return claims, sessionID, nil
}

// Resolve returns the signed-in user for token, or ErrInvalidSession.
func (s *SessionServiceImpl) Resolve(ctx context.Context, token string) (*models.User, error) {
	claims, sessionID, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.FindActive(ctx, sessionID, s.clock.Now())
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}
	if session.UserID.String() != claims.UserID {
		return nil, ErrInvalidSession
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, ErrInvalidSession
	}
	return user, err
}

func (s *SessionServiceImpl) Revoke(ctx context.Context, token string) error {
	_, sessionID, err := s.parse(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}
