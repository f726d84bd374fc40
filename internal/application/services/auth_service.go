package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/pkg/auth"
	"github.com/threaddit/backend/pkg/errors"
	"github.com/threaddit/backend/pkg/logger"
)

// AuthService handles session issuance, validation and revocation
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	signer   *auth.Signer
	now      func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(users ports.UserRepository, sessions ports.SessionRepository, signer *auth.Signer) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		signer:   signer,
		now:      time.Now,
	}
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// Login issues a token for an already-authenticated user and persists its session
func (s *AuthService) Login(ctx context.Context, user *models.User, ip, userAgent string) (*LoginResult, error) {
	token, claims, err := s.signer.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	session := &models.Session{
		ID:           claims.ID,
		UserID:       user.ID,
		ExpiresAt:    claims.ExpiresAt.Time,
		IPAddress:    ip,
		UserAgent:    truncate(userAgent, 512),
		LastActivity: s.now(),
	}
	if err := s.sessions.InsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	logger.For(ctx).WithFields(logrus.Fields{"user_id": user.ID, "session_id": session.ID}).Info("🔑 User logged in")

	return &LoginResult{Token: token, SessionID: session.ID, ExpiresAt: session.ExpiresAt}, nil
}

// ValidateSession checks the token signature and its session row, and loads the user
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.User, string, error) {
	claims, err := s.signer.ValidateToken(token)
	if err != nil {
		return nil, "", errors.NewUnauthorizedError("Invalid session token")
	}

	session, err := s.sessions.GetSession(ctx, claims.ID)
	if err != nil {
		return nil, "", fmt.Errorf("database error: %w", err)
	}
	if session == nil {
		return nil, "", errors.NewUnauthorizedError("Session not found")
	}
	if session.IsRevoked {
		return nil, "", errors.NewUnauthorizedError("Session has been revoked")
	}
	if !session.ExpiresAt.After(s.now()) {
		return nil, "", errors.NewUnauthorizedError("Session has expired")
	}
	if session.UserID != claims.UserID {
		return nil, "", errors.NewUnauthorizedError("Session does not match token")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("database error: %w", err)
	}
	if user == nil {
		return nil, "", errors.NewUnauthorizedError("User no longer exists")
	}
	return user, session.ID, nil
}

// TouchSession updates the last activity timestamp for a session
func (s *AuthService) TouchSession(sessionID string) {
	// Fire and forget - errors are acceptable for non-critical activity timestamps
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.sessions.UpdateLastActivity(ctx, sessionID); err != nil {
			logger.Default().WithError(err).Debug("session touch failed")
		}
	}()
}

// Logout revokes a session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.RevokeSession(ctx, sessionID); err != nil {
		return err
	}
	logger.For(ctx).WithField("session_id", sessionID).Info("👋 User logged out")
	return nil
}

// RevokeAll revokes every session of a user
func (s *AuthService) RevokeAll(ctx context.Context, userID uint) error {
	return s.sessions.RevokeUserSessions(ctx, userID)
}

// PurgeExpired deletes expired and revoked sessions
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.PurgeExpired(ctx, s.now())
}

// SessionTTL is how long an issued session stays valid
func (s *AuthService) SessionTTL() time.Duration {
	return s.signer.TTL()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
