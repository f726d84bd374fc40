package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/pkg/auth"
	"github.com/threaddit/backend/pkg/errors"
)

func newAuthService() (*AuthService, *MockUserRepository, *MockSessionRepository) {
	users := new(MockUserRepository)
	sessions := new(MockSessionRepository)
	return NewAuthService(users, sessions, auth.NewSigner("test-secret", time.Hour)), users, sessions
}

func TestAuthService_LoginThenValidate(t *testing.T) {
	svc, users, sessions := newAuthService()
	ctx := context.Background()
	user := &models.User{ID: 7, Username: "alice"}

	var stored *models.Session
	sessions.On("InsertSession", mock.Anything, mock.AnythingOfType("*models.Session")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.Session) }).
		Return(nil)

	res, err := svc.Login(ctx, user, "127.0.0.1", "go-test")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, res.SessionID, stored.ID)
	assert.Equal(t, uint(7), stored.UserID)
	assert.Equal(t, "127.0.0.1", stored.IPAddress)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, 5*time.Second)

	sessions.On("GetSession", mock.Anything, res.SessionID).Return(stored, nil)
	users.On("GetByID", mock.Anything, uint(7)).Return(user, nil)

	got, sessionID, err := svc.ValidateSession(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user, got)
	assert.Equal(t, res.SessionID, sessionID)
}

func TestAuthService_ValidateSession_Rejections(t *testing.T) {
	signer := auth.NewSigner("test-secret", time.Hour)
	token, claims, err := signer.GenerateToken(7)
	require.NoError(t, err)

	tests := []struct {
		name    string
		session *models.Session
		reason  string
	}{
		{"missing", nil, "Session not found"},
		{"revoked", &models.Session{ID: claims.ID, UserID: 7, IsRevoked: true, ExpiresAt: time.Now().Add(time.Hour)}, "Session has been revoked"},
		{"expired", &models.Session{ID: claims.ID, UserID: 7, ExpiresAt: time.Now().Add(-time.Minute)}, "Session has expired"},
		{"other user", &models.Session{ID: claims.ID, UserID: 8, ExpiresAt: time.Now().Add(time.Hour)}, "Session does not match token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			sessions := new(MockSessionRepository)
			svc := NewAuthService(users, sessions, signer)

			if tt.session == nil {
				sessions.On("GetSession", mock.Anything, claims.ID).Return(nil, nil)
			} else {
				sessions.On("GetSession", mock.Anything, claims.ID).Return(tt.session, nil)
			}

			_, _, err := svc.ValidateSession(context.Background(), token)
			uerr, ok := errors.AsUnauthorized(err)
			require.True(t, ok)
			assert.Equal(t, tt.reason, uerr.Reason)
			users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_ValidateSession_BadToken(t *testing.T) {
	svc, _, sessions := newAuthService()

	forged, _, err := auth.NewSigner("other-secret", time.Hour).GenerateToken(7)
	require.NoError(t, err)

	_, _, err = svc.ValidateSession(context.Background(), forged)
	assert.True(t, errors.IsUnauthorized(err))
	sessions.AssertNotCalled(t, "GetSession", mock.Anything, mock.Anything)
}

func TestAuthService_LogoutAndPurge(t *testing.T) {
	svc, _, sessions := newAuthService()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	sessions.On("RevokeSession", mock.Anything, "jti-1").Return(nil)
	sessions.On("RevokeUserSessions", mock.Anything, uint(7)).Return(nil)
	sessions.On("PurgeExpired", mock.Anything, fixed).Return(int64(4), nil)

	require.NoError(t, svc.Logout(context.Background(), "jti-1"))
	require.NoError(t, svc.RevokeAll(context.Background(), 7))
	n, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	sessions.AssertExpectations(t)
}

func TestAuthService_TouchSessionIsAsync(t *testing.T) {
	svc, _, sessions := newAuthService()
	done := make(chan struct{})
	sessions.On("UpdateLastActivity", mock.Anything, "jti-1").
		Run(func(mock.Arguments) { close(done) }).
		Return(nil)

	svc.TouchSession("jti-1")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session touch never ran")
	}
}
