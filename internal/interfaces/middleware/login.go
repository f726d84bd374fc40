package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/pkg/constants"
	"github.com/threaddit/backend/pkg/errors"
	"github.com/threaddit/backend/pkg/logger"
)

// SessionValidator resolves a session token to its user.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*models.User, string, error)
	TouchSession(sessionID string)
}

// LoginManager loads the session user on every request and guards login-only routes.
type LoginManager struct {
	sessions     SessionValidator
	secure       bool
	unauthorized gin.HandlerFunc
}

// NewLoginManager creates a LoginManager. secure marks the session cookie Secure.
func NewLoginManager(sessions SessionValidator, secure bool) *LoginManager {
	return &LoginManager{sessions: sessions, secure: secure, unauthorized: Unauthorized}
}

// SetUnauthorizedHandler installs the callback run when a login-only route has no user.
func (m *LoginManager) SetUnauthorizedHandler(h gin.HandlerFunc) {
	m.unauthorized = h
}

// LoadUser reads the session cookie and, when it names a live session, stores
// the user and session id in the context. Requests without one continue anonymously.
func (m *LoginManager) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(constants.SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, sessionID, err := m.sessions.ValidateSession(c.Request.Context(), token)
		if err != nil {
			if errors.IsUnauthorized(err) {
				logger.For(c).WithError(err).Debug("ignoring session cookie")
			} else {
				logger.For(c).WithError(err).Error("session lookup failed")
			}
			c.Next()
			return
		}

		// Update last activity (Fire and forget)
		m.sessions.TouchSession(sessionID)

		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeySession, sessionID)
		c.Next()
	}
}

// Required rejects requests that carry no session user.
func (m *LoginManager) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			m.Unauthorized(c)
			return
		}
		c.Next()
	}
}

// Unauthorized runs the installed unauthorized callback.
func (m *LoginManager) Unauthorized(c *gin.Context) {
	m.unauthorized(c)
	c.Abort()
}

// SetSessionCookie stores token in the HttpOnly session cookie.
func (m *LoginManager) SetSessionCookie(c *gin.Context, token string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, token, maxAge, "/", "", m.secure, true)
}

// ClearSessionCookie expires the session cookie.
func (m *LoginManager) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, "", -1, "/", "", m.secure, true)
}

// CurrentUser returns the session user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(constants.ContextKeyUser); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// SessionID returns the id of the request's session, if any.
func SessionID(c *gin.Context) string {
	return c.GetString(constants.ContextKeySession)
}
