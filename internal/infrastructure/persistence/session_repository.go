package persistence

import (
	"context"
	"time"

	"github.com/threaddit/backend/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository handles database operations for user sessions
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// InsertSession creates a new session in the database
func (r *SessionRepository) InsertSession(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(session).Error
}

// GetSession retrieves a session by its ID (from the token's jti)
func (r *SessionRepository) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	return first(r.db.WithContext(ctx).Where("id = ?", sessionID), &models.Session{})
}

// RevokeSession marks a session as revoked
func (r *SessionRepository) RevokeSession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("is_revoked", true).Error
}

// RevokeUserSessions revokes every live session of a user
func (r *SessionRepository) RevokeUserSessions(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&models.Session{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Update("is_revoked", true).Error
}

// UpdateLastActivity updates the last activity timestamp
func (r *SessionRepository) UpdateLastActivity(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("last_activity", gorm.Expr("NOW()")).Error
}

// PurgeExpired deletes revoked sessions and sessions past their expiry
func (r *SessionRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR is_revoked = ?", now, true).
		Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
