package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/pkg/constants"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const messageInfoSelect = `m.id, m.content, m.created_at, m.seen, m.seen_at,
	s.id AS sender_id, s.username AS sender_username, s.avatar AS sender_avatar,
	rc.id AS receiver_id, rc.username AS receiver_username, rc.avatar AS receiver_avatar`

type messageRow struct {
	ID               uint
	Content          string
	CreatedAt        time.Time
	Seen             bool
	SeenAt           *time.Time
	SenderID         uint
	SenderUsername   string
	SenderAvatar     string
	ReceiverID       uint
	ReceiverUsername string
	ReceiverAvatar   string
}

func (row messageRow) info() models.MessageInfo {
	return models.MessageInfo{
		ID:        row.ID,
		Sender:    models.UserRef{ID: row.SenderID, Username: row.SenderUsername, Avatar: row.SenderAvatar},
		Receiver:  models.UserRef{ID: row.ReceiverID, Username: row.ReceiverUsername, Avatar: row.ReceiverAvatar},
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
		Seen:      row.Seen,
		SeenAt:    row.SeenAt,
	}
}

// MessageRepository handles database operations for private messages
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error
}

func (r *MessageRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table(constants.TableMessage + " AS m").
		Select(messageInfoSelect).
		Joins(fmt.Sprintf("JOIN %s s ON s.id = m.sender_id", constants.TableUser)).
		Joins(fmt.Sprintf("JOIN %s rc ON rc.id = m.receiver_id", constants.TableUser))
}

func (r *MessageRepository) scan(query *gorm.DB) ([]models.MessageInfo, error) {
	var rows []messageRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	infos := make([]models.MessageInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, row.info())
	}
	return infos, nil
}

func (r *MessageRepository) GetInfo(ctx context.Context, id uint) (*models.MessageInfo, error) {
	infos, err := r.scan(r.query(ctx).Where("m.id = ?", id).Limit(1))
	if err != nil || len(infos) == 0 {
		return nil, err
	}
	return &infos[0], nil
}

// Latest picks the highest message id per unordered sender/receiver pair.
func (r *MessageRepository) Latest(ctx context.Context, userID uint) ([]models.MessageInfo, error) {
	latest := r.db.WithContext(ctx).
		Table(constants.TableMessage).
		Select("MAX(id)").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Group("LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id)")
	return r.scan(r.query(ctx).
		Where("m.id IN (?)", latest).
		Order("m.created_at DESC").
		Order("m.id DESC"))
}

func (r *MessageRepository) Conversation(ctx context.Context, userID, otherID uint) ([]models.MessageInfo, error) {
	return r.scan(r.query(ctx).
		Where("(m.sender_id = ? AND m.receiver_id = ?) OR (m.sender_id = ? AND m.receiver_id = ?)", userID, otherID, otherID, userID).
		Order("m.created_at ASC").
		Order("m.id ASC"))
}

// MarkSeen flags every unread message from senderID to receiverID.
func (r *MessageRepository) MarkSeen(ctx context.Context, receiverID, senderID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND seen = ?", receiverID, senderID, false).
		Updates(map[string]interface{}{"seen": true, "seen_at": at}).Error
}
