package persistence

import (
	"context"
	"fmt"

	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/pkg/constants"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var threadInfoSelect = fmt.Sprintf(`t.id, t.name, t.description, t.logo, t.created_at,
	COALESCE(u.username, '') AS created_by,
	(SELECT COUNT(*) FROM %[1]s s WHERE s.subthread_id = t.id) AS subscriber_count,
	(SELECT COUNT(*) FROM %[2]s p WHERE p.subthread_id = t.id) AS posts_count,
	(SELECT COUNT(*) FROM %[3]s c JOIN %[2]s cp ON cp.id = c.post_id WHERE cp.subthread_id = t.id) AS comments_count,
	EXISTS(SELECT 1 FROM %[1]s vs WHERE vs.subthread_id = t.id AND vs.user_id = ?) AS has_subscribed`,
	constants.TableSubscription, constants.TablePost, constants.TableComment)

// ThreadRepository handles database operations for threads, moderators and subscriptions
type ThreadRepository struct {
	db *gorm.DB
	tx *TransactionManager
}

// NewThreadRepository creates a new ThreadRepository
func NewThreadRepository(db *gorm.DB, tx *TransactionManager) *ThreadRepository {
	return &ThreadRepository{db: db, tx: tx}
}

// Create inserts the thread and enrolls its creator as moderator and subscriber.
func (r *ThreadRepository) Create(ctx context.Context, thread *models.Subthread) error {
	return r.tx.WithRetry(ctx, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(thread).Error; err != nil {
			return conflictOn(err, "Thread", "name", thread.Name)
		}
		if thread.CreatedBy == nil {
			return nil
		}
		if err := tx.Omit(clause.Associations).Create(&models.Moderator{UserID: *thread.CreatedBy, SubthreadID: thread.ID}).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&models.Subscription{UserID: *thread.CreatedBy, SubthreadID: thread.ID}).Error
	}, 3)
}

func (r *ThreadRepository) GetByID(ctx context.Context, id uint) (*models.Subthread, error) {
	return first(r.db.WithContext(ctx).Where("id = ?", id), &models.Subthread{})
}

func (r *ThreadRepository) GetByName(ctx context.Context, name string) (*models.Subthread, error) {
	return first(r.db.WithContext(ctx).Where("name = ?", name), &models.Subthread{})
}

// Update writes the mutable thread columns.
func (r *ThreadRepository) Update(ctx context.Context, thread *models.Subthread) error {
	return r.db.WithContext(ctx).Model(thread).Select("description", "logo", "logo_public_id").Updates(thread).Error
}

func (r *ThreadRepository) infoQuery(ctx context.Context, viewerID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Table(constants.TableSubthread+" AS t").
		Select(threadInfoSelect, viewerID).
		Joins(fmt.Sprintf("LEFT JOIN %s u ON u.id = t.created_by", constants.TableUser))
}

// Info returns a thread with its counters and moderator list.
func (r *ThreadRepository) Info(ctx context.Context, id uint, viewerID uint) (*models.ThreadInfo, error) {
	var rows []models.ThreadInfo
	if err := r.infoQuery(ctx, viewerID).Where("t.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	info := rows[0]

	info.Modlist = []string{}
	err := r.db.WithContext(ctx).
		Table(constants.TableModerator+" AS m").
		Joins(fmt.Sprintf("JOIN %s u ON u.id = m.user_id", constants.TableUser)).
		Where("m.subthread_id = ?", id).
		Order("m.created_at").
		Pluck("u.username", &info.Modlist).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// List returns threads matching q with their counters.
func (r *ThreadRepository) List(ctx context.Context, q ports.ThreadQuery) ([]models.ThreadInfo, error) {
	query := r.infoQuery(ctx, q.ViewerID)
	if q.NameLike != "" {
		query = query.Where("t.name LIKE ?", "%"+escapeLike(q.NameLike)+"%")
	}
	if q.SubscribedBy != 0 {
		query = query.Joins(fmt.Sprintf("JOIN %s sb ON sb.subthread_id = t.id AND sb.user_id = ?", constants.TableSubscription), q.SubscribedBy)
	}
	switch q.OrderBy {
	case "subscribers":
		query = query.Order("subscriber_count DESC").Order("t.id")
	default:
		query = query.Order("t.name")
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	threads := []models.ThreadInfo{}
	err := query.Scan(&threads).Error
	return threads, err
}

// PopularIDs returns the ids of the most-subscribed threads.
func (r *ThreadRepository) PopularIDs(ctx context.Context, limit int) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).
		Table(constants.TableSubscription).
		Select("subthread_id").
		Group("subthread_id").
		Order("COUNT(*) DESC").
		Order("subthread_id").
		Limit(limit).
		Pluck("subthread_id", &ids).Error
	return ids, err
}

func (r *ThreadRepository) SubscribedIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		Pluck("subthread_id", &ids).Error
	return ids, err
}

// Subscribe is idempotent.
func (r *ThreadRepository) Subscribe(ctx context.Context, userID, threadID uint) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&models.Subscription{UserID: userID, SubthreadID: threadID}).Error
	return ignoreDuplicate(err)
}

func (r *ThreadRepository) Unsubscribe(ctx context.Context, userID, threadID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND subthread_id = ?", userID, threadID).
		Delete(&models.Subscription{}).Error
}

func (r *ThreadRepository) IsModerator(ctx context.Context, userID, threadID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Moderator{}).
		Where("user_id = ? AND subthread_id = ?", userID, threadID).
		Count(&count).Error
	return count > 0, err
}

func (r *ThreadRepository) ModeratedIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&models.Moderator{}).
		Where("user_id = ?", userID).
		Pluck("subthread_id", &ids).Error
	return ids, err
}

// AddModerator is idempotent.
func (r *ThreadRepository) AddModerator(ctx context.Context, userID, threadID uint) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&models.Moderator{UserID: userID, SubthreadID: threadID}).Error
	return ignoreDuplicate(err)
}

func (r *ThreadRepository) RemoveModerator(ctx context.Context, userID, threadID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND subthread_id = ?", userID, threadID).
		Delete(&models.Moderator{}).Error
}
