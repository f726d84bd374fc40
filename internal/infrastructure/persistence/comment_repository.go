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

var commentInfoSelect = fmt.Sprintf(`c.id, c.post_id, c.parent_id, c.content, c.is_edited, c.created_at,
	u.username AS user_name, u.avatar AS user_avatar,
	(SELECT %[1]s FROM %[2]s r WHERE r.comment_id = c.id) AS comment_karma,
	(SELECT vr.is_upvote FROM %[2]s vr WHERE vr.comment_id = c.id AND vr.user_id = ?) AS has_upvoted`,
	karmaExpr, constants.TableReaction)

type commentRow struct {
	ID           uint
	PostID       uint
	ParentID     *uint
	Content      string
	IsEdited     bool
	CreatedAt    time.Time
	UserName     string
	UserAvatar   string
	CommentKarma int
	HasUpvoted   *bool
}

func (row commentRow) info(viewerID uint) models.CommentInfo {
	info := models.CommentInfo{
		Author: models.PostAuthor{UserName: row.UserName, UserAvatar: row.UserAvatar},
		Comment: models.CommentBody{
			ID:           row.ID,
			PostID:       row.PostID,
			ParentID:     row.ParentID,
			Content:      row.Content,
			CreatedAt:    row.CreatedAt,
			CommentKarma: row.CommentKarma,
			IsEdited:     row.IsEdited,
			HasParent:    row.ParentID != nil,
		},
	}
	if viewerID != 0 {
		info.CurrentUser = &models.ViewerState{HasUpvoted: row.HasUpvoted}
	}
	return info
}

// CommentRepository handles database operations for comments
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

func (r *CommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return first(r.db.WithContext(ctx).Where("id = ?", id), &models.Comment{})
}

func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Model(comment).Select("content", "is_edited").Updates(comment).Error
}

// Delete removes a comment; replies go with it through the parent_id cascade.
func (r *CommentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}

func (r *CommentRepository) infoQuery(ctx context.Context, viewerID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Table(constants.TableComment+" AS c").
		Select(commentInfoSelect, viewerID).
		Joins(fmt.Sprintf("JOIN %s u ON u.id = c.user_id", constants.TableUser))
}

// Info returns one comment as seen by viewerID.
func (r *CommentRepository) Info(ctx context.Context, id uint, viewerID uint) (*models.CommentInfo, error) {
	var rows []commentRow
	if err := r.infoQuery(ctx, viewerID).Where("c.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	info := rows[0].info(viewerID)
	return &info, nil
}

func (r *CommentRepository) ListForPost(ctx context.Context, postID uint, viewerID uint) ([]models.CommentInfo, error) {
	var rows []commentRow
	err := r.infoQuery(ctx, viewerID).
		Where("c.post_id = ?", postID).
		Order("c.created_at ASC").
		Order("c.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	infos := make([]models.CommentInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, row.info(viewerID))
	}
	return infos, nil
}
