package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/pkg/constants"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var postInfoSelect = fmt.Sprintf(`p.id, p.title, p.media, p.content, p.is_edited, p.created_at,
	t.id AS thread_id, t.name AS thread_name, t.logo AS thread_logo,
	u.username AS user_name, u.avatar AS user_avatar,
	(SELECT %[1]s FROM %[2]s r WHERE r.post_id = p.id) AS post_karma,
	(SELECT COUNT(*) FROM %[3]s c WHERE c.post_id = p.id) AS comments_count,
	(SELECT vr.is_upvote FROM %[2]s vr WHERE vr.post_id = p.id AND vr.user_id = ?) AS has_upvoted,
	EXISTS(SELECT 1 FROM %[4]s vs WHERE vs.post_id = p.id AND vs.user_id = ?) AS saved`,
	karmaExpr, constants.TableReaction, constants.TableComment, constants.TableSavedPost)

type postRow struct {
	ID            uint
	Title         string
	Media         string
	Content       string
	IsEdited      bool
	CreatedAt     time.Time
	ThreadID      uint
	ThreadName    string
	ThreadLogo    string
	UserName      string
	UserAvatar    string
	PostKarma     int
	CommentsCount int
	HasUpvoted    *bool
	Saved         bool
}

func (row postRow) info(viewerID uint) models.PostInfo {
	info := models.PostInfo{
		Thread: models.PostThread{ThreadID: row.ThreadID, ThreadName: row.ThreadName, ThreadLogo: row.ThreadLogo},
		Author: models.PostAuthor{UserName: row.UserName, UserAvatar: row.UserAvatar},
		Post: models.PostBody{
			ID:            row.ID,
			Title:         row.Title,
			Media:         row.Media,
			Content:       row.Content,
			CreatedAt:     row.CreatedAt,
			PostKarma:     row.PostKarma,
			CommentsCount: row.CommentsCount,
			IsEdited:      row.IsEdited,
		},
	}
	if viewerID != 0 {
		info.CurrentUser = &models.ViewerState{HasUpvoted: row.HasUpvoted, Saved: row.Saved}
	}
	return info
}

// PostRepository handles database operations for posts and saved posts
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

func (r *PostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return first(r.db.WithContext(ctx).Where("id = ?", id), &models.Post{})
}

// Update writes the editable post columns.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Model(post).Select("title", "content", "media", "media_public_id", "is_edited").Updates(post).Error
}

// Delete removes a post; comments, votes and bookmarks cascade.
func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}

func (r *PostRepository) baseQuery(ctx context.Context, viewerID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Table(constants.TablePost+" AS p").
		Select(postInfoSelect, viewerID, viewerID).
		Joins(fmt.Sprintf("JOIN %s t ON t.id = p.subthread_id", constants.TableSubthread)).
		Joins(fmt.Sprintf("JOIN %s u ON u.id = p.user_id", constants.TableUser))
}

// Info returns a single post as seen by viewerID (0 for anonymous).
func (r *PostRepository) Info(ctx context.Context, id uint, viewerID uint) (*models.PostInfo, error) {
	var rows []postRow
	if err := r.baseQuery(ctx, viewerID).Where("p.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	info := rows[0].info(viewerID)
	return &info, nil
}

// List returns posts matching q.
func (r *PostRepository) List(ctx context.Context, q ports.PostQuery) ([]models.PostInfo, error) {
	if q.ThreadIDs != nil && len(q.ThreadIDs) == 0 {
		return []models.PostInfo{}, nil
	}

	query := r.baseQuery(ctx, q.ViewerID)
	if len(q.ThreadIDs) > 0 {
		query = query.Where("p.subthread_id IN ?", q.ThreadIDs)
	}
	if q.AuthorID != 0 {
		query = query.Where("p.user_id = ?", q.AuthorID)
	}
	if q.SavedBy != 0 {
		query = query.Joins(fmt.Sprintf("JOIN %s sp ON sp.post_id = p.id AND sp.user_id = ?", constants.TableSavedPost), q.SavedBy)
	}
	if !q.Since.IsZero() {
		query = query.Where("p.created_at >= ?", q.Since)
	}

	switch {
	case q.SavedBy != 0 && q.OrderBy != ports.OrderTop:
		query = query.Order("sp.created_at DESC")
	case q.OrderBy == ports.OrderTop:
		query = query.Order("post_karma DESC").Order("p.created_at DESC")
	default:
		query = query.Order("p.created_at DESC").Order("p.id DESC")
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	var rows []postRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	infos := make([]models.PostInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, row.info(q.ViewerID))
	}
	return infos, nil
}

// Save bookmarks a post; saving twice is a no-op.
func (r *PostRepository) Save(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&models.SavedPost{UserID: userID, PostID: postID}).Error
	return ignoreDuplicate(err)
}

func (r *PostRepository) Unsave(ctx context.Context, userID, postID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.SavedPost{}).Error
}
