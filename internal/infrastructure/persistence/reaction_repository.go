package persistence

import (
	"context"
	"strconv"

	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/internal/domain/ports"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository handles database operations for votes
type ReactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

func (r *ReactionRepository) Get(ctx context.Context, userID uint, target ports.ReactionTarget) (*models.Reaction, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if target.PostID != 0 {
		query = query.Where("post_id = ?", target.PostID)
	} else {
		query = query.Where("comment_id = ?", target.CommentID)
	}
	return first(query, &models.Reaction{})
}

// Create inserts a vote. A concurrent duplicate surfaces as a ConflictError
// on the voted target.
func (r *ReactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(reaction).Error
	field, id := "post_id", reaction.PostID
	if id == nil {
		field, id = "comment_id", reaction.CommentID
	}
	value := ""
	if id != nil {
		value = strconv.FormatUint(uint64(*id), 10)
	}
	return conflictOn(err, "Reaction", field, value)
}

func (r *ReactionRepository) Update(ctx context.Context, reaction *models.Reaction) error {
	return r.db.WithContext(ctx).Model(reaction).Select("is_upvote").Updates(reaction).Error
}

func (r *ReactionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Reaction{}, id).Error
}
