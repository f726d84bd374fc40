package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/pkg/constants"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts user. A username or email race surfaces as a ConflictError
// on whichever column is already taken; username wins when both are.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	// the translated error no longer names the violated key
	taken, qerr := r.ExistsByUsername(ctx, user.Username)
	if qerr == nil && !taken {
		return conflictOn(err, "User", "email", user.Email)
	}
	return conflictOn(err, "User", "username", user.Username)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return first(r.db.WithContext(ctx).Where("id = ?", id), &models.User{})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return first(r.db.WithContext(ctx).Where("username = ?", username), &models.User{})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return first(r.db.WithContext(ctx).Where("email = ?", email), &models.User{})
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *UserRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = ?)", constants.TableUser, column)
	err := r.db.WithContext(ctx).Raw(query, value).Scan(&exists).Error
	return exists, err
}

// Update writes the mutable profile columns.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Model(user).Select("avatar", "avatar_public_id", "bio", "is_admin", "password_hash").Updates(user).Error
}

// Delete removes the account; foreign keys cascade to the user's content.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// Search matches usernames by substring.
func (r *UserRepository) Search(ctx context.Context, query string, limit int) ([]models.UserRef, error) {
	refs := []models.UserRef{}
	err := r.db.WithContext(ctx).
		Table(constants.TableUser).
		Select("id, username, avatar").
		Where("username LIKE ?", "%"+escapeLike(query)+"%").
		Order("username").
		Limit(limit).
		Scan(&refs).Error
	return refs, err
}

// Karma counts a user's posts and comments and the votes they received.
func (r *UserRepository) Karma(ctx context.Context, id uint) (models.Karma, error) {
	query := fmt.Sprintf(`SELECT
		(SELECT COUNT(*) FROM %[1]s WHERE user_id = ?) AS posts_count,
		(SELECT %[4]s FROM %[3]s r JOIN %[1]s p ON p.id = r.post_id WHERE p.user_id = ?) AS posts_karma,
		(SELECT COUNT(*) FROM %[2]s WHERE user_id = ?) AS comments_count,
		(SELECT %[4]s FROM %[3]s r JOIN %[2]s c ON c.id = r.comment_id WHERE c.user_id = ?) AS comments_karma`,
		constants.TablePost, constants.TableComment, constants.TableReaction, karmaExpr)

	var k models.Karma
	if err := r.db.WithContext(ctx).Raw(query, id, id, id, id).Scan(&k).Error; err != nil {
		return k, err
	}
	k.UserKarma = k.PostsKarma + k.CommentsKarma
	return k, nil
}
