package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/pkg/auth"
	"github.com/threaddit/backend/pkg/constants"
	"github.com/threaddit/backend/pkg/errors"
	"github.com/threaddit/backend/pkg/logger"
	"github.com/threaddit/backend/pkg/validate"
)

// Roles reported in UserInfo
const (
	RoleAdmin = "admin"
	RoleMod   = "mod"
)

// UserService manages accounts and profiles
type UserService struct {
	users   ports.UserRepository
	threads ports.ThreadRepository
	media   mediaHelper
}

// NewUserService creates a new UserService
func NewUserService(users ports.UserRepository, threads ports.ThreadRepository, store ports.MediaStore, maxUploadBytes int64) *UserService {
	return &UserService{
		users:   users,
		threads: threads,
		media:   mediaHelper{store: store, maxBytes: maxUploadBytes},
	}
}

// RegisterInput is the payload of a registration
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates an account. Taken usernames and emails are reported per field.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	verr := &errors.ValidationError{}
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		verr.Add("username", "Username already exists")
	}
	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		verr.Add("email", "Email already exists")
	}
	if !verr.Empty() {
		return nil, verr
	}

	if err := auth.ValidatePasswordStrength(in.Password); err != nil {
		return nil, errors.NewValidationError("password", err.Error())
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if conflict, ok := errors.AsConflict(err); ok {
			if conflict.Field == "email" {
				return nil, errors.NewValidationError("email", "Email already exists")
			}
			return nil, errors.NewValidationError("username", "Username already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.For(ctx).WithField("user_id", user.ID).Infof("✅ Registered user %s", user.Username)
	return user, nil
}

// Authenticate checks an email and password pair
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if user == nil || !auth.VerifyPassword(password, user.PasswordHash) {
		logger.For(ctx).Warnf("⚠️ Login failed for %s", email)
		return nil, errors.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// Profile returns the public profile of username with karma
func (s *UserService) Profile(ctx context.Context, username string) (*models.UserInfo, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotFoundError("User", username)
	}
	info, err := s.info(ctx, user)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Me returns the profile of the logged-in user with roles and moderated threads
func (s *UserService) Me(ctx context.Context, user *models.User) (*models.UserInfo, error) {
	info, err := s.info(ctx, user)
	if err != nil {
		return nil, err
	}
	info.Email = user.Email

	modIn, err := s.threads.ModeratedIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	info.ModIn = modIn
	info.Roles = []string{}
	if user.IsAdmin {
		info.Roles = append(info.Roles, RoleAdmin)
	}
	if len(modIn) > 0 {
		info.Roles = append(info.Roles, RoleMod)
	}
	return info, nil
}

func (s *UserService) info(ctx context.Context, user *models.User) (*models.UserInfo, error) {
	karma, err := s.users.Karma(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute karma: %w", err)
	}
	return &models.UserInfo{
		ID:               user.ID,
		Username:         user.Username,
		Avatar:           user.Avatar,
		Bio:              user.Bio,
		RegistrationDate: user.RegistrationDate,
		Karma:            karma,
	}, nil
}

// UpdateUserInput carries the editable profile fields. Nil means unchanged.
type UpdateUserInput struct {
	Bio        *string
	Avatar     *MediaInput
	ContentURL string
}

// Update changes the bio and avatar of user
func (s *UserService) Update(ctx context.Context, user *models.User, in UpdateUserInput) (*models.UserInfo, error) {
	if in.Bio != nil {
		user.Bio = validate.SanitizeMarkdown(*in.Bio)
	}

	oldPublicID := ""
	switch {
	case in.Avatar != nil:
		asset, err := s.media.upload(ctx, "avatar", constants.MediaFolderAvatars, in.Avatar)
		if err != nil {
			return nil, err
		}
		oldPublicID = user.AvatarPublicID
		user.Avatar, user.AvatarPublicID = asset.URL, asset.PublicID
	case in.ContentURL != "":
		oldPublicID = user.AvatarPublicID
		user.Avatar, user.AvatarPublicID = in.ContentURL, ""
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	s.media.discard(ctx, oldPublicID)

	return s.Me(ctx, user)
}

// Delete removes the account and everything it owns
func (s *UserService) Delete(ctx context.Context, user *models.User) error {
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.media.discard(ctx, user.AvatarPublicID)
	logger.For(ctx).WithField("user_id", user.ID).Info("🗑️ Deleted user")
	return nil
}

// Search finds users whose name contains query
func (s *UserService) Search(ctx context.Context, query string) ([]models.UserRef, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.UserRef{}, nil
	}
	return s.users.Search(ctx, query, constants.UserSearchLimit)
}

// EnsureAdmin creates an admin account or promotes an existing one
func (s *UserService) EnsureAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if user, err = s.Register(ctx, in); err != nil {
			return nil, err
		}
	}
	if user.IsAdmin {
		return user, nil
	}
	user.IsAdmin = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}
	return user, nil
}

// GetByUsername loads an account by name
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotFoundError("User", username)
	}
	return user, nil
}
