package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/pkg/constants"
	"github.com/threaddit/backend/pkg/errors"
	"github.com/threaddit/backend/pkg/logger"
	"github.com/threaddit/backend/pkg/validate"
)

// ThreadService manages threads, subscriptions and moderators
type ThreadService struct {
	threads ports.ThreadRepository
	users   ports.UserRepository
	media   mediaHelper
}

// NewThreadService creates a new ThreadService
func NewThreadService(threads ports.ThreadRepository, users ports.UserRepository, store ports.MediaStore, maxUploadBytes int64) *ThreadService {
	return &ThreadService{
		threads: threads,
		users:   users,
		media:   mediaHelper{store: store, maxBytes: maxUploadBytes},
	}
}

// List returns the thread sidebar: the viewer's subscriptions, all threads and the most popular
func (s *ThreadService) List(ctx context.Context, viewer *models.User) (*models.ThreadListing, error) {
	vid := viewerID(viewer)
	listing := &models.ThreadListing{Subscribed: []models.ThreadInfo{}}

	var err error
	if viewer != nil {
		listing.Subscribed, err = s.threads.List(ctx, ports.ThreadQuery{SubscribedBy: viewer.ID, ViewerID: vid})
		if err != nil {
			return nil, err
		}
	}
	if listing.All, err = s.threads.List(ctx, ports.ThreadQuery{Limit: constants.ThreadListingSize, ViewerID: vid}); err != nil {
		return nil, err
	}
	if listing.Popular, err = s.threads.List(ctx, ports.ThreadQuery{
		OrderBy:  "subscribers",
		Limit:    constants.ThreadListingSize,
		ViewerID: vid,
	}); err != nil {
		return nil, err
	}
	return listing, nil
}

// Search returns threads whose name contains name
func (s *ThreadService) Search(ctx context.Context, viewer *models.User, name string) ([]models.ThreadInfo, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), validate.ThreadPrefix)
	if name == "" {
		return []models.ThreadInfo{}, nil
	}
	return s.threads.List(ctx, ports.ThreadQuery{NameLike: name, Limit: constants.ThreadListingSize, ViewerID: viewerID(viewer)})
}

// Get returns a thread by id
func (s *ThreadService) Get(ctx context.Context, viewer *models.User, id uint) (*models.ThreadInfo, error) {
	info, err := s.threads.Info(ctx, id, viewerID(viewer))
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errors.NewNotFoundError("Thread", fmt.Sprint(id))
	}
	return info, nil
}

// GetByName returns a thread by name; the t/ prefix is optional
func (s *ThreadService) GetByName(ctx context.Context, viewer *models.User, name string) (*models.ThreadInfo, error) {
	thread, err := s.threads.GetByName(ctx, validate.ThreadName(name))
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, errors.NewNotFoundError("Thread", validate.ThreadName(name))
	}
	return s.Get(ctx, viewer, thread.ID)
}

// ThreadInput is the payload for creating or editing a thread
type ThreadInput struct {
	Name        string
	Description *string
	Logo        *MediaInput
	ContentURL  string
}

// Create makes a thread owned, moderated and followed by user
func (s *ThreadService) Create(ctx context.Context, user *models.User, in ThreadInput) (*models.ThreadInfo, error) {
	thread := &models.Subthread{Name: validate.ThreadName(in.Name), CreatedBy: &user.ID}
	if in.Description != nil {
		thread.Description = validate.SanitizeMarkdown(*in.Description)
	}

	existing, err := s.threads.GetByName(ctx, thread.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.NewValidationError("name", "Thread already exists")
	}

	if err := s.applyLogo(ctx, thread, in); err != nil {
		return nil, err
	}
	if err := s.threads.Create(ctx, thread); err != nil {
		s.media.discard(ctx, thread.LogoPublicID)
		if errors.IsConflict(err) {
			return nil, errors.NewValidationError("name", "Thread already exists")
		}
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	logger.For(ctx).WithField("thread_id", thread.ID).Infof("🧵 Created thread %s", thread.Name)
	return s.Get(ctx, user, thread.ID)
}

// Update edits the description and logo; moderators and admins only
func (s *ThreadService) Update(ctx context.Context, user *models.User, id uint, in ThreadInput) (*models.ThreadInfo, error) {
	thread, err := s.moderated(ctx, user, id, "edit")
	if err != nil {
		return nil, err
	}

	if in.Description != nil {
		thread.Description = validate.SanitizeMarkdown(*in.Description)
	}
	oldPublicID := thread.LogoPublicID
	if err := s.applyLogo(ctx, thread, in); err != nil {
		return nil, err
	}
	if err := s.threads.Update(ctx, thread); err != nil {
		return nil, fmt.Errorf("failed to update thread: %w", err)
	}
	if oldPublicID != thread.LogoPublicID {
		s.media.discard(ctx, oldPublicID)
	}
	return s.Get(ctx, user, id)
}

func (s *ThreadService) applyLogo(ctx context.Context, thread *models.Subthread, in ThreadInput) error {
	switch {
	case in.Logo != nil:
		asset, err := s.media.upload(ctx, "media", constants.MediaFolderThreads, in.Logo)
		if err != nil {
			return err
		}
		thread.Logo, thread.LogoPublicID = asset.URL, asset.PublicID
	case in.ContentURL != "":
		thread.Logo, thread.LogoPublicID = in.ContentURL, ""
	}
	return nil
}

// Subscribe makes user follow a thread
func (s *ThreadService) Subscribe(ctx context.Context, user *models.User, id uint) error {
	if _, err := s.mustExist(ctx, id); err != nil {
		return err
	}
	return s.threads.Subscribe(ctx, user.ID, id)
}

// Unsubscribe stops user following a thread
func (s *ThreadService) Unsubscribe(ctx context.Context, user *models.User, id uint) error {
	if _, err := s.mustExist(ctx, id); err != nil {
		return err
	}
	return s.threads.Unsubscribe(ctx, user.ID, id)
}

// AddModerator grants username moderation of a thread
func (s *ThreadService) AddModerator(ctx context.Context, user *models.User, id uint, username string) error {
	if _, err := s.moderated(ctx, user, id, "add moderators to"); err != nil {
		return err
	}
	target, err := s.target(ctx, username)
	if err != nil {
		return err
	}
	return s.threads.AddModerator(ctx, target.ID, id)
}

// RemoveModerator revokes moderation; the thread's creator keeps it
func (s *ThreadService) RemoveModerator(ctx context.Context, user *models.User, id uint, username string) error {
	thread, err := s.moderated(ctx, user, id, "remove moderators from")
	if err != nil {
		return err
	}
	target, err := s.target(ctx, username)
	if err != nil {
		return err
	}
	if thread.CreatedBy != nil && *thread.CreatedBy == target.ID {
		return errors.NewValidationError("username", "Cannot remove the thread creator")
	}
	return s.threads.RemoveModerator(ctx, target.ID, id)
}

// CanModerate reports whether user may moderate a thread
func (s *ThreadService) CanModerate(ctx context.Context, user *models.User, threadID uint) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.IsAdmin {
		return true, nil
	}
	return s.threads.IsModerator(ctx, user.ID, threadID)
}

func (s *ThreadService) mustExist(ctx context.Context, id uint) (*models.Subthread, error) {
	thread, err := s.threads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, errors.NewNotFoundError("Thread", fmt.Sprint(id))
	}
	return thread, nil
}

func (s *ThreadService) moderated(ctx context.Context, user *models.User, id uint, action string) (*models.Subthread, error) {
	thread, err := s.mustExist(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.CanModerate(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewPermissionError(action, "thread")
	}
	return thread, nil
}

func (s *ThreadService) target(ctx context.Context, username string) (*models.User, error) {
	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, errors.NewNotFoundError("User", username)
	}
	return target, nil
}

func viewerID(viewer *models.User) uint {
	if viewer == nil {
		return 0
	}
	return viewer.ID
}
