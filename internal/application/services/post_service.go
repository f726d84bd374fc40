package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/pkg/constants"
	"github.com/threaddit/backend/pkg/errors"
	"github.com/threaddit/backend/pkg/logger"
	"github.com/threaddit/backend/pkg/ranking"
	"github.com/threaddit/backend/pkg/validate"
)

// ListQuery pages and orders a post listing
type ListQuery struct {
	SortBy   string
	Duration string
	Limit    int
	Offset   int
}

func (q ListQuery) normalized() (ListQuery, error) {
	if q.SortBy == "" {
		q.SortBy = constants.DefaultSortBy
	}
	if q.Duration == "" {
		q.Duration = constants.DefaultDurationName
	}
	if !lo.Contains([]string{constants.SortHot, constants.SortTop, constants.SortNew}, q.SortBy) {
		return q, errors.NewValidationError("sortby", "Must be one of: hot, top, new.")
	}
	if _, ok := constants.Durations[q.Duration]; !ok {
		return q, errors.NewValidationError("duration", "Must be one of: day, week, month, year, alltime.")
	}
	if q.Limit <= 0 {
		q.Limit = constants.DefaultPageSize
	}
	q.Limit = lo.Min([]int{q.Limit, constants.MaxPageSize})
	q.Offset = lo.Max([]int{q.Offset, 0})
	return q, nil
}

// PostService manages posts, feeds and bookmarks
type PostService struct {
	posts   ports.PostRepository
	threads ports.ThreadRepository
	users   ports.UserRepository
	mods    *ThreadService
	ranker  *ranking.Ranker
	media   mediaHelper
	now     func() time.Time
}

// NewPostService creates a new PostService
func NewPostService(posts ports.PostRepository, threads ports.ThreadRepository, users ports.UserRepository, mods *ThreadService, ranker *ranking.Ranker, store ports.MediaStore, maxUploadBytes int64) *PostService {
	return &PostService{
		posts:   posts,
		threads: threads,
		users:   users,
		mods:    mods,
		ranker:  ranker,
		media:   mediaHelper{store: store, maxBytes: maxUploadBytes},
		now:     time.Now,
	}
}

// Feed lists the home, all or popular feed
func (s *PostService) Feed(ctx context.Context, viewer *models.User, feed string, q ListQuery) ([]models.PostInfo, error) {
	base := ports.PostQuery{ViewerID: viewerID(viewer)}

	switch feed {
	case constants.FeedHome:
		if viewer == nil {
			return nil, errors.NewUnauthorizedError("")
		}
		ids, err := s.threads.SubscribedIDs(ctx, viewer.ID)
		if err != nil {
			return nil, err
		}
		base.ThreadIDs = nonNil(ids)
	case constants.FeedPopular:
		ids, err := s.threads.PopularIDs(ctx, constants.PopularThreadCount)
		if err != nil {
			return nil, err
		}
		base.ThreadIDs = nonNil(ids)
	case constants.FeedAll:
	default:
		return nil, errors.NewNotFoundError("Feed", feed)
	}

	return s.list(ctx, base, q)
}

// ByThread lists the posts of a thread
func (s *PostService) ByThread(ctx context.Context, viewer *models.User, threadID uint, q ListQuery) ([]models.PostInfo, error) {
	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, errors.NewNotFoundError("Thread", fmt.Sprint(threadID))
	}
	return s.list(ctx, ports.PostQuery{ThreadIDs: []uint{threadID}, ViewerID: viewerID(viewer)}, q)
}

// ByUser lists the posts written by username
func (s *PostService) ByUser(ctx context.Context, viewer *models.User, username string, q ListQuery) ([]models.PostInfo, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, errors.NewNotFoundError("User", username)
	}
	return s.list(ctx, ports.PostQuery{AuthorID: author.ID, ViewerID: viewerID(viewer)}, q)
}

// Saved lists the viewer's bookmarks, most recently saved first
func (s *PostService) Saved(ctx context.Context, viewer *models.User, q ListQuery) ([]models.PostInfo, error) {
	q, err := q.normalized()
	if err != nil {
		return nil, err
	}
	return s.posts.List(ctx, ports.PostQuery{SavedBy: viewer.ID, ViewerID: viewer.ID, Limit: q.Limit, Offset: q.Offset})
}

func (s *PostService) list(ctx context.Context, base ports.PostQuery, q ListQuery) ([]models.PostInfo, error) {
	q, err := q.normalized()
	if err != nil {
		return nil, err
	}
	if window := constants.Durations[q.Duration]; window > 0 {
		base.Since = s.now().Add(-window)
	}

	if q.SortBy != constants.SortHot {
		base.OrderBy = ports.OrderNew
		if q.SortBy == constants.SortTop {
			base.OrderBy = ports.OrderTop
		}
		base.Limit, base.Offset = q.Limit, q.Offset
		return s.posts.List(ctx, base)
	}

	base.OrderBy = ports.OrderNew
	base.Limit = constants.HotCandidateWindow
	candidates, err := s.posts.List(ctx, base)
	if err != nil {
		return nil, err
	}
	ranked, err := ranking.Rank(s.ranker, candidates, func(p models.PostInfo) ranking.Candidate {
		return ranking.Candidate{Karma: p.Post.PostKarma, Comments: p.Post.CommentsCount, CreatedAt: p.Post.CreatedAt}
	})
	if err != nil {
		return nil, errors.NewInternalError("failed to rank posts", err)
	}
	return paginate(ranked, q.Offset, q.Limit), nil
}

// Get returns one post
func (s *PostService) Get(ctx context.Context, viewer *models.User, id uint) (*models.PostInfo, error) {
	info, err := s.posts.Info(ctx, id, viewerID(viewer))
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errors.NewNotFoundError("Post", fmt.Sprint(id))
	}
	return info, nil
}

// PostInput is the payload for creating or editing a post. Nil pointers mean unchanged.
type PostInput struct {
	ThreadID    uint
	Title       *string
	Content     *string
	ContentType string
	ContentURL  string
	Media       *MediaInput
}

// Create submits a post to a thread
func (s *PostService) Create(ctx context.Context, user *models.User, in PostInput) (*models.PostInfo, error) {
	thread, err := s.threads.GetByID(ctx, in.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, errors.NewValidationError("subthread_id", "Thread does not exist.")
	}

	post := &models.Post{UserID: user.ID, SubthreadID: thread.ID}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, errors.NewValidationError("title", "Missing data for required field.")
	}
	post.Title = validate.SanitizeText(*in.Title)
	if in.Content != nil {
		post.Content = validate.SanitizeMarkdown(*in.Content)
	}
	if err := s.applyMedia(ctx, post, in); err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.media.discard(ctx, post.MediaPublicID)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	logger.For(ctx).WithField("post_id", post.ID).Infof("📝 New post in %s", thread.Name)
	return s.Get(ctx, user, post.ID)
}

// Update edits a post; authors only
func (s *PostService) Update(ctx context.Context, user *models.User, id uint, in PostInput) (*models.PostInfo, error) {
	post, err := s.mustExist(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != user.ID {
		return nil, errors.NewPermissionError("edit", "post")
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, errors.NewValidationError("title", "Shorter than minimum length 1.")
		}
		post.Title = validate.SanitizeText(*in.Title)
	}
	if in.Content != nil {
		post.Content = validate.SanitizeMarkdown(*in.Content)
	}
	oldPublicID := post.MediaPublicID
	if err := s.applyMedia(ctx, post, in); err != nil {
		return nil, err
	}
	post.IsEdited = true

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if oldPublicID != post.MediaPublicID {
		s.media.discard(ctx, oldPublicID)
	}
	return s.Get(ctx, user, id)
}

func (s *PostService) applyMedia(ctx context.Context, post *models.Post, in PostInput) error {
	switch in.ContentType {
	case constants.ContentTypeMedia:
		if in.Media == nil {
			return errors.NewValidationError("media", "Missing data for required field.")
		}
		asset, err := s.media.upload(ctx, "media", constants.MediaFolderPosts, in.Media)
		if err != nil {
			return err
		}
		post.Media, post.MediaPublicID = asset.URL, asset.PublicID
	case constants.ContentTypeURL:
		if in.ContentURL == "" {
			return errors.NewValidationError("content_url", "Missing data for required field.")
		}
		post.Media, post.MediaPublicID = in.ContentURL, ""
	}
	return nil
}

// Delete removes a post; its author, the thread's moderators and admins may do so
func (s *PostService) Delete(ctx context.Context, user *models.User, id uint) error {
	post, err := s.mustExist(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != user.ID {
		ok, err := s.mods.CanModerate(ctx, user, post.SubthreadID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.NewPermissionError("delete", "post")
		}
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	s.media.discard(ctx, post.MediaPublicID)
	return nil
}

// Save bookmarks a post for user
func (s *PostService) Save(ctx context.Context, user *models.User, id uint) error {
	if _, err := s.mustExist(ctx, id); err != nil {
		return err
	}
	return s.posts.Save(ctx, user.ID, id)
}

// Unsave removes a bookmark
func (s *PostService) Unsave(ctx context.Context, user *models.User, id uint) error {
	return s.posts.Unsave(ctx, user.ID, id)
}

func (s *PostService) mustExist(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.NewNotFoundError("Post", fmt.Sprint(id))
	}
	return post, nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := lo.Min([]int{offset + limit, len(items)})
	return items[offset:end]
}

func nonNil(ids []uint) []uint {
	if ids == nil {
		return []uint{}
	}
	return ids
}
