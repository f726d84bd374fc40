package services

import (
	"context"
	"fmt"

	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/pkg/errors"
)

// ReactionService records votes on posts and comments
type ReactionService struct {
	reactions ports.ReactionRepository
	posts     ports.PostRepository
	comments  ports.CommentRepository
}

// NewReactionService creates a new ReactionService
func NewReactionService(reactions ports.ReactionRepository, posts ports.PostRepository, comments ports.CommentRepository) *ReactionService {
	return &ReactionService{reactions: reactions, posts: posts, comments: comments}
}

// Add records a vote. Voting twice on the same item is a conflict.
func (s *ReactionService) Add(ctx context.Context, user *models.User, target ports.ReactionTarget, isUpvote bool) error {
	existing, err := s.lookup(ctx, user, target)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.NewConflictError("Reaction", targetField(target), targetID(target))
	}

	reaction := &models.Reaction{UserID: user.ID, IsUpvote: isUpvote}
	if target.PostID != 0 {
		reaction.PostID = &target.PostID
	} else {
		reaction.CommentID = &target.CommentID
	}
	return s.reactions.Create(ctx, reaction)
}

// Change flips an existing vote
func (s *ReactionService) Change(ctx context.Context, user *models.User, target ports.ReactionTarget, isUpvote bool) error {
	existing, err := s.lookup(ctx, user, target)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.NewNotFoundError("Reaction", targetID(target))
	}
	existing.IsUpvote = isUpvote
	return s.reactions.Update(ctx, existing)
}

// Remove withdraws a vote
func (s *ReactionService) Remove(ctx context.Context, user *models.User, target ports.ReactionTarget) error {
	existing, err := s.lookup(ctx, user, target)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.NewNotFoundError("Reaction", targetID(target))
	}
	return s.reactions.Delete(ctx, existing.ID)
}

// lookup checks the voted item exists and returns the user's current vote on it
func (s *ReactionService) lookup(ctx context.Context, user *models.User, target ports.ReactionTarget) (*models.Reaction, error) {
	if target.PostID != 0 {
		post, err := s.posts.GetByID(ctx, target.PostID)
		if err != nil {
			return nil, err
		}
		if post == nil {
			return nil, errors.NewNotFoundError("Post", targetID(target))
		}
	} else {
		comment, err := s.comments.GetByID(ctx, target.CommentID)
		if err != nil {
			return nil, err
		}
		if comment == nil {
			return nil, errors.NewNotFoundError("Comment", targetID(target))
		}
	}
	return s.reactions.Get(ctx, user.ID, target)
}

func targetField(t ports.ReactionTarget) string {
	if t.PostID != 0 {
		return "post_id"
	}
	return "comment_id"
}

func targetID(t ports.ReactionTarget) string {
	if t.PostID != 0 {
		return fmt.Sprint(t.PostID)
	}
	return fmt.Sprint(t.CommentID)
}
