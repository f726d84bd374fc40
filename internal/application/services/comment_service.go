package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/pkg/errors"
	"github.com/threaddit/backend/pkg/validate"
)

// CommentService manages comment trees
type CommentService struct {
	comments ports.CommentRepository
	posts    *PostService
	mods     *ThreadService
}

// NewCommentService creates a new CommentService
func NewCommentService(comments ports.CommentRepository, posts *PostService, mods *ThreadService) *CommentService {
	return &CommentService{comments: comments, posts: posts, mods: mods}
}

// ForPost returns a post with its comments arranged as a tree
func (s *CommentService) ForPost(ctx context.Context, viewer *models.User, postID uint) (*models.PostThreadView, error) {
	post, err := s.posts.Get(ctx, viewer, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListForPost(ctx, postID, viewerID(viewer))
	if err != nil {
		return nil, err
	}
	return &models.PostThreadView{Post: post, Comments: BuildCommentTree(comments)}, nil
}

// BuildCommentTree nests comments under their parents. Input order is kept
// among siblings; comments whose parent is missing become roots.
func BuildCommentTree(comments []models.CommentInfo) []*models.CommentNode {
	nodes := make(map[uint]*models.CommentNode, len(comments))
	for _, c := range comments {
		nodes[c.Comment.ID] = &models.CommentNode{Comment: c, Children: []*models.CommentNode{}}
	}

	roots := []*models.CommentNode{}
	for _, c := range comments {
		node := nodes[c.Comment.ID]
		if c.Comment.ParentID != nil {
			if parent, ok := nodes[*c.Comment.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// CommentInput is the payload of a new or edited comment
type CommentInput struct {
	PostID   uint
	ParentID *uint
	Content  string
}

// Create adds a comment or a reply to a post
func (s *CommentService) Create(ctx context.Context, user *models.User, in CommentInput) (*models.CommentInfo, error) {
	if _, err := s.posts.mustExist(ctx, in.PostID); err != nil {
		return nil, err
	}
	content, err := commentBody(in.Content)
	if err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != in.PostID {
			return nil, errors.NewValidationError("parent_id", "Parent comment does not belong to this post.")
		}
	}

	comment := &models.Comment{UserID: user.ID, PostID: in.PostID, ParentID: in.ParentID, Content: content}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return s.info(ctx, user, comment.ID)
}

// Update edits a comment; authors only
func (s *CommentService) Update(ctx context.Context, user *models.User, id uint, content string) (*models.CommentInfo, error) {
	comment, err := s.mustExist(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != user.ID {
		return nil, errors.NewPermissionError("edit", "comment")
	}
	if comment.Content, err = commentBody(content); err != nil {
		return nil, err
	}
	comment.IsEdited = true
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return s.info(ctx, user, id)
}

// Delete removes a comment and its replies; authors, moderators and admins only
func (s *CommentService) Delete(ctx context.Context, user *models.User, id uint) error {
	comment, err := s.mustExist(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != user.ID {
		post, err := s.posts.mustExist(ctx, comment.PostID)
		if err != nil {
			return err
		}
		ok, err := s.mods.CanModerate(ctx, user, post.SubthreadID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.NewPermissionError("delete", "comment")
		}
	}
	return s.comments.Delete(ctx, id)
}

func (s *CommentService) info(ctx context.Context, viewer *models.User, id uint) (*models.CommentInfo, error) {
	info, err := s.comments.Info(ctx, id, viewerID(viewer))
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errors.NewNotFoundError("Comment", fmt.Sprint(id))
	}
	return info, nil
}

func (s *CommentService) mustExist(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, errors.NewNotFoundError("Comment", fmt.Sprint(id))
	}
	return comment, nil
}

func commentBody(content string) (string, error) {
	content = validate.SanitizeMarkdown(content)
	if strings.TrimSpace(content) == "" {
		return "", errors.NewValidationError("content", "Shorter than minimum length 1.")
	}
	return content, nil
}
