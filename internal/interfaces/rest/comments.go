package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threaddit/backend/internal/app"
	"github.com/threaddit/backend/internal/application/services"
	"github.com/threaddit/backend/internal/interfaces/middleware"
)

// CommentHandler serves comment trees and comment edits.
type CommentHandler struct {
	svcMgr *services.ServiceManager
}

func NewCommentHandler(a *app.App) *CommentHandler {
	return &CommentHandler{svcMgr: a.Services}
}

// RegisterCommentRoutes mounts /api/comments.
func RegisterCommentRoutes(r gin.IRouter, a *app.App) {
	h := NewCommentHandler(a)
	required := a.Login.Required()

	g := r.Group("/api/comments")
	g.GET("/post/:pid", h.ForPost)
	g.POST("", required, h.Create)
	g.PATCH("/:cid", required, h.Update)
	g.DELETE("/:cid", required, h.Delete)
}

type createCommentRequest struct {
	PostID   uint   `json:"post_id" binding:"required"`
	ParentID *uint  `json:"parent_id"`
	Content  string `json:"content" binding:"required,comment_body"`
}

type updateCommentRequest struct {
	Content string `json:"content" binding:"required,comment_body"`
}

// ForPost handles GET /api/comments/post/:pid
func (h *CommentHandler) ForPost(c *gin.Context) {
	id, ok := ParamID(c, "pid", "Post")
	if !ok {
		return
	}
	view, err := h.svcMgr.Comments.ForPost(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Create handles POST /api/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if !BindJSON(c, &req) {
		return
	}
	info, err := h.svcMgr.Comments.Create(c.Request.Context(), middleware.CurrentUser(c), services.CommentInput{
		PostID:   req.PostID,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// Update handles PATCH /api/comments/:cid
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := ParamID(c, "cid", "Comment")
	if !ok {
		return
	}
	var req updateCommentRequest
	if !BindJSON(c, &req) {
		return
	}
	info, err := h.svcMgr.Comments.Update(c.Request.Context(), middleware.CurrentUser(c), id, req.Content)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Delete handles DELETE /api/comments/:cid; replies are removed with it.
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := ParamID(c, "cid", "Comment")
	if !ok {
		return
	}
	if err := h.svcMgr.Comments.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Comment deleted")
}
