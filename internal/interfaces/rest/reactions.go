package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threaddit/backend/internal/app"
	"github.com/threaddit/backend/internal/application/services"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/internal/interfaces/middleware"
)

// ReactionHandler serves votes on posts and comments.
type ReactionHandler struct {
	svcMgr *services.ServiceManager
}

func NewReactionHandler(a *app.App) *ReactionHandler {
	return &ReactionHandler{svcMgr: a.Services}
}

// RegisterReactionRoutes mounts /api/reactions.
func RegisterReactionRoutes(r gin.IRouter, a *app.App) {
	h := NewReactionHandler(a)

	g := r.Group("/api/reactions", a.Login.Required())
	for _, kind := range []struct {
		path   string
		target func(*gin.Context) (ports.ReactionTarget, bool)
	}{
		{"/post/:pid", postTarget},
		{"/comment/:cid", commentTarget},
	} {
		g.PUT(kind.path, h.add(kind.target))
		g.PATCH(kind.path, h.change(kind.target))
		g.DELETE(kind.path, h.remove(kind.target))
	}
}

type reactionRequest struct {
	IsUpvote *bool `json:"is_upvote" binding:"required"`
}

func postTarget(c *gin.Context) (ports.ReactionTarget, bool) {
	id, ok := ParamID(c, "pid", "Post")
	return ports.ReactionTarget{PostID: id}, ok
}

func commentTarget(c *gin.Context) (ports.ReactionTarget, bool) {
	id, ok := ParamID(c, "cid", "Comment")
	return ports.ReactionTarget{CommentID: id}, ok
}

// add handles PUT; a second vote on the same item conflicts.
func (h *ReactionHandler) add(target func(*gin.Context) (ports.ReactionTarget, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := target(c)
		if !ok {
			return
		}
		var req reactionRequest
		if !BindJSON(c, &req) {
			return
		}
		if err := h.svcMgr.Reactions.Add(c.Request.Context(), middleware.CurrentUser(c), t, *req.IsUpvote); err != nil {
			RespondAppError(c, err)
			return
		}
		RespondMessage(c, http.StatusOK, "Reaction added")
	}
}

func (h *ReactionHandler) change(target func(*gin.Context) (ports.ReactionTarget, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := target(c)
		if !ok {
			return
		}
		var req reactionRequest
		if !BindJSON(c, &req) {
			return
		}
		if err := h.svcMgr.Reactions.Change(c.Request.Context(), middleware.CurrentUser(c), t, *req.IsUpvote); err != nil {
			RespondAppError(c, err)
			return
		}
		RespondMessage(c, http.StatusOK, "Reaction updated")
	}
}

func (h *ReactionHandler) remove(target func(*gin.Context) (ports.ReactionTarget, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := target(c)
		if !ok {
			return
		}
		if err := h.svcMgr.Reactions.Remove(c.Request.Context(), middleware.CurrentUser(c), t); err != nil {
			RespondAppError(c, err)
			return
		}
		RespondMessage(c, http.StatusOK, "Reaction removed")
	}
}
