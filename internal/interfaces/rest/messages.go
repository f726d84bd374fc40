package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threaddit/backend/internal/app"
	"github.com/threaddit/backend/internal/application/services"
	"github.com/threaddit/backend/internal/interfaces/middleware"
)

// MessageHandler serves private messages.
type MessageHandler struct {
	svcMgr *services.ServiceManager
}

func NewMessageHandler(a *app.App) *MessageHandler {
	return &MessageHandler{svcMgr: a.Services}
}

// RegisterMessageRoutes mounts /api/messages; every route needs a session.
func RegisterMessageRoutes(r gin.IRouter, a *app.App) {
	h := NewMessageHandler(a)

	g := r.Group("/api/messages", a.Login.Required())
	g.GET("/inbox", h.Inbox)
	g.GET("/all/:user_id", h.Conversation)
	g.POST("", h.Send)
}

type sendMessageRequest struct {
	Receiver string `json:"receiver" binding:"required"`
	Content  string `json:"content" binding:"required,message_body"`
}

// Inbox handles GET /api/messages/inbox
func (h *MessageHandler) Inbox(c *gin.Context) {
	messages, err := h.svcMgr.Messages.Inbox(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// Conversation handles GET /api/messages/all/:user_id
func (h *MessageHandler) Conversation(c *gin.Context) {
	otherID, ok := ParamID(c, "user_id", "User")
	if !ok {
		return
	}
	messages, err := h.svcMgr.Messages.Conversation(c.Request.Context(), middleware.CurrentUser(c), otherID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// Send handles POST /api/messages
func (h *MessageHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if !BindJSON(c, &req) {
		return
	}
	message, err := h.svcMgr.Messages.Send(c.Request.Context(), middleware.CurrentUser(c), req.Receiver, req.Content)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}
