package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threaddit/backend/internal/app"
	"github.com/threaddit/backend/internal/application/services"
	"github.com/threaddit/backend/internal/interfaces/middleware"
)

// ThreadHandler serves subthreads, subscriptions and moderator lists.
type ThreadHandler struct {
	svcMgr *services.ServiceManager
}

func NewThreadHandler(a *app.App) *ThreadHandler {
	return &ThreadHandler{svcMgr: a.Services}
}

// RegisterThreadRoutes mounts /api/threads and /api/thread.
func RegisterThreadRoutes(r gin.IRouter, a *app.App) {
	h := NewThreadHandler(a)
	required := a.Login.Required()

	threads := r.Group("/api/threads")
	threads.GET("", h.List)
	threads.GET("/search", h.Search)
	threads.GET("/:tid", h.Get)
	threads.POST("/subscription/:tid", required, h.Subscribe)
	threads.DELETE("/subscription/:tid", required, h.Unsubscribe)

	thread := r.Group("/api/thread")
	thread.GET("/:name", h.GetByName)
	thread.POST("", required, h.Create)
	thread.PATCH("/:tid", required, h.Update)
	thread.PUT("/mod/:tid/:username", required, h.AddModerator)
	thread.DELETE("/mod/:tid/:username", required, h.RemoveModerator)
}

type createThreadRequest struct {
	Name        string  `json:"name" form:"name" binding:"required,thread_name"`
	Description *string `json:"description" form:"description" binding:"omitempty,thread_description"`
	ContentURL  string  `json:"content_url" form:"content_url" binding:"omitempty,url"`
}

type updateThreadRequest struct {
	Description *string `json:"description" form:"description" binding:"omitempty,thread_description"`
	ContentURL  string  `json:"content_url" form:"content_url" binding:"omitempty,url"`
}

// List handles GET /api/threads
func (h *ThreadHandler) List(c *gin.Context) {
	listing, err := h.svcMgr.Threads.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Search handles GET /api/threads/search?name=
func (h *ThreadHandler) Search(c *gin.Context) {
	threads, err := h.svcMgr.Threads.Search(c.Request.Context(), middleware.CurrentUser(c), c.Query("name"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, threads)
}

// Get handles GET /api/threads/:tid
func (h *ThreadHandler) Get(c *gin.Context) {
	id, ok := ParamID(c, "tid", "Thread")
	if !ok {
		return
	}
	info, err := h.svcMgr.Threads.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetByName handles GET /api/thread/:name
func (h *ThreadHandler) GetByName(c *gin.Context) {
	info, err := h.svcMgr.Threads.GetByName(c.Request.Context(), middleware.CurrentUser(c), c.Param("name"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Create handles POST /api/thread with an optional "media" logo file.
func (h *ThreadHandler) Create(c *gin.Context) {
	var req createThreadRequest
	if !Bind(c, &req) {
		return
	}
	logo, closeLogo, err := FormMedia(c, "media")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	defer closeLogo()

	info, err := h.svcMgr.Threads.Create(c.Request.Context(), middleware.CurrentUser(c), services.ThreadInput{
		Name:        req.Name,
		Description: req.Description,
		Logo:        logo,
		ContentURL:  req.ContentURL,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// Update handles PATCH /api/thread/:tid
func (h *ThreadHandler) Update(c *gin.Context) {
	id, ok := ParamID(c, "tid", "Thread")
	if !ok {
		return
	}
	var req updateThreadRequest
	if !Bind(c, &req) {
		return
	}
	logo, closeLogo, err := FormMedia(c, "media")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	defer closeLogo()

	info, err := h.svcMgr.Threads.Update(c.Request.Context(), middleware.CurrentUser(c), id, services.ThreadInput{
		Description: req.Description,
		Logo:        logo,
		ContentURL:  req.ContentURL,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Subscribe handles POST /api/threads/subscription/:tid
func (h *ThreadHandler) Subscribe(c *gin.Context) {
	id, ok := ParamID(c, "tid", "Thread")
	if !ok {
		return
	}
	if err := h.svcMgr.Threads.Subscribe(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Subscribed")
}

// Unsubscribe handles DELETE /api/threads/subscription/:tid
func (h *ThreadHandler) Unsubscribe(c *gin.Context) {
	id, ok := ParamID(c, "tid", "Thread")
	if !ok {
		return
	}
	if err := h.svcMgr.Threads.Unsubscribe(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Unsubscribed")
}

// AddModerator handles PUT /api/thread/mod/:tid/:username
func (h *ThreadHandler) AddModerator(c *gin.Context) {
	id, ok := ParamID(c, "tid", "Thread")
	if !ok {
		return
	}
	if err := h.svcMgr.Threads.AddModerator(c.Request.Context(), middleware.CurrentUser(c), id, c.Param("username")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Moderator added")
}

// RemoveModerator handles DELETE /api/thread/mod/:tid/:username
func (h *ThreadHandler) RemoveModerator(c *gin.Context) {
	id, ok := ParamID(c, "tid", "Thread")
	if !ok {
		return
	}
	if err := h.svcMgr.Threads.RemoveModerator(c.Request.Context(), middleware.CurrentUser(c), id, c.Param("username")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Moderator removed")
}
