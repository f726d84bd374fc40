package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threaddit/backend/internal/app"
	"github.com/threaddit/backend/internal/application/services"
	"github.com/threaddit/backend/internal/interfaces/middleware"
)

// PostHandler serves feeds, posts and bookmarks.
type PostHandler struct {
	svcMgr *services.ServiceManager
}

func NewPostHandler(a *app.App) *PostHandler {
	return &PostHandler{svcMgr: a.Services}
}

// RegisterPostRoutes mounts /api/posts and /api/post.
func RegisterPostRoutes(r gin.IRouter, a *app.App) {
	h := NewPostHandler(a)
	required := a.Login.Required()

	posts := r.Group("/api/posts")
	posts.GET("/saved", required, h.Saved)
	posts.PUT("/saved/:pid", required, h.Save)
	posts.DELETE("/saved/:pid", required, h.Unsave)
	posts.GET("/thread/:tid", h.ByThread)
	posts.GET("/user/:username", h.ByUser)
	posts.GET("/:feed", h.Feed)

	post := r.Group("/api/post")
	post.POST("", required, h.Create)
	post.GET("/:pid", h.Get)
	post.PATCH("/:pid", required, h.Update)
	post.DELETE("/:pid", required, h.Delete)
}

type listQueryParams struct {
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
	SortBy   string `form:"sortby" binding:"omitempty,oneof=hot top new"`
	Duration string `form:"duration" binding:"omitempty,oneof=day week month year alltime"`
}

func (p listQueryParams) query() services.ListQuery {
	return services.ListQuery{SortBy: p.SortBy, Duration: p.Duration, Limit: p.Limit, Offset: p.Offset}
}

type createPostRequest struct {
	SubthreadID uint    `json:"subthread_id" form:"subthread_id" binding:"required"`
	Title       string  `json:"title" form:"title" binding:"required,post_title"`
	Content     *string `json:"content" form:"content"`
	ContentType string  `json:"content_type" form:"content_type" binding:"omitempty,content_type"`
	ContentURL  string  `json:"content_url" form:"content_url" binding:"omitempty,url"`
}

type updatePostRequest struct {
	Title       *string `json:"title" form:"title" binding:"omitempty,post_title"`
	Content     *string `json:"content" form:"content"`
	ContentType string  `json:"content_type" form:"content_type" binding:"omitempty,content_type"`
	ContentURL  string  `json:"content_url" form:"content_url" binding:"omitempty,url"`
}

// Feed handles GET /api/posts/:feed
func (h *PostHandler) Feed(c *gin.Context) {
	var params listQueryParams
	if !BindQuery(c, &params) {
		return
	}
	posts, err := h.svcMgr.Posts.Feed(c.Request.Context(), middleware.CurrentUser(c), c.Param("feed"), params.query())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// ByThread handles GET /api/posts/thread/:tid
func (h *PostHandler) ByThread(c *gin.Context) {
	id, ok := ParamID(c, "tid", "Thread")
	if !ok {
		return
	}
	var params listQueryParams
	if !BindQuery(c, &params) {
		return
	}
	posts, err := h.svcMgr.Posts.ByThread(c.Request.Context(), middleware.CurrentUser(c), id, params.query())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// ByUser handles GET /api/posts/user/:username
func (h *PostHandler) ByUser(c *gin.Context) {
	var params listQueryParams
	if !BindQuery(c, &params) {
		return
	}
	posts, err := h.svcMgr.Posts.ByUser(c.Request.Context(), middleware.CurrentUser(c), c.Param("username"), params.query())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Saved handles GET /api/posts/saved
func (h *PostHandler) Saved(c *gin.Context) {
	var params listQueryParams
	if !BindQuery(c, &params) {
		return
	}
	posts, err := h.svcMgr.Posts.Saved(c.Request.Context(), middleware.CurrentUser(c), params.query())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Save handles PUT /api/posts/saved/:pid
func (h *PostHandler) Save(c *gin.Context) {
	id, ok := ParamID(c, "pid", "Post")
	if !ok {
		return
	}
	if err := h.svcMgr.Posts.Save(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Saved")
}

// Unsave handles DELETE /api/posts/saved/:pid
func (h *PostHandler) Unsave(c *gin.Context) {
	id, ok := ParamID(c, "pid", "Post")
	if !ok {
		return
	}
	if err := h.svcMgr.Posts.Unsave(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Unsaved")
}

// Get handles GET /api/post/:pid
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := ParamID(c, "pid", "Post")
	if !ok {
		return
	}
	info, err := h.svcMgr.Posts.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Create handles POST /api/post with an optional "media" file.
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if !Bind(c, &req) {
		return
	}
	file, closeFile, err := FormMedia(c, "media")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	defer closeFile()

	info, err := h.svcMgr.Posts.Create(c.Request.Context(), middleware.CurrentUser(c), services.PostInput{
		ThreadID:    req.SubthreadID,
		Title:       &req.Title,
		Content:     req.Content,
		ContentType: req.ContentType,
		ContentURL:  req.ContentURL,
		Media:       file,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// Update handles PATCH /api/post/:pid
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := ParamID(c, "pid", "Post")
	if !ok {
		return
	}
	var req updatePostRequest
	if !Bind(c, &req) {
		return
	}
	file, closeFile, err := FormMedia(c, "media")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	defer closeFile()

	info, err := h.svcMgr.Posts.Update(c.Request.Context(), middleware.CurrentUser(c), id, services.PostInput{
		Title:       req.Title,
		Content:     req.Content,
		ContentType: req.ContentType,
		ContentURL:  req.ContentURL,
		Media:       file,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Delete handles DELETE /api/post/:pid
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := ParamID(c, "pid", "Post")
	if !ok {
		return
	}
	if err := h.svcMgr.Posts.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Post deleted")
}
