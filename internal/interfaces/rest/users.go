package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threaddit/backend/internal/app"
	"github.com/threaddit/backend/internal/application/services"
	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/internal/interfaces/middleware"
	"github.com/threaddit/backend/pkg/logger"
)

// UserHandler serves accounts, sessions and profiles.
type UserHandler struct {
	svcMgr *services.ServiceManager
	login  *middleware.LoginManager
}

func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{svcMgr: a.Services, login: a.Login}
}

// RegisterUserRoutes mounts the /api/user group.
func RegisterUserRoutes(r gin.IRouter, a *app.App) {
	h := NewUserHandler(a)
	required := a.Login.Required()

	g := r.Group("/api/user")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.GET("/logout", required, h.Logout)
	g.GET("", required, h.Me)
	g.PATCH("", required, h.Update)
	g.DELETE("", required, h.Delete)
	g.GET("/search/:query", required, h.Search)
	g.GET("/:username", h.Profile)
}

type registerRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateUserRequest struct {
	Bio        *string `json:"bio" form:"bio" binding:"omitempty,bio"`
	ContentURL string  `json:"content_url" form:"content_url" binding:"omitempty,url"`
}

// Register handles POST /api/user/register and opens a session for the new account.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSON(c, &req) {
		return
	}

	user, err := h.svcMgr.Users.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	h.startSession(c, user, http.StatusCreated)
}

// Login handles POST /api/user/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSON(c, &req) {
		return
	}

	user, err := h.svcMgr.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	h.startSession(c, user, http.StatusOK)
}

func (h *UserHandler) startSession(c *gin.Context, user *models.User, status int) {
	ctx := c.Request.Context()
	result, err := h.svcMgr.Auth.Login(ctx, user, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	h.login.SetSessionCookie(c, result.Token, result.ExpiresAt)

	info, err := h.svcMgr.Users.Me(ctx, user)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(status, info)
}

// Logout handles GET /api/user/logout
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.svcMgr.Auth.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		RespondAppError(c, err)
		return
	}
	h.login.ClearSessionCookie(c)
	RespondMessage(c, http.StatusOK, "Successfully logged out")
}

// Me handles GET /api/user
func (h *UserHandler) Me(c *gin.Context) {
	info, err := h.svcMgr.Users.Me(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Update handles PATCH /api/user with either a JSON or multipart body.
func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if !Bind(c, &req) {
		return
	}
	avatar, closeAvatar, err := FormMedia(c, "avatar")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	defer closeAvatar()

	info, err := h.svcMgr.Users.Update(c.Request.Context(), middleware.CurrentUser(c), services.UpdateUserInput{
		Bio:        req.Bio,
		Avatar:     avatar,
		ContentURL: req.ContentURL,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Delete handles DELETE /api/user
func (h *UserHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	if err := h.svcMgr.Auth.RevokeAll(ctx, user.ID); err != nil {
		logger.For(c).WithError(err).Warn("could not revoke sessions before account deletion")
	}
	if err := h.svcMgr.Users.Delete(ctx, user); err != nil {
		RespondAppError(c, err)
		return
	}
	h.login.ClearSessionCookie(c)
	RespondMessage(c, http.StatusOK, "Account deleted")
}

// Profile handles GET /api/user/:username
func (h *UserHandler) Profile(c *gin.Context) {
	info, err := h.svcMgr.Users.Profile(c.Request.Context(), c.Param("username"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Search handles GET /api/user/search/:query
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.svcMgr.Users.Search(c.Request.Context(), c.Param("query"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
