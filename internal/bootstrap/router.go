// Package bootstrap assembles the HTTP router from the application context.
package bootstrap

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threaddit/backend/internal/app"
	"github.com/threaddit/backend/internal/interfaces/middleware"
	"github.com/threaddit/backend/internal/interfaces/rest"
)

// RouteGroup is one registrar of API routes.
type RouteGroup struct {
	Name     string
	Register func(gin.IRouter, *app.App)
}

// RouteGroups are registered in this order.
var RouteGroups = []RouteGroup{
	{Name: "users", Register: rest.RegisterUserRoutes},
	{Name: "threads", Register: rest.RegisterThreadRoutes},
	{Name: "posts", Register: rest.RegisterPostRoutes},
	{Name: "comments", Register: rest.RegisterCommentRoutes},
	{Name: "reactions", Register: rest.RegisterReactionRoutes},
	{Name: "messages", Register: rest.RegisterMessageRoutes},
}

// multipart overhead allowed on top of the upload ceiling
const formOverhead = 1 << 20

// NewRouter builds the engine: shared middleware, health check, every route
// group, then the SPA shell for whatever no route claims.
func NewRouter(a *app.App) *gin.Engine {
	if a.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// trailing-slash variants of API routes belong to the client router
	router.RedirectTrailingSlash = false
	router.MaxMultipartMemory = a.Config.MaxUploadBytes()
	router.Use(
		gin.Recovery(),
		middleware.Sentry(),
		middleware.RequestLogger(),
		middleware.CORS(a.Config.AllowedOrigins),
		middleware.BodyLimit(a.Config.MaxUploadBytes()+formOverhead),
		a.Login.LoadUser(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	for _, group := range RouteGroups {
		group.Register(router, a)
	}

	spa := NewSPA(a.Config.StaticFolder)
	router.GET("/", spa.Index)
	router.NoRoute(spa.Fallback)

	return router
}
