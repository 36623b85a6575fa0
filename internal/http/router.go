package http

import (
	"github.com/gin-gonic/gin"

	"github.com/causeway-org/causeway/internal/auth"
	"github.com/causeway-org/causeway/internal/entities"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before the session middleware so the session context
	// is layered on top of CSRF's request replacement.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadAndSave())
	}
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	authController := NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.SecureCookies)
	settingsController := NewSettingsController(cfg.Settings)
	campaignsController := NewCampaignsController(cfg.Campaigns, cfg.Donations)
	postsController := NewPostsController(cfg.Posts)
	eventsController := NewEventsController(cfg.Events)
	grantsController := NewGrantsController(cfg.Grants)
	menusController := NewMenusController(cfg.Menus, cfg.Cache)
	programsController := NewProgramsController(cfg.Programs, cfg.Projects)
	projectsController := NewProjectsController(cfg.Projects)
	categoriesController := NewCategoriesController(cfg.Categories)
	mediaController := NewMediaController(cfg.Media)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Auth endpoints
	router.POST("/api/auth/login", authController.Login)
	router.POST("/api/auth/logout", authController.Logout)
	router.GET("/api/auth/me", authController.Me)
	router.POST("/api/auth/password", auth.RequireAuth(), authController.ChangePassword)

	// Public content
	router.GET("/api/settings", settingsController.PublicSettings)
	router.GET("/api/campaigns", campaignsController.ListActive)
	router.GET("/api/campaigns/:slug", campaignsController.BySlug)
	router.POST("/api/campaigns/:slug/donations", campaignsController.Donate)
	router.GET("/api/posts", postsController.ListPublished)
	router.GET("/api/posts/search", postsController.Search)
	router.GET("/api/posts/:slug", postsController.BySlug)
	router.GET("/api/events", eventsController.ListUpcoming)
	router.GET("/api/events/:slug", eventsController.BySlug)
	router.GET("/api/grants", grantsController.ListOpen)
	router.POST("/api/grants/:id/applications", grantsController.Apply)
	router.GET("/api/menus/:location", menusController.ByLocation)
	router.GET("/api/programs", programsController.ListActive)
	router.GET("/api/programs/:slug", programsController.BySlug)
	router.GET("/api/projects", projectsController.ListOngoing)
	router.GET("/api/projects/:slug", projectsController.BySlug)
	router.GET("/api/categories", categoriesController.ListRoots)
	router.GET("/api/categories/:id/children", categoriesController.Children)

	// Editorial endpoints
	editorial := router.Group("/api/admin", auth.RequireAuth(),
		auth.RequireRole(entities.UserRoleAdmin, entities.UserRoleEditor))
	{
		editorial.POST("/posts", postsController.Create)
		editorial.POST("/posts/:id/publish", postsController.Publish)
		editorial.POST("/campaigns", campaignsController.Create)
		editorial.GET("/campaigns/:id/donations", campaignsController.CampaignDonations)
		editorial.POST("/donations/:id/complete", campaignsController.CompleteDonation)
		editorial.POST("/programs", programsController.Create)
		editorial.PUT("/programs/:id/schedule", programsController.ReplaceSchedule)
		editorial.POST("/categories", categoriesController.Create)
		editorial.DELETE("/categories/:id", categoriesController.Delete)
		editorial.GET("/media", mediaController.ListRecent)
		editorial.POST("/media", mediaController.Create)
		editorial.PUT("/menus/:id/items", menusController.SaveItems)
	}

	// Admin-only settings management
	admin := router.Group("/api/admin", auth.RequireAuth(),
		auth.RequireRole(entities.UserRoleAdmin))
	{
		admin.GET("/settings/:group", settingsController.Group)
		admin.PUT("/settings/:group", settingsController.UpdateGroup)
		admin.DELETE("/settings/:group/:key", settingsController.DeleteSetting)
	}

	return router
}
