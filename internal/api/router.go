package api

import (
	"github.com/gin-gonic/gin"

	"cadchat/internal/api/admin"
	"cadchat/internal/api/docsapi"
	"cadchat/internal/api/middleware"
	"cadchat/internal/api/panel"
	"cadchat/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	adminService *service.AdminService,
	panelService *service.PanelService,
	docsService *service.DocsService,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Panel API (public, based on panel_id)
	panelHandler := panel.NewHandler(panelService)
	panelGroup := r.Group("/api/panel")
	panelHandler.RegisterRoutes(panelGroup)

	// Docs API (public, read-only)
	docsHandler := docsapi.NewHandler(docsService)
	docsGroup := r.Group("/api/docs")
	docsHandler.RegisterRoutes(docsGroup)

	// Admin API (requires API key)
	adminHandler := admin.NewHandler(adminService, docsService)
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.Auth(cfg.APIKey))
	adminHandler.RegisterRoutes(adminGroup)

	return r
}
