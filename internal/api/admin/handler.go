package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cadchat/internal/domain"
	"cadchat/internal/service"
)

// Handler handles admin API requests
type Handler struct {
	adminService *service.AdminService
	docsService  *service.DocsService
}

// NewHandler creates a new admin handler
func NewHandler(adminService *service.AdminService, docsService *service.DocsService) *Handler {
	return &Handler{
		adminService: adminService,
		docsService:  docsService,
	}
}

// RegisterRoutes registers admin routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	panels := r.Group("/panels")
	{
		panels.POST("", h.CreatePanel)
		panels.GET("", h.ListPanels)
		panels.GET("/:id", h.GetPanel)
		panels.PUT("/:id", h.UpdatePanel)
		panels.DELETE("/:id", h.DeletePanel)
		panels.GET("/:id/sessions", h.ListSessions)
	}

	sessions := r.Group("/sessions")
	{
		sessions.GET("/:id/messages", h.GetMessages)
	}

	r.POST("/docs/reload", h.ReloadDocs)
	r.GET("/stats", h.GetStats)
}

// Panel handlers

func (h *Handler) CreatePanel(c *gin.Context) {
	var req domain.CreatePanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	panel, err := h.adminService.CreatePanel(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, panel)
}

func (h *Handler) ListPanels(c *gin.Context) {
	panels, err := h.adminService.ListPanels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"panels": panels})
}

func (h *Handler) GetPanel(c *gin.Context) {
	id := c.Param("id")
	panel, err := h.adminService.GetPanel(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if panel == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "panel not found"})
		return
	}

	c.JSON(http.StatusOK, panel)
}

func (h *Handler) UpdatePanel(c *gin.Context) {
	id := c.Param("id")
	var req domain.UpdatePanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	panel, err := h.adminService.UpdatePanel(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "panel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, panel)
}

func (h *Handler) DeletePanel(c *gin.Context) {
	id := c.Param("id")
	if err := h.adminService.DeletePanel(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// Session handlers

func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.adminService.ListSessions(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *Handler) GetMessages(c *gin.Context) {
	messages, err := h.adminService.GetMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Docs handlers

func (h *Handler) ReloadDocs(c *gin.Context) {
	if err := h.docsService.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	topics, errorCodes, patterns := h.docsService.Index().Counts()
	c.JSON(http.StatusOK, gin.H{
		"topics":      topics,
		"error_codes": errorCodes,
		"patterns":    patterns,
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
