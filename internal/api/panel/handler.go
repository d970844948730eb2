package panel

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"cadchat/internal/domain"
	"cadchat/internal/service"
)

// Handler handles panel API requests
type Handler struct {
	panelService *service.PanelService
}

// NewHandler creates a new panel handler
func NewHandler(panelService *service.PanelService) *Handler {
	return &Handler{panelService: panelService}
}

// RegisterRoutes registers panel routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/config/:panel_id", h.GetConfig)
	r.POST("/chat/:panel_id", h.Chat)
	r.POST("/chat/:panel_id/stream", h.ChatStream)
}

// GetConfig returns the panel UI configuration
func (h *Handler) GetConfig(c *gin.Context) {
	panelID := c.Param("panel_id")

	config, err := h.panelService.GetPanelConfig(c.Request.Context(), panelID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "panel not found"})
		return
	}

	c.JSON(http.StatusOK, config)
}

// Chat handles a chat message
func (h *Handler) Chat(c *gin.Context) {
	panelID := c.Param("panel_id")

	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.panelService.Chat(c.Request.Context(), panelID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "panel not found"})
		case errors.Is(err, domain.ErrRequestInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ChatStream handles a streaming chat message (SSE)
func (h *Handler) ChatStream(c *gin.Context) {
	panelID := c.Param("panel_id")

	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The stream must be rejected before the SSE headers commit the
	// response, otherwise the panel would see a 200 for a refused turn.
	stream, err := h.panelService.ChatStream(c.Request.Context(), panelID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "panel not found"})
		case errors.Is(err, domain.ErrRequestInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		chunk, ok := <-stream
		if !ok {
			return false // End stream
		}
		data, _ := json.Marshal(chunk)
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", chunk.Type, string(data))
		return true
	})
}
