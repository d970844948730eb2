// Package docsapi exposes the documentation index over HTTP for the external
// code-generation collaborators. All routes are read-only; the index itself
// is rebuilt offline by cmd/docsgen.
package docsapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cadchat/internal/service"
)

// Handler handles docs API requests
type Handler struct {
	docsService *service.DocsService
}

// NewHandler creates a new docs handler
func NewHandler(docsService *service.DocsService) *Handler {
	return &Handler{docsService: docsService}
}

// RegisterRoutes registers docs routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/topics/:name", h.GetTopic)
	r.GET("/errors/:code", h.GetError)
	r.GET("/patterns/:name", h.GetPattern)
	r.GET("/search", h.Search)
	r.GET("/context", h.Context)
}

// GetTopic returns one API topic by exact key
func (h *Handler) GetTopic(c *gin.Context) {
	topic, ok := h.docsService.Index().Lookup(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "topic not found"})
		return
	}
	c.JSON(http.StatusOK, topic)
}

// GetError returns one error code record by exact key
func (h *Handler) GetError(c *gin.Context) {
	ec, ok := h.docsService.Index().LookupError(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "error code not found"})
		return
	}
	c.JSON(http.StatusOK, ec)
}

// GetPattern returns one code pattern by exact key
func (h *Handler) GetPattern(c *gin.Context) {
	cp, ok := h.docsService.Index().LookupPattern(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "pattern not found"})
		return
	}
	c.JSON(http.StatusOK, cp)
}

// Search returns the sections relevant to a free-text query
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}

	res := h.docsService.Index().Relevant(query)
	c.JSON(http.StatusOK, gin.H{
		"topics":    res.Topics,
		"errors":    res.Errors,
		"practices": res.Practices,
	})
}

// Context returns the relevant sections rendered as a prompt context block
func (h *Handler) Context(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}

	context := h.docsService.Index().Relevant(query).FormatContext()
	c.JSON(http.StatusOK, gin.H{"context": context})
}
