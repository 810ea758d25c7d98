package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/branch-messaging/backend/internal/model"
	"github.com/branch-messaging/backend/internal/repository"
)

// CannedMessageHandler handles HTTP requests for canned reply templates.
type CannedMessageHandler struct {
	canned *repository.CannedMessageRepository
}

// NewCannedMessageHandler creates a new CannedMessageHandler.
func NewCannedMessageHandler(canned *repository.CannedMessageRepository) *CannedMessageHandler {
	return &CannedMessageHandler{canned: canned}
}

// List handles GET /api/canned-messages - lists templates, most used first.
func (h *CannedMessageHandler) List(c *gin.Context) {
	canned, err := h.canned.List(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list canned messages: "+err.Error())
		return
	}
	if canned == nil {
		canned = []*model.CannedMessage{}
	}
	c.JSON(http.StatusOK, canned)
}

// CreateCannedRequest is the payload for creating a template.
type CreateCannedRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
	Shortcut string `json:"shortcut"`
}

// Create handles POST /api/canned-messages - creates a template.
func (h *CannedMessageHandler) Create(c *gin.Context) {
	var req CreateCannedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error())
		return
	}

	canned := &model.CannedMessage{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Shortcut: req.Shortcut,
	}
	if err := h.canned.Create(c.Request.Context(), canned); err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create canned message: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, canned)
}

// Use handles POST /api/canned-messages/:id/use - records a template use.
func (h *CannedMessageHandler) Use(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid canned message ID")
		return
	}

	if err := h.canned.IncrementUsage(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrCannedMessageNotFound) {
			sendError(c, http.StatusNotFound, "CANNED_MESSAGE_NOT_FOUND", "Canned message not found")
			return
		}
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record usage: "+err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the canned message routes on a Gin router group.
func (h *CannedMessageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	canned := rg.Group("/canned-messages")
	{
		canned.GET("", h.List)
		canned.POST("", h.Create)
		canned.POST("/:id/use", h.Use)
	}
}
