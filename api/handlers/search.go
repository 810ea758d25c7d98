package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/branch-messaging/backend/internal/model"
	"github.com/branch-messaging/backend/internal/repository"
)

// SearchHandler handles HTTP requests for cross-entity search.
type SearchHandler struct {
	conversations *repository.ConversationRepository
	customers     *repository.CustomerRepository
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(conversations *repository.ConversationRepository, customers *repository.CustomerRepository) *SearchHandler {
	return &SearchHandler{conversations: conversations, customers: customers}
}

// Search handles GET /api/search?q= - searches conversations (by subject
// and message content) and customers (by name, email, phone).
func (h *SearchHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Query parameter q is required")
		return
	}

	conversations, err := h.conversations.Search(c.Request.Context(), q)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search conversations: "+err.Error())
		return
	}
	if conversations == nil {
		conversations = []*model.ConversationListItem{}
	}

	customers, err := h.customers.Search(c.Request.Context(), q)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search customers: "+err.Error())
		return
	}
	if customers == nil {
		customers = []*model.Customer{}
	}

	c.JSON(http.StatusOK, &model.SearchResult{
		Conversations: conversations,
		Customers:     customers,
		TotalResults:  len(conversations) + len(customers),
	})
}

// RegisterRoutes registers the search route on a Gin router group.
func (h *SearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
}
