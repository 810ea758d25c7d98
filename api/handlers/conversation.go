package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/branch-messaging/backend/internal/classifier"
	"github.com/branch-messaging/backend/internal/hub"
	"github.com/branch-messaging/backend/internal/model"
	"github.com/branch-messaging/backend/internal/repository"
)

// ConversationHandler handles HTTP requests for conversations.
type ConversationHandler struct {
	conversations *repository.ConversationRepository
	messages      *repository.MessageRepository
	customers     *repository.CustomerRepository
	hub           *hub.Hub
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(
	conversations *repository.ConversationRepository,
	messages *repository.MessageRepository,
	customers *repository.CustomerRepository,
	h *hub.Hub,
) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		messages:      messages,
		customers:     customers,
		hub:           h,
	}
}

// List handles GET /api/conversations - lists conversations, optionally
// filtered by status and priority query parameters.
func (h *ConversationHandler) List(c *gin.Context) {
	status := c.Query("status")
	priority := c.Query("priority")

	items, err := h.conversations.List(c.Request.Context(), status, priority)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list conversations: "+err.Error())
		return
	}
	if items == nil {
		items = []*model.ConversationListItem{}
	}
	c.JSON(http.StatusOK, items)
}

// conversationDetail is a conversation with its full message history.
type conversationDetail struct {
	*model.Conversation
	Messages []*model.Message `json:"messages"`
}

// Get handles GET /api/conversations/:id - gets a conversation with its
// messages and marks the customer messages as read.
func (h *ConversationHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid conversation ID")
		return
	}

	conv, err := h.conversations.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrConversationNotFound) {
			sendError(c, http.StatusNotFound, "CONVERSATION_NOT_FOUND", "Conversation not found")
			return
		}
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get conversation: "+err.Error())
		return
	}

	messages, err := h.messages.ListByConversation(c.Request.Context(), id)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list messages: "+err.Error())
		return
	}
	if messages == nil {
		messages = []*model.Message{}
	}

	if err := h.messages.MarkConversationRead(c.Request.Context(), id); err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark messages read: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, &conversationDetail{Conversation: conv, Messages: messages})
}

// Create handles POST /api/conversations - opens a conversation from an
// inbound customer message. The message is classified and the
// conversation inherits its priority; a new_conversation event is
// broadcast to all connected agents.
func (h *ConversationHandler) Create(c *gin.Context) {
	var req model.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customers.GetByID(c.Request.Context(), req.CustomerID)
	if err != nil {
		if errors.Is(err, model.ErrCustomerNotFound) {
			sendError(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found")
			return
		}
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get customer: "+err.Error())
		return
	}

	priority, confidence := classifier.Classify(req.Content)

	subject := req.Subject
	if subject == "" {
		subject = truncateSubject(req.Content)
	}

	conv := &model.Conversation{
		CustomerID: customer.ID,
		Status:     model.ConversationStatusOpen,
		Priority:   priority,
		Subject:    subject,
	}
	if err := h.conversations.Create(c.Request.Context(), conv); err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create conversation: "+err.Error())
		return
	}

	msg := &model.Message{
		ConversationID: conv.ID,
		CustomerID:     &customer.ID,
		Content:        req.Content,
		IsFromCustomer: true,
		Priority:       priority,
		Confidence:     confidence,
	}
	if err := h.messages.Create(c.Request.Context(), msg); err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create message: "+err.Error())
		return
	}

	h.hub.BroadcastNewConversation(map[string]any{
		"id":             conv.ID,
		"customer_id":    customer.ID,
		"priority":       conv.Priority,
		"status":         conv.Status,
		"subject":        conv.Subject,
		"customer_name":  customer.Name,
		"customer_email": customer.Email,
	})

	conv.Customer = customer
	c.JSON(http.StatusCreated, &conversationDetail{Conversation: conv, Messages: []*model.Message{msg}})
}

// Update handles PATCH /api/conversations/:id - applies a partial update
// (status, priority, assignment) and broadcasts a conversation_update.
func (h *ConversationHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid conversation ID")
		return
	}

	var req model.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error())
		return
	}
	if req.Priority != nil && !req.Priority.Valid() {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid priority")
		return
	}

	conv, err := h.conversations.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, model.ErrConversationNotFound) {
			sendError(c, http.StatusNotFound, "CONVERSATION_NOT_FOUND", "Conversation not found")
			return
		}
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update conversation: "+err.Error())
		return
	}

	update := map[string]any{
		"id":       conv.ID,
		"status":   conv.Status,
		"priority": conv.Priority,
	}
	if conv.AgentID != nil {
		update["agent_id"] = *conv.AgentID
	}
	if conv.AssignedAgent != nil {
		update["agent_name"] = conv.AssignedAgent.Name
	}
	h.hub.BroadcastConversationUpdate(update)

	c.JSON(http.StatusOK, conv)
}

// Viewers handles GET /api/conversations/:id/viewers - returns the agents
// currently viewing the conversation.
func (h *ConversationHandler) Viewers(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid conversation ID")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": id,
		"agent_ids":       h.hub.AgentsViewing(id),
	})
}

// Stats handles GET /api/stats - returns conversation counts for the
// dashboard header.
func (h *ConversationHandler) Stats(c *gin.Context) {
	stats, err := h.conversations.Stats(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get stats: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RegisterRoutes registers the conversation handler routes on a Gin router group.
func (h *ConversationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	conversations := rg.Group("/conversations")
	{
		conversations.GET("", h.List)
		conversations.POST("", h.Create)
		conversations.GET("/:id", h.Get)
		conversations.PATCH("/:id", h.Update)
		conversations.GET("/:id/viewers", h.Viewers)
	}
	rg.GET("/stats", h.Stats)
}

// truncateSubject derives a conversation subject from the first message.
func truncateSubject(content string) string {
	runes := []rune(content)
	if len(runes) > 100 {
		return string(runes[:100])
	}
	return content
}
