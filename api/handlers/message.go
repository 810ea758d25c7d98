package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/branch-messaging/backend/internal/classifier"
	"github.com/branch-messaging/backend/internal/hub"
	"github.com/branch-messaging/backend/internal/model"
	"github.com/branch-messaging/backend/internal/repository"
)

// MessageHandler handles HTTP requests for messages within conversations.
// Posting a customer message runs the classifier, persists the result, and
// then fans the enriched event out to all connected agents.
type MessageHandler struct {
	messages      *repository.MessageRepository
	conversations *repository.ConversationRepository
	customers     *repository.CustomerRepository
	agents        *repository.AgentRepository
	hub           *hub.Hub
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(
	messages *repository.MessageRepository,
	conversations *repository.ConversationRepository,
	customers *repository.CustomerRepository,
	agents *repository.AgentRepository,
	h *hub.Hub,
) *MessageHandler {
	return &MessageHandler{
		messages:      messages,
		conversations: conversations,
		customers:     customers,
		agents:        agents,
		hub:           h,
	}
}

// newMessagePayload is the new_message event payload: the stored message
// enriched with display names and, for customer messages, the triage
// signals.
type newMessagePayload struct {
	*model.Message
	CustomerName string                `json:"customer_name,omitempty"`
	AgentName    string                `json:"agent_name,omitempty"`
	Sentiment    *classifier.Sentiment `json:"sentiment,omitempty"`
	Keywords     []string              `json:"keywords,omitempty"`
}

// List handles GET /api/conversations/:id/messages.
func (h *MessageHandler) List(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid conversation ID")
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
	c.JSON(http.StatusOK, messages)
}

// Create handles POST /api/conversations/:id/messages - posts a message to
// a conversation. Customer messages are classified for priority and
// sentiment; if the message outranks the conversation's current priority
// the conversation is escalated. A new_message event is broadcast either
// way.
func (h *MessageHandler) Create(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid conversation ID")
		return
	}

	var req model.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
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

	msg := &model.Message{
		ConversationID: conv.ID,
		Content:        req.Content,
		IsFromCustomer: req.IsFromCustomer,
	}

	payload := &newMessagePayload{Message: msg}

	if req.IsFromCustomer {
		priority, confidence := classifier.Classify(req.Content)
		sentiment := classifier.AnalyzeSentiment(req.Content)
		msg.CustomerID = &conv.CustomerID
		msg.Priority = priority
		msg.Confidence = confidence
		payload.Sentiment = &sentiment
		payload.Keywords = classifier.ExtractKeywords(req.Content)
		if conv.Customer != nil {
			payload.CustomerName = conv.Customer.Name
		}
	} else {
		agent, err := h.agents.GetByID(c.Request.Context(), *req.AgentID)
		if err != nil {
			if errors.Is(err, model.ErrAgentNotFound) {
				sendError(c, http.StatusNotFound, "AGENT_NOT_FOUND", "Agent not found")
				return
			}
			sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get agent: "+err.Error())
			return
		}
		msg.AgentID = &agent.ID
		msg.Priority = conv.Priority
		msg.Confidence = 1.0
		payload.AgentName = agent.Name
	}

	if err := h.messages.Create(c.Request.Context(), msg); err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create message: "+err.Error())
		return
	}

	// Escalate the conversation if the new message outranks it.
	if req.IsFromCustomer && msg.Priority.Rank() > conv.Priority.Rank() {
		if err := h.conversations.UpdatePriority(c.Request.Context(), conv.ID, msg.Priority); err != nil {
			log.Printf("handlers: failed to escalate conversation %d: %v", conv.ID, err)
		} else {
			h.hub.BroadcastConversationUpdate(map[string]any{
				"id":       conv.ID,
				"priority": msg.Priority,
			})
		}
	} else if err := h.conversations.Touch(c.Request.Context(), conv.ID); err != nil {
		log.Printf("handlers: failed to touch conversation %d: %v", conv.ID, err)
	}

	if req.IsFromCustomer {
		if err := h.customers.TouchActivity(c.Request.Context(), conv.CustomerID); err != nil {
			log.Printf("handlers: failed to touch customer %d: %v", conv.CustomerID, err)
		}
	}

	h.hub.BroadcastNewMessage(payload)

	c.JSON(http.StatusCreated, payload)
}

// RegisterRoutes registers the message handler routes on a Gin router group.
func (h *MessageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/conversations/:id/messages", h.List)
	rg.POST("/conversations/:id/messages", h.Create)
}
