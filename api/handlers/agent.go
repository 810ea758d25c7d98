package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/branch-messaging/backend/internal/hub"
	"github.com/branch-messaging/backend/internal/model"
	"github.com/branch-messaging/backend/internal/repository"
)

// AgentHandler handles HTTP requests for agent accounts.
type AgentHandler struct {
	agents *repository.AgentRepository
	hub    *hub.Hub
}

// NewAgentHandler creates a new AgentHandler.
func NewAgentHandler(agents *repository.AgentRepository, h *hub.Hub) *AgentHandler {
	return &AgentHandler{agents: agents, hub: h}
}

// agentResponse decorates an agent with its live connection state.
type agentResponse struct {
	*model.Agent
	Connected bool `json:"connected"`
}

// List handles GET /api/agents - lists all agents with connection state.
func (h *AgentHandler) List(c *gin.Context) {
	agents, err := h.agents.List(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list agents: "+err.Error())
		return
	}

	response := make([]*agentResponse, len(agents))
	for i, agent := range agents {
		response[i] = &agentResponse{Agent: agent, Connected: h.hub.IsAgentConnected(agent.ID)}
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/agents/:id - gets a specific agent.
func (h *AgentHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid agent ID")
		return
	}

	agent, err := h.agents.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrAgentNotFound) {
			sendError(c, http.StatusNotFound, "AGENT_NOT_FOUND", "Agent not found")
			return
		}
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get agent: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, &agentResponse{Agent: agent, Connected: h.hub.IsAgentConnected(agent.ID)})
}

// UpdateStatusRequest is the payload for toggling agent availability.
type UpdateStatusRequest struct {
	IsOnline bool `json:"is_online"`
}

// UpdateStatus handles PUT /api/agents/:id/status - toggles online status.
func (h *AgentHandler) UpdateStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid agent ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error())
		return
	}

	if err := h.agents.SetOnline(c.Request.Context(), id, req.IsOnline); err != nil {
		if errors.Is(err, model.ErrAgentNotFound) {
			sendError(c, http.StatusNotFound, "AGENT_NOT_FOUND", "Agent not found")
			return
		}
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update agent status: "+err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the agent handler routes on a Gin router group.
func (h *AgentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	agents := rg.Group("/agents")
	{
		agents.GET("", h.List)
		agents.GET("/:id", h.Get)
		agents.PUT("/:id/status", h.UpdateStatus)
	}
}
