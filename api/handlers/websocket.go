package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/branch-messaging/backend/internal/hub"
)

// WebSocketHandler handles WebSocket connections for live agent sessions.
type WebSocketHandler struct {
	wsHandler *hub.Handler
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(wsHandler *hub.Handler) *WebSocketHandler {
	return &WebSocketHandler{wsHandler: wsHandler}
}

// Connect handles GET /ws?agent_id=N - upgrades to WebSocket and registers
// the session with the hub. Omitting agent_id connects an anonymous
// session that receives broadcasts but has no presence state.
func (h *WebSocketHandler) Connect(c *gin.Context) {
	var agentID int64
	if raw := c.Query("agent_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			sendError(c, 400, "VALIDATION_ERROR", "Invalid agent_id")
			return
		}
		agentID = id
	}

	if err := h.wsHandler.HandleConnection(c.Writer, c.Request, agentID); err != nil {
		// Upgrade failures have already written a response
		return
	}
}

// RegisterRoutes registers the WebSocket route on a Gin engine.
func (h *WebSocketHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.Connect)
}
