package hub

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking in production
		return true
	},
}

// InboundMessage is a message from a connected agent's browser. Typing and
// viewing updates arrive over the socket rather than the REST API so the
// presence state always tracks the live connection.
type InboundMessage struct {
	Type           string `json:"type"`
	ConversationID int64  `json:"conversation_id,omitempty"`
	IsTyping       bool   `json:"is_typing,omitempty"`
}

// Inbound message types.
const (
	InboundPing   = "ping"
	InboundTyping = "typing"
	InboundView   = "view_conversation"
	InboundUnview = "unview_conversation"
)

// Handler upgrades HTTP requests to WebSocket connections and runs the
// read/write pumps for each client.
type Handler struct {
	hub *Hub
}

// NewHandler creates a new WebSocket handler for the hub.
func NewHandler(h *Hub) *Handler {
	return &Handler{hub: h}
}

// HandleConnection upgrades the request and registers the connection with
// the hub. agentID 0 connects an anonymous session.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request, agentID int64) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := h.hub.Connect(conn, agentID)

	go h.writePump(client)
	go h.readPump(client)

	return nil
}

// readPump pumps messages from the WebSocket connection into the hub.
// The deferred disconnect guarantees the client is removed from all hub
// state on every exit path, including abnormal connection termination.
func (h *Handler) readPump(client *Client) {
	defer func() {
		h.hub.Disconnect(client)
		client.Conn().Close()
	}()

	client.Conn().SetReadLimit(maxMessageSize)
	client.Conn().SetReadDeadline(time.Now().Add(pongWait))
	client.Conn().SetPongHandler(func(string) error {
		client.Conn().SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := client.Conn().ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("hub: websocket error for client %s: %v", client.ID(), err)
			}
			break
		}

		var msg InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("hub: failed to unmarshal message from client %s: %v", client.ID(), err)
			continue
		}

		h.handleInbound(client, &msg)
	}
}

// handleInbound processes one message from a connected client.
func (h *Handler) handleInbound(client *Client, msg *InboundMessage) {
	switch msg.Type {
	case InboundPing:
		if err := h.hub.Send(client, &Event{Type: EventPong, Data: map[string]any{}}); err != nil {
			log.Printf("hub: failed to pong client %s: %v", client.ID(), err)
		}
	case InboundTyping:
		if client.AgentID() == 0 {
			return
		}
		h.hub.NotifyAgentTyping(msg.ConversationID, client.AgentID(), msg.IsTyping)
	case InboundView:
		h.hub.SetViewing(client.AgentID(), msg.ConversationID)
	case InboundUnview:
		h.hub.RemoveViewing(client.AgentID(), msg.ConversationID)
	}
}

// writePump pumps messages from the client's outbound queue to the
// WebSocket connection.
func (h *Handler) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn().Close()
	}()

	for {
		select {
		case message, ok := <-client.SendChan():
			client.Conn().SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the client
				client.Conn().WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One event per frame so the frontend can JSON.parse each frame
			if err := client.Conn().WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

			n := len(client.SendChan())
			for i := 0; i < n; i++ {
				queued := <-client.SendChan()
				client.Conn().SetWriteDeadline(time.Now().Add(writeWait))
				if err := client.Conn().WriteMessage(websocket.TextMessage, queued); err != nil {
					return
				}
			}
		case <-ticker.C:
			client.Conn().SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn().WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
