package hub

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub is the shared registry of live agent sessions. It is constructed once
// at process start and passed to every handler that needs it. A single
// coarse mutex guards all three maps; this is low-throughput
// correctness-over-performance code.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]bool
	agents  map[int64]*Client
	viewing map[int64]map[int64]bool // agent ID -> set of conversation IDs
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		agents:  make(map[int64]*Client),
		viewing: make(map[int64]map[int64]bool),
	}
}

// Connect registers a new client. If agentID is non-zero the client is also
// entered in the agent-keyed map with a fresh viewing set; a prior session
// under the same agent ID is removed and force-closed.
func (h *Hub) Connect(conn *websocket.Conn, agentID int64) *Client {
	client := newClient(conn, agentID)

	var replaced *Client
	h.mu.Lock()
	h.clients[client] = true
	if agentID != 0 {
		if prev, ok := h.agents[agentID]; ok {
			delete(h.clients, prev)
			replaced = prev
		}
		h.agents[agentID] = client
		h.viewing[agentID] = make(map[int64]bool)
	}
	h.mu.Unlock()

	if replaced != nil {
		log.Printf("hub: agent %d reconnected, closing previous client %s", agentID, replaced.ID())
		replaced.Close()
	}
	return client
}

// Disconnect removes a client from all hub state and closes it. Unknown or
// already-disconnected clients are a no-op, so this is safe to call from
// every exit path.
func (h *Hub) Disconnect(client *Client) {
	if client == nil {
		return
	}

	h.mu.Lock()
	delete(h.clients, client)
	if client.agentID != 0 {
		// Only drop the agent entry if it still points at this client;
		// a reconnect may have replaced it already.
		if current, ok := h.agents[client.agentID]; ok && current == client {
			delete(h.agents, client.agentID)
			delete(h.viewing, client.agentID)
		}
	}
	h.mu.Unlock()

	client.Close()
}

// Send delivers one event to one client. The error outcome is for the
// caller to log; it is never fatal to a broader operation.
func (h *Hub) Send(client *Client, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return client.Send(data)
}

// Broadcast delivers an event to every active client. Per-recipient
// failures are isolated: the failing client is evicted from the hub and
// delivery continues to the rest. At-most-once per recipient, no
// durability.
func (h *Hub) Broadcast(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("hub: failed to marshal %s event: %v", event.Type, err)
		return
	}

	h.mu.Lock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.Unlock()

	var failed []*Client
	for _, client := range targets {
		if err := client.Send(data); err != nil {
			log.Printf("hub: dropping client %s: %v", client.ID(), err)
			failed = append(failed, client)
		}
	}

	for _, client := range failed {
		h.Disconnect(client)
	}
}

// BroadcastNewMessage broadcasts a new_message event to all agents.
func (h *Hub) BroadcastNewMessage(data any) {
	h.Broadcast(&Event{Type: EventNewMessage, Data: data})
}

// BroadcastConversationUpdate broadcasts a conversation_update event to all agents.
func (h *Hub) BroadcastConversationUpdate(data any) {
	h.Broadcast(&Event{Type: EventConversationUpdate, Data: data})
}

// BroadcastNewConversation broadcasts a new_conversation event to all agents.
func (h *Hub) BroadcastNewConversation(data any) {
	h.Broadcast(&Event{Type: EventNewConversation, Data: data})
}

// NotifyAgentTyping broadcasts an agent_typing event so other agents see
// live typing indicators.
func (h *Hub) NotifyAgentTyping(conversationID, agentID int64, isTyping bool) {
	h.Broadcast(&Event{
		Type: EventAgentTyping,
		Data: TypingPayload{
			ConversationID: conversationID,
			AgentID:        agentID,
			IsTyping:       isTyping,
		},
	})
}

// SetViewing records that an agent has a conversation open. No-op if the
// agent is not currently connected.
func (h *Hub) SetViewing(agentID, conversationID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.viewing[agentID]; ok {
		set[conversationID] = true
	}
}

// RemoveViewing records that an agent closed a conversation. No-op if the
// agent or conversation is not tracked.
func (h *Hub) RemoveViewing(agentID, conversationID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.viewing[agentID]; ok {
		delete(set, conversationID)
	}
}

// AgentsViewing returns the IDs of all agents currently viewing the
// conversation.
func (h *Hub) AgentsViewing(conversationID int64) []int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	agents := make([]int64, 0)
	for agentID, set := range h.viewing {
		if set[conversationID] {
			agents = append(agents, agentID)
		}
	}
	return agents
}

// IsAgentConnected returns true if the agent has a live session.
func (h *Hub) IsAgentConnected(agentID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.agents[agentID]
	return ok
}

// ClientCount returns the number of active clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients and resets the hub.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[*Client]bool)
	h.agents = make(map[int64]*Client)
	h.viewing = make(map[int64]map[int64]bool)
	h.mu.Unlock()

	for _, client := range clients {
		client.Close()
	}
}
