package hub

// EventType represents the type of event pushed to connected agents.
type EventType string

const (
	EventNewMessage         EventType = "new_message"
	EventConversationUpdate EventType = "conversation_update"
	EventNewConversation    EventType = "new_conversation"
	EventAgentTyping        EventType = "agent_typing"

	// EventPong answers a client-level ping. Transport keepalive only,
	// never broadcast.
	EventPong EventType = "pong"
)

// Event is the wire shape pushed to clients: a type tag plus a
// type-specific payload.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// TypingPayload is the payload of an agent_typing event.
type TypingPayload struct {
	ConversationID int64 `json:"conversation_id"`
	AgentID        int64 `json:"agent_id"`
	IsTyping       bool  `json:"is_typing"`
}
