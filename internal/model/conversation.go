package model

import "time"

// Conversation groups the messages exchanged with a single customer.
// AgentID is nil while the conversation is unassigned.
type Conversation struct {
	ID            int64              `json:"id"`
	CustomerID    int64              `json:"customer_id"`
	AgentID       *int64             `json:"agent_id,omitempty"`
	Status        ConversationStatus `json:"status"`
	Priority      Priority           `json:"priority"`
	Subject       string             `json:"subject,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Customer      *Customer          `json:"customer,omitempty"`
	AssignedAgent *Agent             `json:"assigned_agent,omitempty"`
}

// ConversationListItem is a conversation with its latest message and unread
// count, as returned by the conversation list endpoint.
type ConversationListItem struct {
	Conversation
	LastMessage *Message `json:"last_message,omitempty"`
	UnreadCount int      `json:"unread_count"`
}

// ConversationStats summarizes conversations for the dashboard header.
type ConversationStats struct {
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
	Unassigned int            `json:"unassigned"`
}

// CreateConversationRequest is the payload for opening a new conversation.
type CreateConversationRequest struct {
	CustomerID int64  `json:"customer_id" binding:"required"`
	Subject    string `json:"subject"`
	Content    string `json:"content" binding:"required"`
}

// UpdateConversationRequest carries a partial conversation update; nil fields
// are left unchanged.
type UpdateConversationRequest struct {
	Status   *ConversationStatus `json:"status"`
	Priority *Priority           `json:"priority"`
	AgentID  *int64              `json:"agent_id"`
}
