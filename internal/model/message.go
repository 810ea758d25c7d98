package model

import "time"

// Message is a single message within a conversation. Exactly one of
// CustomerID or AgentID is set, depending on IsFromCustomer.
type Message struct {
	ID             int64      `json:"id"`
	ConversationID int64      `json:"conversation_id"`
	CustomerID     *int64     `json:"customer_id,omitempty"`
	AgentID        *int64     `json:"agent_id,omitempty"`
	Content        string     `json:"content"`
	IsFromCustomer bool       `json:"is_from_customer"`
	Priority       Priority   `json:"priority"`
	Confidence     float64    `json:"confidence"`
	CreatedAt      time.Time  `json:"created_at"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
}

// CreateMessageRequest is the payload for posting a message to a
// conversation. AgentID is set for outbound agent replies; customer
// messages carry the conversation's customer automatically.
type CreateMessageRequest struct {
	Content        string `json:"content" binding:"required"`
	IsFromCustomer bool   `json:"is_from_customer"`
	AgentID        *int64 `json:"agent_id"`
}

// Validate validates the create message request.
func (r *CreateMessageRequest) Validate() error {
	if r.Content == "" {
		return ErrContentRequired
	}
	if !r.IsFromCustomer && r.AgentID == nil {
		return ErrAgentRequired
	}
	return nil
}

// CannedMessage is a reusable reply template agents insert via shortcut.
type CannedMessage struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category,omitempty"`
	Shortcut   string    `json:"shortcut,omitempty"`
	UsageCount int       `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SearchResult aggregates matches across conversations and customers.
type SearchResult struct {
	Conversations []*ConversationListItem `json:"conversations"`
	Customers     []*Customer             `json:"customers"`
	TotalResults  int                     `json:"total_results"`
}
