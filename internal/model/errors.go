package model

import "errors"

var (
	// ErrContentRequired is returned when a message is posted without content.
	ErrContentRequired = errors.New("content is required")

	// ErrAgentRequired is returned when an agent reply is missing the agent ID.
	ErrAgentRequired = errors.New("agent_id is required for agent messages")

	// ErrCustomerNotFound is returned when a customer is not found.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrAgentNotFound is returned when an agent is not found.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrConversationNotFound is returned when a conversation is not found.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrMessageNotFound is returned when a message is not found.
	ErrMessageNotFound = errors.New("message not found")

	// ErrCannedMessageNotFound is returned when a canned message is not found.
	ErrCannedMessageNotFound = errors.New("canned message not found")
)
