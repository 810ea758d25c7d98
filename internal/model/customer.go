package model

import "time"

// Customer represents a customer account that sends inbound messages.
type Customer struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	AccountStatus  string    `json:"account_status"`
	LoanStatus     string    `json:"loan_status,omitempty"`
	LoanAmount     *float64  `json:"loan_amount,omitempty"`
	ProfileNotes   string    `json:"profile_notes,omitempty"`
	AccountCreated time.Time `json:"account_created"`
	LastActivity   time.Time `json:"last_activity"`
}

// Agent represents a human support agent.
type Agent struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	IsOnline  bool      `json:"is_online"`
	CreatedAt time.Time `json:"created_at"`
}
