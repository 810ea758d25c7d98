package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/branch-messaging/backend/internal/model"
)

// ConversationRepository provides data access for conversations.
type ConversationRepository struct {
	db *sql.DB
}

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create inserts a new conversation and sets its generated ID.
func (r *ConversationRepository) Create(ctx context.Context, conv *model.Conversation) error {
	now := time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = now
	}
	if conv.Status == "" {
		conv.Status = model.ConversationStatusOpen
	}
	if conv.Priority == "" {
		conv.Priority = model.PriorityMedium
	}

	query := `
		INSERT INTO conversations (customer_id, agent_id, status, priority, subject, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		conv.CustomerID,
		conv.AgentID,
		conv.Status,
		conv.Priority,
		nullString(conv.Subject),
		conv.CreatedAt,
		conv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	conv.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get conversation id: %w", err)
	}
	return nil
}

// GetByID retrieves a conversation with its customer and assigned agent.
func (r *ConversationRepository) GetByID(ctx context.Context, id int64) (*model.Conversation, error) {
	query := `
		SELECT c.id, c.customer_id, c.agent_id, c.status, c.priority, c.subject, c.created_at, c.updated_at,
		       cu.id, cu.name, cu.email, cu.phone, cu.account_status, cu.loan_status, cu.loan_amount, cu.profile_notes, cu.account_created, cu.last_activity,
		       a.id, a.name, a.email, a.avatar_url, a.is_online, a.created_at
		FROM conversations c
		JOIN customers cu ON cu.id = c.customer_id
		LEFT JOIN agents a ON a.id = c.agent_id
		WHERE c.id = ?
	`

	conv, err := scanConversation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, model.ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conv, nil
}

// List retrieves conversations with their customer, assigned agent, last
// message, and unread count. Empty status/priority filters match all.
func (r *ConversationRepository) List(ctx context.Context, status, priority string) ([]*model.ConversationListItem, error) {
	query := listQuery + `
		WHERE (? = '' OR c.status = ?) AND (? = '' OR c.priority = ?)
		ORDER BY c.updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, status, status, priority, priority)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	return collectListItems(rows)
}

// Search retrieves conversations whose subject or message content matches
// the query.
func (r *ConversationRepository) Search(ctx context.Context, q string) ([]*model.ConversationListItem, error) {
	query := listQuery + `
		WHERE c.subject LIKE ?
		   OR c.id IN (SELECT conversation_id FROM messages WHERE content LIKE ?)
		ORDER BY c.updated_at DESC
		LIMIT 50
	`

	pattern := "%" + q + "%"
	rows, err := r.db.QueryContext(ctx, query, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search conversations: %w", err)
	}
	defer rows.Close()

	return collectListItems(rows)
}

// Update applies a partial update and returns the updated conversation.
func (r *ConversationRepository) Update(ctx context.Context, id int64, req *model.UpdateConversationRequest) (*model.Conversation, error) {
	conv, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		conv.Status = *req.Status
	}
	if req.Priority != nil {
		conv.Priority = *req.Priority
	}
	if req.AgentID != nil {
		conv.AgentID = req.AgentID
	}
	conv.UpdatedAt = time.Now()

	query := `
		UPDATE conversations
		SET status = ?, priority = ?, agent_id = ?, updated_at = ?
		WHERE id = ?
	`

	if _, err := r.db.ExecContext(ctx, query, conv.Status, conv.Priority, conv.AgentID, conv.UpdatedAt, id); err != nil {
		return nil, fmt.Errorf("failed to update conversation: %w", err)
	}

	return r.GetByID(ctx, id)
}

// UpdatePriority raises or lowers the conversation priority and bumps its
// updated_at so it reorders in the agent dashboard.
func (r *ConversationRepository) UpdatePriority(ctx context.Context, id int64, priority model.Priority) error {
	query := `UPDATE conversations SET priority = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, priority, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update conversation priority: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrConversationNotFound
	}
	return nil
}

// Touch bumps the conversation's updated_at timestamp.
func (r *ConversationRepository) Touch(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE conversations SET updated_at = ? WHERE id = ?`, time.Now(), id); err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	return nil
}

// Stats returns conversation counts by status, by priority, and unassigned.
func (r *ConversationRepository) Stats(ctx context.Context) (*model.ConversationStats, error) {
	stats := &model.ConversationStats{
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
	}

	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM conversations GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	prows, err := r.db.QueryContext(ctx, `SELECT priority, COUNT(*) FROM conversations GROUP BY priority`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by priority: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var priority string
		var count int
		if err := prows.Scan(&priority, &count); err != nil {
			return nil, fmt.Errorf("failed to scan priority count: %w", err)
		}
		stats.ByPriority[priority] = count
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating priority counts: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations WHERE agent_id IS NULL`).Scan(&stats.Unassigned); err != nil {
		return nil, fmt.Errorf("failed to count unassigned: %w", err)
	}

	return stats, nil
}

const listQuery = `
	SELECT c.id, c.customer_id, c.agent_id, c.status, c.priority, c.subject, c.created_at, c.updated_at,
	       cu.id, cu.name, cu.email, cu.phone, cu.account_status, cu.loan_status, cu.loan_amount, cu.profile_notes, cu.account_created, cu.last_activity,
	       a.id, a.name, a.email, a.avatar_url, a.is_online, a.created_at,
	       m.id, m.conversation_id, m.customer_id, m.agent_id, m.content, m.is_from_customer, m.priority, m.confidence, m.created_at, m.read_at,
	       (SELECT COUNT(*) FROM messages um
	        WHERE um.conversation_id = c.id AND um.is_from_customer = 1 AND um.read_at IS NULL)
	FROM conversations c
	JOIN customers cu ON cu.id = c.customer_id
	LEFT JOIN agents a ON a.id = c.agent_id
	LEFT JOIN messages m ON m.id = (SELECT MAX(lm.id) FROM messages lm WHERE lm.conversation_id = c.id)
`

func scanConversation(row rowScanner) (*model.Conversation, error) {
	conv := &model.Conversation{}
	customer := &model.Customer{}
	var agentID sql.NullInt64
	var subject sql.NullString
	var phone, loanStatus, profileNotes sql.NullString
	var loanAmount sql.NullFloat64
	var aID sql.NullInt64
	var aName, aEmail, aAvatar sql.NullString
	var aOnline sql.NullBool
	var aCreated sql.NullTime

	err := row.Scan(
		&conv.ID, &conv.CustomerID, &agentID, &conv.Status, &conv.Priority, &subject, &conv.CreatedAt, &conv.UpdatedAt,
		&customer.ID, &customer.Name, &customer.Email, &phone, &customer.AccountStatus, &loanStatus, &loanAmount, &profileNotes, &customer.AccountCreated, &customer.LastActivity,
		&aID, &aName, &aEmail, &aAvatar, &aOnline, &aCreated,
	)
	if err != nil {
		return nil, err
	}

	if agentID.Valid {
		id := agentID.Int64
		conv.AgentID = &id
	}
	conv.Subject = subject.String

	customer.Phone = phone.String
	customer.LoanStatus = loanStatus.String
	customer.ProfileNotes = profileNotes.String
	if loanAmount.Valid {
		amount := loanAmount.Float64
		customer.LoanAmount = &amount
	}
	conv.Customer = customer

	if aID.Valid {
		conv.AssignedAgent = &model.Agent{
			ID:        aID.Int64,
			Name:      aName.String,
			Email:     aEmail.String,
			AvatarURL: aAvatar.String,
			IsOnline:  aOnline.Bool,
			CreatedAt: aCreated.Time,
		}
	}

	return conv, nil
}

func collectListItems(rows *sql.Rows) ([]*model.ConversationListItem, error) {
	var items []*model.ConversationListItem
	for rows.Next() {
		item := &model.ConversationListItem{}
		customer := &model.Customer{}
		var agentID sql.NullInt64
		var subject sql.NullString
		var phone, loanStatus, profileNotes sql.NullString
		var loanAmount sql.NullFloat64
		var aID sql.NullInt64
		var aName, aEmail, aAvatar sql.NullString
		var aOnline sql.NullBool
		var aCreated sql.NullTime
		var mID, mConvID, mCustomerID, mAgentID sql.NullInt64
		var mContent, mPriority sql.NullString
		var mFromCustomer sql.NullBool
		var mConfidence sql.NullFloat64
		var mCreated, mRead sql.NullTime

		err := rows.Scan(
			&item.ID, &item.CustomerID, &agentID, &item.Status, &item.Priority, &subject, &item.CreatedAt, &item.UpdatedAt,
			&customer.ID, &customer.Name, &customer.Email, &phone, &customer.AccountStatus, &loanStatus, &loanAmount, &profileNotes, &customer.AccountCreated, &customer.LastActivity,
			&aID, &aName, &aEmail, &aAvatar, &aOnline, &aCreated,
			&mID, &mConvID, &mCustomerID, &mAgentID, &mContent, &mFromCustomer, &mPriority, &mConfidence, &mCreated, &mRead,
			&item.UnreadCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}

		if agentID.Valid {
			id := agentID.Int64
			item.AgentID = &id
		}
		item.Subject = subject.String

		customer.Phone = phone.String
		customer.LoanStatus = loanStatus.String
		customer.ProfileNotes = profileNotes.String
		if loanAmount.Valid {
			amount := loanAmount.Float64
			customer.LoanAmount = &amount
		}
		item.Customer = customer

		if aID.Valid {
			item.AssignedAgent = &model.Agent{
				ID:        aID.Int64,
				Name:      aName.String,
				Email:     aEmail.String,
				AvatarURL: aAvatar.String,
				IsOnline:  aOnline.Bool,
				CreatedAt: aCreated.Time,
			}
		}

		if mID.Valid {
			msg := &model.Message{
				ID:             mID.Int64,
				ConversationID: mConvID.Int64,
				Content:        mContent.String,
				IsFromCustomer: mFromCustomer.Bool,
				Priority:       model.Priority(mPriority.String),
				Confidence:     mConfidence.Float64,
				CreatedAt:      mCreated.Time,
			}
			if mCustomerID.Valid {
				id := mCustomerID.Int64
				msg.CustomerID = &id
			}
			if mAgentID.Valid {
				id := mAgentID.Int64
				msg.AgentID = &id
			}
			if mRead.Valid {
				t := mRead.Time
				msg.ReadAt = &t
			}
			item.LastMessage = msg
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}
	return items, nil
}
