package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/branch-messaging/backend/internal/model"
)

// MessageRepository provides data access for messages.
type MessageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message and sets its generated ID.
func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO messages (conversation_id, customer_id, agent_id, content, is_from_customer, priority, confidence, created_at, read_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		msg.ConversationID,
		msg.CustomerID,
		msg.AgentID,
		msg.Content,
		msg.IsFromCustomer,
		msg.Priority,
		msg.Confidence,
		msg.CreatedAt,
		msg.ReadAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	msg.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get message id: %w", err)
	}
	return nil
}

const messageColumns = `id, conversation_id, customer_id, agent_id, content, is_from_customer, priority, confidence, created_at, read_at`

// GetByID retrieves a message by its ID.
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = ?`

	msg, err := scanMessage(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, model.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

// ListByConversation retrieves all messages in a conversation, oldest first.
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID int64) ([]*model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE conversation_id = ? ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}

// MarkConversationRead marks all unread customer messages in the
// conversation as read.
func (r *MessageRepository) MarkConversationRead(ctx context.Context, conversationID int64) error {
	query := `
		UPDATE messages
		SET read_at = ?
		WHERE conversation_id = ? AND is_from_customer = 1 AND read_at IS NULL
	`

	if _, err := r.db.ExecContext(ctx, query, time.Now(), conversationID); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

// CountByConversation returns the number of messages in a conversation.
func (r *MessageRepository) CountByConversation(ctx context.Context, conversationID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE conversation_id = ?`, conversationID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

func scanMessage(row rowScanner) (*model.Message, error) {
	msg := &model.Message{}
	var customerID, agentID sql.NullInt64
	var readAt sql.NullTime

	err := row.Scan(
		&msg.ID,
		&msg.ConversationID,
		&customerID,
		&agentID,
		&msg.Content,
		&msg.IsFromCustomer,
		&msg.Priority,
		&msg.Confidence,
		&msg.CreatedAt,
		&readAt,
	)
	if err != nil {
		return nil, err
	}

	if customerID.Valid {
		id := customerID.Int64
		msg.CustomerID = &id
	}
	if agentID.Valid {
		id := agentID.Int64
		msg.AgentID = &id
	}
	if readAt.Valid {
		t := readAt.Time
		msg.ReadAt = &t
	}
	return msg, nil
}
