package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/branch-messaging/backend/internal/model"
)

// CannedMessageRepository provides data access for canned reply templates.
type CannedMessageRepository struct {
	db *sql.DB
}

// NewCannedMessageRepository creates a new CannedMessageRepository.
func NewCannedMessageRepository(db *sql.DB) *CannedMessageRepository {
	return &CannedMessageRepository{db: db}
}

// Create inserts a new canned message and sets its generated ID.
func (r *CannedMessageRepository) Create(ctx context.Context, canned *model.CannedMessage) error {
	now := time.Now()
	if canned.CreatedAt.IsZero() {
		canned.CreatedAt = now
	}
	if canned.UpdatedAt.IsZero() {
		canned.UpdatedAt = now
	}

	query := `
		INSERT INTO canned_messages (title, content, category, shortcut, usage_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		canned.Title,
		canned.Content,
		nullString(canned.Category),
		nullString(canned.Shortcut),
		canned.UsageCount,
		canned.CreatedAt,
		canned.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create canned message: %w", err)
	}

	canned.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get canned message id: %w", err)
	}
	return nil
}

const cannedColumns = `id, title, content, category, shortcut, usage_count, created_at, updated_at`

// GetByID retrieves a canned message by its ID.
func (r *CannedMessageRepository) GetByID(ctx context.Context, id int64) (*model.CannedMessage, error) {
	query := `SELECT ` + cannedColumns + ` FROM canned_messages WHERE id = ?`

	canned, err := scanCanned(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, model.ErrCannedMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get canned message: %w", err)
	}
	return canned, nil
}

// List retrieves all canned messages, most used first.
func (r *CannedMessageRepository) List(ctx context.Context) ([]*model.CannedMessage, error) {
	query := `SELECT ` + cannedColumns + ` FROM canned_messages ORDER BY usage_count DESC, title`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list canned messages: %w", err)
	}
	defer rows.Close()

	var canned []*model.CannedMessage
	for rows.Next() {
		c, err := scanCanned(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan canned message: %w", err)
		}
		canned = append(canned, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating canned messages: %w", err)
	}
	return canned, nil
}

// IncrementUsage bumps the usage counter when an agent inserts the template.
func (r *CannedMessageRepository) IncrementUsage(ctx context.Context, id int64) error {
	query := `UPDATE canned_messages SET usage_count = usage_count + 1, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrCannedMessageNotFound
	}
	return nil
}

func scanCanned(row rowScanner) (*model.CannedMessage, error) {
	canned := &model.CannedMessage{}
	var category, shortcut sql.NullString

	err := row.Scan(
		&canned.ID,
		&canned.Title,
		&canned.Content,
		&category,
		&shortcut,
		&canned.UsageCount,
		&canned.CreatedAt,
		&canned.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	canned.Category = category.String
	canned.Shortcut = shortcut.String
	return canned, nil
}
