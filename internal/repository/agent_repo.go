package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/branch-messaging/backend/internal/model"
)

// AgentRepository provides data access for agents.
type AgentRepository struct {
	db *sql.DB
}

// NewAgentRepository creates a new AgentRepository.
func NewAgentRepository(db *sql.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

// Create inserts a new agent and sets its generated ID.
func (r *AgentRepository) Create(ctx context.Context, agent *model.Agent) error {
	if agent.CreatedAt.IsZero() {
		agent.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO agents (name, email, avatar_url, is_online, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		agent.Name,
		agent.Email,
		nullString(agent.AvatarURL),
		agent.IsOnline,
		agent.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	agent.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get agent id: %w", err)
	}
	return nil
}

// GetByID retrieves an agent by its ID.
func (r *AgentRepository) GetByID(ctx context.Context, id int64) (*model.Agent, error) {
	query := `SELECT id, name, email, avatar_url, is_online, created_at FROM agents WHERE id = ?`

	agent := &model.Agent{}
	var avatarURL sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&agent.ID,
		&agent.Name,
		&agent.Email,
		&avatarURL,
		&agent.IsOnline,
		&agent.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, model.ErrAgentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	agent.AvatarURL = avatarURL.String
	return agent, nil
}

// List retrieves all agents.
func (r *AgentRepository) List(ctx context.Context) ([]*model.Agent, error) {
	query := `SELECT id, name, email, avatar_url, is_online, created_at FROM agents ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []*model.Agent
	for rows.Next() {
		agent := &model.Agent{}
		var avatarURL sql.NullString
		if err := rows.Scan(&agent.ID, &agent.Name, &agent.Email, &avatarURL, &agent.IsOnline, &agent.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agent.AvatarURL = avatarURL.String
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agents: %w", err)
	}
	return agents, nil
}

// SetOnline updates an agent's online flag.
func (r *AgentRepository) SetOnline(ctx context.Context, id int64, online bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE agents SET is_online = ? WHERE id = ?`, online, id)
	if err != nil {
		return fmt.Errorf("failed to update agent status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrAgentNotFound
	}
	return nil
}

// Count returns the number of agents.
func (r *AgentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count agents: %w", err)
	}
	return count, nil
}
