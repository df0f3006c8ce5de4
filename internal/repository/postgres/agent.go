package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/mahefa-ra/agentwatch/internal/domain/agent"
	"github.com/mahefa-ra/agentwatch/internal/pkg/errors"
)

type AgentRepository struct {
	db *DB
}

func NewAgentRepository(db *DB) agent.Repository {
	return &AgentRepository{db: db}
}

func (r *AgentRepository) GetByIDs(ctx context.Context, ids []string) (map[string]agent.Info, error) {
	result := make(map[string]agent.Info, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := r.db.Rebind(fmt.Sprintf(
		`SELECT id, full_name, email FROM agents WHERE id IN (%s)`,
		strings.Join(placeholders, ", "),
	))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load agents", err)
	}
	defer rows.Close()

	for rows.Next() {
		var info agent.Info
		if err := rows.Scan(&info.ID, &info.FullName, &info.Email); err != nil {
			return nil, errors.DatabaseError("Failed to scan agent", err)
		}
		result[info.ID] = info
	}

	return result, rows.Err()
}

func (r *AgentRepository) List(ctx context.Context) ([]agent.Info, error) {
	query := `SELECT id, full_name, email FROM agents ORDER BY full_name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list agents", err)
	}
	defer rows.Close()

	agents := make([]agent.Info, 0)
	for rows.Next() {
		var info agent.Info
		if err := rows.Scan(&info.ID, &info.FullName, &info.Email); err != nil {
			return nil, errors.DatabaseError("Failed to scan agent", err)
		}
		agents = append(agents, info)
	}

	return agents, rows.Err()
}

func (r *AgentRepository) Upsert(ctx context.Context, info agent.Info) error {
	query := r.db.Rebind(`
		INSERT INTO agents (id, full_name, email) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET full_name = excluded.full_name, email = excluded.email
	`)

	_, err := r.db.ExecContext(ctx, query, info.ID, info.FullName, info.Email)
	if err != nil {
		return errors.DatabaseError("Failed to upsert agent", err)
	}

	return nil
}
