package postgres

import (
	"context"
	"time"

	"github.com/mahefa-ra/agentwatch/internal/domain/dismissal"
	"github.com/mahefa-ra/agentwatch/internal/pkg/errors"
)

type DismissalRepository struct {
	db *DB
}

func NewDismissalRepository(db *DB) dismissal.Repository {
	return &DismissalRepository{db: db}
}

// Add is idempotent: dismissing an already dismissed alert is a no-op.
func (r *DismissalRepository) Add(ctx context.Context, alertID string) error {
	query := r.db.Rebind(`
		INSERT INTO dismissals (alert_id, dismissed_at) VALUES (?, ?)
		ON CONFLICT (alert_id) DO NOTHING
	`)

	_, err := r.db.ExecContext(ctx, query, alertID, formatTime(time.Now().UTC()))
	if err != nil {
		return errors.DatabaseError("Failed to dismiss alert", err)
	}

	return nil
}

func (r *DismissalRepository) Remove(ctx context.Context, alertID string) error {
	query := r.db.Rebind(`DELETE FROM dismissals WHERE alert_id = ?`)

	_, err := r.db.ExecContext(ctx, query, alertID)
	if err != nil {
		return errors.DatabaseError("Failed to restore alert", err)
	}

	return nil
}

func (r *DismissalRepository) List(ctx context.Context) ([]string, error) {
	query := `SELECT alert_id FROM dismissals ORDER BY alert_id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list dismissed alerts", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.DatabaseError("Failed to scan dismissed alert", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
