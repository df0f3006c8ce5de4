package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mahefa-ra/agentwatch/internal/domain/audit"
	"github.com/mahefa-ra/agentwatch/internal/pkg/errors"
)

type AuditRepository struct {
	db *DB
}

func NewAuditRepository(db *DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, e *audit.Entry) error {
	query := r.db.Rebind(`
		INSERT INTO audit_entries (id, agent_id, signalement_id, action_type, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)

	var signalementID sql.NullString
	if e.SignalementID != "" {
		signalementID = sql.NullString{String: e.SignalementID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.AgentID, signalementID, string(e.Action), formatTime(e.CreatedAt),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create audit entry", err)
	}

	return nil
}

func (r *AuditRepository) ListSince(ctx context.Context, since time.Time) ([]*audit.Entry, error) {
	query := r.db.Rebind(`
		SELECT id, agent_id, signalement_id, action_type, created_at
		FROM audit_entries WHERE created_at > ?
		ORDER BY created_at ASC, id ASC
	`)

	rows, err := r.db.QueryContext(ctx, query, formatTime(since))
	if err != nil {
		return nil, errors.DatabaseError("Failed to list audit entries", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *AuditRepository) ListWithPagination(ctx context.Context, filter audit.Filter, limit, offset int) ([]*audit.Entry, int64, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.AgentID != "" {
		where = append(where, "agent_id = ?")
		args = append(args, filter.AgentID)
	}
	if filter.Action != "" {
		where = append(where, "action_type = ?")
		args = append(args, string(filter.Action))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := r.db.Rebind(fmt.Sprintf("SELECT COUNT(*) FROM audit_entries WHERE %s", whereClause))
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count audit entries", err)
	}

	query := r.db.Rebind(fmt.Sprintf(`
		SELECT id, agent_id, signalement_id, action_type, created_at
		FROM audit_entries WHERE %s
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?
	`, whereClause))

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list audit entries", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func scanEntries(rows *sql.Rows) ([]*audit.Entry, error) {
	entries := make([]*audit.Entry, 0, 100)
	for rows.Next() {
		var e audit.Entry
		var signalementID sql.NullString
		var action, createdAt string

		if err := rows.Scan(&e.ID, &e.AgentID, &signalementID, &action, &createdAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan audit entry", err)
		}

		e.SignalementID = signalementID.String
		e.Action = audit.ActionType(action)

		t, err := parseTime(createdAt)
		if err != nil {
			return nil, errors.DatabaseError("Failed to parse audit entry timestamp", err)
		}
		e.CreatedAt = t

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
