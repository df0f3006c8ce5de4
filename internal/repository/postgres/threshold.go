package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/mahefa-ra/agentwatch/internal/domain/threshold"
	"github.com/mahefa-ra/agentwatch/internal/pkg/errors"
)

// ThresholdRepository persists the single active threshold configuration
// as a JSON document keyed by a fixed row id.
type ThresholdRepository struct {
	db *DB
}

func NewThresholdRepository(db *DB) threshold.Repository {
	return &ThresholdRepository{db: db}
}

func (r *ThresholdRepository) Get(ctx context.Context) (*threshold.Config, error) {
	query := r.db.Rebind(`SELECT config FROM threshold_config WHERE id = ?`)

	var raw string
	err := r.db.QueryRowContext(ctx, query, 1).Scan(&raw)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to load threshold config", err)
	}

	var cfg threshold.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, errors.DatabaseError("Failed to decode threshold config", err)
	}

	return &cfg, nil
}

func (r *ThresholdRepository) Save(ctx context.Context, cfg *threshold.Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return errors.DatabaseError("Failed to encode threshold config", err)
	}

	query := r.db.Rebind(`
		INSERT INTO threshold_config (id, config, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET config = excluded.config, updated_at = excluded.updated_at
	`)

	_, err = r.db.ExecContext(ctx, query, 1, string(raw), formatTime(time.Now().UTC()))
	if err != nil {
		return errors.DatabaseError("Failed to save threshold config", err)
	}

	return nil
}
