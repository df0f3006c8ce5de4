package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mahefa-ra/agentwatch/internal/domain/audit"
	"github.com/mahefa-ra/agentwatch/internal/pkg/errors"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
)

// AuditService implements audit.Service
type AuditService struct {
	repo   audit.Repository
	logger *logger.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo audit.Repository, log *logger.Logger) audit.Service {
	return &AuditService{
		repo:   repo,
		logger: log,
	}
}

// Record appends a new entry to the audit log. Missing IDs and timestamps
// are filled in here so callers only have to supply what they know.
func (s *AuditService) Record(ctx context.Context, e *audit.Entry) (string, error) {
	if e.AgentID == "" {
		return "", errors.ValidationError("agent_id is required", nil)
	}
	if !e.Action.Valid() {
		return "", errors.ValidationError("unknown action type", map[string]string{
			"action_type": string(e.Action),
		})
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.ErrorWithErr(err, "Failed to record audit entry")
		return "", err
	}

	s.logger.WithFields(map[string]interface{}{
		"entry_id": e.ID,
		"agent_id": e.AgentID,
		"action":   string(e.Action),
	}).Debug("Audit entry recorded")

	return e.ID, nil
}

// ListSince retrieves all entries with created_at > since, oldest first
func (s *AuditService) ListSince(ctx context.Context, since time.Time) ([]*audit.Entry, error) {
	return s.repo.ListSince(ctx, since)
}

// List retrieves entries with filters and pagination, newest first
func (s *AuditService) List(ctx context.Context, filter audit.Filter, limit, offset int) ([]*audit.Entry, int64, error) {
	if filter.Action != "" && !filter.Action.Valid() {
		return nil, 0, errors.ValidationError("unknown action type", map[string]string{
			"action_type": string(filter.Action),
		})
	}
	return s.repo.ListWithPagination(ctx, filter, limit, offset)
}
