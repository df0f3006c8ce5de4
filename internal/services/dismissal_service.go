package services

import (
	"context"
	"sync"

	"github.com/mahefa-ra/agentwatch/internal/domain/dismissal"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
	"github.com/mahefa-ra/agentwatch/internal/pkg/metrics"
)

// DismissalService implements dismissal.Service. It keeps an in-memory
// mirror of the dismissed set so IsDismissed stays a cheap predicate the
// evaluation loop can call per alert without a query.
type DismissalService struct {
	repo   dismissal.Repository
	logger *logger.Logger

	mu  sync.RWMutex
	set map[string]struct{}
}

// NewDismissalService creates a new dismissal service, loading the
// persisted set so dismissals survive restarts.
func NewDismissalService(ctx context.Context, repo dismissal.Repository, log *logger.Logger) (dismissal.Service, error) {
	ids, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	log.WithFields(map[string]interface{}{
		"count": len(ids),
	}).Info("Loaded dismissed alerts")

	return &DismissalService{
		repo:   repo,
		logger: log,
		set:    set,
	}, nil
}

// Dismiss adds an alert ID to the set. Idempotent.
func (s *DismissalService) Dismiss(ctx context.Context, alertID string) error {
	if err := s.repo.Add(ctx, alertID); err != nil {
		s.logger.ErrorWithErr(err, "Failed to persist dismissal")
		return err
	}

	s.mu.Lock()
	s.set[alertID] = struct{}{}
	s.mu.Unlock()

	metrics.RecordDismissal("dismiss")
	s.logger.With("alert_id", alertID).Info("Alert dismissed")
	return nil
}

// Restore removes an alert ID from the set
func (s *DismissalService) Restore(ctx context.Context, alertID string) error {
	if err := s.repo.Remove(ctx, alertID); err != nil {
		s.logger.ErrorWithErr(err, "Failed to remove dismissal")
		return err
	}

	s.mu.Lock()
	delete(s.set, alertID)
	s.mu.Unlock()

	metrics.RecordDismissal("restore")
	s.logger.With("alert_id", alertID).Info("Alert restored")
	return nil
}

// IsDismissed reports membership
func (s *DismissalService) IsDismissed(alertID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.set[alertID]
	return ok
}

// List returns the dismissed IDs in lexical order
func (s *DismissalService) List(ctx context.Context) ([]string, error) {
	return s.repo.List(ctx)
}
