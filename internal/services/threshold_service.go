package services

import (
	"context"
	"sync"

	"github.com/mahefa-ra/agentwatch/internal/domain/threshold"
	"github.com/mahefa-ra/agentwatch/internal/pkg/errors"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
	"github.com/mahefa-ra/agentwatch/internal/pkg/validator"
)

// ThresholdService implements threshold.Service
type ThresholdService struct {
	repo      threshold.Repository
	validator *validator.Validator
	logger    *logger.Logger

	mu        sync.Mutex
	callbacks []func(threshold.Config)
}

// NewThresholdService creates a new threshold service
func NewThresholdService(repo threshold.Repository, v *validator.Validator, log *logger.Logger) threshold.Service {
	return &ThresholdService{
		repo:      repo,
		validator: v,
		logger:    log,
	}
}

// Get returns the active configuration, falling back to the defaults when
// nothing has been stored yet.
func (s *ThresholdService) Get(ctx context.Context) (threshold.Config, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return threshold.Config{}, err
	}
	if cfg == nil {
		return threshold.Default(), nil
	}
	return *cfg, nil
}

// Update validates and stores a whole replacement configuration. A
// rejected update leaves the active configuration untouched.
func (s *ThresholdService) Update(ctx context.Context, cfg threshold.Config) error {
	if verrs := s.validator.Validate(cfg); len(verrs) > 0 {
		return errors.ValidationError("Invalid threshold configuration", verrs)
	}

	if err := s.repo.Save(ctx, &cfg); err != nil {
		s.logger.ErrorWithErr(err, "Failed to save threshold config")
		return err
	}

	s.logger.Info("Threshold configuration updated")
	s.notify(cfg)
	return nil
}

// Reset restores the default configuration
func (s *ThresholdService) Reset(ctx context.Context) (threshold.Config, error) {
	cfg := threshold.Default()
	if err := s.repo.Save(ctx, &cfg); err != nil {
		s.logger.ErrorWithErr(err, "Failed to reset threshold config")
		return threshold.Config{}, err
	}

	s.logger.Info("Threshold configuration reset to defaults")
	s.notify(cfg)
	return cfg, nil
}

// OnChanged registers a callback invoked after every accepted change
func (s *ThresholdService) OnChanged(fn func(threshold.Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, fn)
}

func (s *ThresholdService) notify(cfg threshold.Config) {
	s.mu.Lock()
	callbacks := make([]func(threshold.Config), len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}
