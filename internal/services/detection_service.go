package services

import (
	"context"
	"sync"
	"time"

	"github.com/mahefa-ra/agentwatch/internal/detector"
	"github.com/mahefa-ra/agentwatch/internal/domain/agent"
	"github.com/mahefa-ra/agentwatch/internal/domain/audit"
	"github.com/mahefa-ra/agentwatch/internal/domain/dismissal"
	"github.com/mahefa-ra/agentwatch/internal/domain/suspicious"
	"github.com/mahefa-ra/agentwatch/internal/domain/threshold"
	"github.com/mahefa-ra/agentwatch/internal/pkg/errors"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
	"github.com/mahefa-ra/agentwatch/internal/pkg/metrics"
)

// AlertCounts summarizes the active alert set for the dashboard badge.
type AlertCounts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}

// DetectionService orchestrates evaluation cycles and serves the ranked
// alert set. The last successfully computed set stays cached; a failed
// cycle leaves it in place, so reads keep returning stale-but-consistent
// results while the audit source is down.
type DetectionService struct {
	engine     *detector.Engine
	audits     audit.Service
	thresholds threshold.Service
	dismissals dismissal.Service
	agents     agent.Repository
	logger     *logger.Logger

	mu          sync.RWMutex
	alerts      []suspicious.Alert
	evaluatedAt time.Time
}

// NewDetectionService creates a new detection service
func NewDetectionService(
	engine *detector.Engine,
	audits audit.Service,
	thresholds threshold.Service,
	dismissals dismissal.Service,
	agents agent.Repository,
	log *logger.Logger,
) *DetectionService {
	return &DetectionService{
		engine:     engine,
		audits:     audits,
		thresholds: thresholds,
		dismissals: dismissals,
		agents:     agents,
		logger:     log,
	}
}

// Evaluate runs one full cycle: audit snapshot, active thresholds, rule
// evaluation, agent-name enrichment, cache swap. trigger labels the cause
// for metrics ("schedule", "ingest", "threshold_change", "manual").
func (s *DetectionService) Evaluate(ctx context.Context, now time.Time, trigger string) error {
	start := time.Now()

	entries, err := s.audits.ListSince(ctx, now.Add(-detector.Lookback))
	if err != nil {
		metrics.RecordEvaluation("error", trigger, time.Since(start))
		s.logger.ErrorWithErr(err, "Evaluation failed: audit source unavailable")
		return errors.AuditSourceError(err)
	}

	cfg, err := s.thresholds.Get(ctx)
	if err != nil {
		metrics.RecordEvaluation("error", trigger, time.Since(start))
		s.logger.ErrorWithErr(err, "Evaluation failed: threshold config unavailable")
		return err
	}

	alerts := s.engine.Evaluate(detector.Input{
		Entries: entries,
		Config:  cfg,
		Now:     now,
	})

	s.enrich(ctx, alerts)

	if ctx.Err() != nil {
		// A superseding trigger cancelled this cycle; drop the result
		// rather than racing the newer one.
		metrics.RecordEvaluation("cancelled", trigger, time.Since(start))
		return ctx.Err()
	}

	s.mu.Lock()
	s.alerts = alerts
	s.evaluatedAt = now
	s.mu.Unlock()

	s.publishCounts()
	metrics.RecordEvaluation("ok", trigger, time.Since(start))

	s.logger.WithFields(map[string]interface{}{
		"entries": len(entries),
		"alerts":  len(alerts),
		"trigger": trigger,
	}).Info("Evaluation cycle completed")

	return nil
}

// enrich fills in agent display names. A directory failure only degrades
// the display; the alerts are still served with bare IDs.
func (s *DetectionService) enrich(ctx context.Context, alerts []suspicious.Alert) {
	if len(alerts) == 0 {
		return
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, a := range alerts {
		if _, ok := seen[a.AgentID]; !ok {
			seen[a.AgentID] = struct{}{}
			ids = append(ids, a.AgentID)
		}
	}

	infos, err := s.agents.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to resolve agent names")
		return
	}

	for i := range alerts {
		if info, ok := infos[alerts[i].AgentID]; ok {
			alerts[i].AgentName = info.FullName
		}
	}
}

// Active returns the cached ranked alerts with dismissed ones filtered
// out. Dismissal filtering happens at read time, so a dismissal takes
// effect immediately without waiting for the next cycle.
func (s *DetectionService) Active() []suspicious.Alert {
	s.mu.RLock()
	cached := s.alerts
	s.mu.RUnlock()

	active := make([]suspicious.Alert, 0, len(cached))
	for _, a := range cached {
		if !s.dismissals.IsDismissed(a.ID) {
			active = append(active, a)
		}
	}
	return active
}

// All returns the cached ranked alerts including dismissed ones.
func (s *DetectionService) All() []suspicious.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]suspicious.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// ActiveCounts tallies the active set per severity.
func (s *DetectionService) ActiveCounts() AlertCounts {
	var counts AlertCounts
	for _, a := range s.Active() {
		switch a.Severity {
		case suspicious.SeverityCritical:
			counts.Critical++
		case suspicious.SeverityWarning:
			counts.Warning++
		case suspicious.SeverityInfo:
			counts.Info++
		}
		counts.Total++
	}
	return counts
}

// EvaluatedAt returns when the cached result was computed; zero before the
// first successful cycle.
func (s *DetectionService) EvaluatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evaluatedAt
}

// Dismiss suppresses an alert by ID
func (s *DetectionService) Dismiss(ctx context.Context, alertID string) error {
	if err := s.dismissals.Dismiss(ctx, alertID); err != nil {
		return err
	}
	s.publishCounts()
	return nil
}

// Restore lifts a dismissal by ID
func (s *DetectionService) Restore(ctx context.Context, alertID string) error {
	if err := s.dismissals.Restore(ctx, alertID); err != nil {
		return err
	}
	s.publishCounts()
	return nil
}

// ListDismissed returns the dismissed alert IDs in lexical order
func (s *DetectionService) ListDismissed(ctx context.Context) ([]string, error) {
	return s.dismissals.List(ctx)
}

func (s *DetectionService) publishCounts() {
	counts := s.ActiveCounts()
	metrics.SetActiveAlerts("critical", float64(counts.Critical))
	metrics.SetActiveAlerts("warning", float64(counts.Warning))
	metrics.SetActiveAlerts("info", float64(counts.Info))
}
