package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mahefa-ra/agentwatch/internal/detector"
	"github.com/mahefa-ra/agentwatch/internal/domain/agent"
	"github.com/mahefa-ra/agentwatch/internal/domain/audit"
	"github.com/mahefa-ra/agentwatch/internal/domain/threshold"
	apperrors "github.com/mahefa-ra/agentwatch/internal/pkg/errors"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
	"github.com/mahefa-ra/agentwatch/internal/pkg/validator"
	"github.com/mahefa-ra/agentwatch/internal/testutil"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

type detectionFixture struct {
	service    *DetectionService
	auditRepo  *testutil.MockAuditRepository
	agentRepo  *testutil.MockAgentRepository
	dismissals *testutil.MockDismissalRepository
}

func newDetectionFixture(t *testing.T) *detectionFixture {
	t.Helper()
	log := testLogger()

	auditRepo := &testutil.MockAuditRepository{}
	agentRepo := &testutil.MockAgentRepository{Agents: map[string]agent.Info{
		"agent-a": {ID: "agent-a", FullName: "Hery Rakoto", Email: "hery@example.org"},
	}}
	dismissalRepo := testutil.NewMockDismissalRepository()

	dismissalSvc, err := NewDismissalService(context.Background(), dismissalRepo, log)
	if err != nil {
		t.Fatalf("dismissal service: %v", err)
	}

	svc := NewDetectionService(
		detector.New(log, time.UTC),
		NewAuditService(auditRepo, log),
		NewThresholdService(&testutil.MockThresholdRepository{}, validator.New(), log),
		dismissalSvc,
		agentRepo,
		log,
	)

	return &detectionFixture{
		service:    svc,
		auditRepo:  auditRepo,
		agentRepo:  agentRepo,
		dismissals: dismissalRepo,
	}
}

func rejectionBurst(agentID string, start time.Time, n int) []*audit.Entry {
	entries := make([]*audit.Entry, n)
	for i := 0; i < n; i++ {
		entries[i] = &audit.Entry{
			ID:        fmt.Sprintf("%s-reject-%d", agentID, i),
			AgentID:   agentID,
			Action:    audit.ActionReject,
			CreatedAt: start.Add(time.Duration(i) * time.Minute),
		}
	}
	return entries
}

func TestDetectionServiceEvaluateAndActive(t *testing.T) {
	f := newDetectionFixture(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.auditRepo.Entries = rejectionBurst("agent-a", now.Add(-time.Hour), 3)

	if err := f.service.Evaluate(context.Background(), now, "manual"); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	active := f.service.Active()
	if len(active) != 1 {
		t.Fatalf("expected 1 active alert, got %d", len(active))
	}
	if active[0].AgentName != "Hery Rakoto" {
		t.Errorf("AgentName = %q, want enriched directory name", active[0].AgentName)
	}

	counts := f.service.ActiveCounts()
	if counts.Critical != 1 || counts.Total != 1 {
		t.Errorf("counts = %+v, want 1 critical", counts)
	}
	if !f.service.EvaluatedAt().Equal(now) {
		t.Errorf("EvaluatedAt = %v, want %v", f.service.EvaluatedAt(), now)
	}
}

func TestDetectionServiceStaleCacheOnAuditFailure(t *testing.T) {
	f := newDetectionFixture(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.auditRepo.Entries = rejectionBurst("agent-a", now.Add(-time.Hour), 3)

	if err := f.service.Evaluate(context.Background(), now, "manual"); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := f.service.Active()

	f.auditRepo.Err = errors.New("connection refused")
	err := f.service.Evaluate(context.Background(), now.Add(time.Minute), "schedule")
	if err == nil {
		t.Fatal("expected error when audit source is down")
	}
	if !apperrors.IsRetryable(err) {
		t.Errorf("audit source failure must be retryable, got %v", err)
	}

	// Previous result still served.
	got := f.service.Active()
	if len(got) != len(want) || got[0].ID != want[0].ID {
		t.Errorf("stale cache lost: got %v, want %v", got, want)
	}
	if !f.service.EvaluatedAt().Equal(now) {
		t.Errorf("EvaluatedAt moved despite failed cycle")
	}
}

func TestDetectionServiceDismissRestore(t *testing.T) {
	f := newDetectionFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.auditRepo.Entries = rejectionBurst("agent-a", now.Add(-time.Hour), 3)

	if err := f.service.Evaluate(ctx, now, "manual"); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	id := f.service.Active()[0].ID

	// Dismiss twice: idempotent, listed once.
	if err := f.service.Dismiss(ctx, id); err != nil {
		t.Fatalf("Dismiss: %v", err)
	}
	if err := f.service.Dismiss(ctx, id); err != nil {
		t.Fatalf("Dismiss again: %v", err)
	}

	if got := f.service.Active(); len(got) != 0 {
		t.Errorf("dismissed alert still active: %v", got)
	}
	if got := f.service.All(); len(got) != 1 {
		t.Errorf("All() must include dismissed alerts, got %d", len(got))
	}

	dismissed, err := f.service.ListDismissed(ctx)
	if err != nil {
		t.Fatalf("ListDismissed: %v", err)
	}
	if len(dismissed) != 1 || dismissed[0] != id {
		t.Errorf("dismissed list = %v, want [%s]", dismissed, id)
	}

	// Re-evaluation keeps the dismissal, since the ID is deterministic.
	if err := f.service.Evaluate(ctx, now.Add(time.Minute), "schedule"); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := f.service.Active(); len(got) != 0 {
		t.Errorf("dismissal did not survive re-evaluation: %v", got)
	}

	if err := f.service.Restore(ctx, id); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := f.service.Active(); len(got) != 1 {
		t.Errorf("restored alert not active: %v", got)
	}
}

func TestDetectionServiceAgentDirectoryFailureDegrades(t *testing.T) {
	f := newDetectionFixture(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.auditRepo.Entries = rejectionBurst("agent-a", now.Add(-time.Hour), 3)
	f.agentRepo.Err = errors.New("directory offline")

	if err := f.service.Evaluate(context.Background(), now, "manual"); err != nil {
		t.Fatalf("directory failure must not fail the cycle: %v", err)
	}
	active := f.service.Active()
	if len(active) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(active))
	}
	if active[0].AgentName != "" {
		t.Errorf("AgentName = %q, want bare ID fallback", active[0].AgentName)
	}
}

func TestThresholdServiceUpdateValidation(t *testing.T) {
	log := testLogger()
	repo := &testutil.MockThresholdRepository{}
	svc := NewThresholdService(repo, validator.New(), log)
	ctx := context.Background()

	// Unset store serves the defaults.
	cfg, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg != threshold.Default() {
		t.Errorf("Get on empty store = %+v, want defaults", cfg)
	}

	var notified []threshold.Config
	svc.OnChanged(func(c threshold.Config) { notified = append(notified, c) })

	// Invalid update rejected, active config untouched.
	bad := threshold.Default()
	bad.RapidActionsCount = 0
	if err := svc.Update(ctx, bad); err == nil {
		t.Fatal("expected validation error for zero count")
	}
	bad = threshold.Default()
	bad.OffHoursEnd = 24
	if err := svc.Update(ctx, bad); err == nil {
		t.Fatal("expected validation error for hour out of range")
	}
	if len(notified) != 0 {
		t.Errorf("rejected updates must not notify, got %d callbacks", len(notified))
	}

	good := threshold.Default()
	good.RapidActionsCount = 20
	if err := svc.Update(ctx, good); err != nil {
		t.Fatalf("Update: %v", err)
	}
	cfg, _ = svc.Get(ctx)
	if cfg.RapidActionsCount != 20 {
		t.Errorf("RapidActionsCount = %d, want 20", cfg.RapidActionsCount)
	}
	if len(notified) != 1 || notified[0].RapidActionsCount != 20 {
		t.Errorf("expected one change notification, got %v", notified)
	}

	reset, err := svc.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if reset != threshold.Default() {
		t.Errorf("Reset = %+v, want defaults", reset)
	}
	if len(notified) != 2 {
		t.Errorf("reset must notify, got %d callbacks", len(notified))
	}
}

func TestAuditServiceRecord(t *testing.T) {
	log := testLogger()
	repo := &testutil.MockAuditRepository{}
	svc := NewAuditService(repo, log)
	ctx := context.Background()

	id, err := svc.Record(ctx, &audit.Entry{
		AgentID: "agent-a",
		Action:  audit.ActionView,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id == "" {
		t.Error("expected generated entry ID")
	}
	if len(repo.Entries) != 1 || repo.Entries[0].CreatedAt.IsZero() {
		t.Error("expected stored entry with assigned timestamp")
	}

	if _, err := svc.Record(ctx, &audit.Entry{Action: audit.ActionView}); err == nil {
		t.Error("expected error for missing agent_id")
	}
	if _, err := svc.Record(ctx, &audit.Entry{AgentID: "agent-a", Action: "nuke"}); err == nil {
		t.Error("expected error for unknown action type")
	}
}
