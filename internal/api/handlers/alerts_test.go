package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mahefa-ra/agentwatch/internal/detector"
	"github.com/mahefa-ra/agentwatch/internal/domain/agent"
	"github.com/mahefa-ra/agentwatch/internal/domain/audit"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
	"github.com/mahefa-ra/agentwatch/internal/pkg/validator"
	"github.com/mahefa-ra/agentwatch/internal/services"
	"github.com/mahefa-ra/agentwatch/internal/testutil"
)

type fakeTrigger struct {
	reasons []string
}

func (f *fakeTrigger) Trigger(reason string) {
	f.reasons = append(f.reasons, reason)
}

type alertFixture struct {
	handler   *AlertHandler
	detection *services.DetectionService
	auditRepo *testutil.MockAuditRepository
	trigger   *fakeTrigger
}

func newAlertFixture(t *testing.T) *alertFixture {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	auditRepo := &testutil.MockAuditRepository{}
	dismissalSvc, err := services.NewDismissalService(context.Background(), testutil.NewMockDismissalRepository(), log)
	if err != nil {
		t.Fatalf("dismissal service: %v", err)
	}

	detection := services.NewDetectionService(
		detector.New(log, time.UTC),
		services.NewAuditService(auditRepo, log),
		services.NewThresholdService(&testutil.MockThresholdRepository{}, validator.New(), log),
		dismissalSvc,
		&testutil.MockAgentRepository{Agents: map[string]agent.Info{}},
		log,
	)

	trigger := &fakeTrigger{}
	return &alertFixture{
		handler:   NewAlertHandler(detection, trigger, log),
		detection: detection,
		auditRepo: auditRepo,
		trigger:   trigger,
	}
}

func (f *alertFixture) seedRejections(t *testing.T, agentID string, now time.Time) {
	t.Helper()
	for i := 0; i < 3; i++ {
		f.auditRepo.Entries = append(f.auditRepo.Entries, &audit.Entry{
			ID:        agentID + string(rune('a'+i)),
			AgentID:   agentID,
			Action:    audit.ActionReject,
			CreatedAt: now.Add(time.Duration(i-10) * time.Minute),
		})
	}
	if err := f.detection.Evaluate(context.Background(), now, "manual"); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !response.Success {
		t.Fatalf("expected success response, body: %v", rr.Body.String())
	}
	return response.Data
}

func TestAlertHandler_List(t *testing.T) {
	f := newAlertFixture(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.seedRejections(t, "agent-a", now)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil)
	rr := httptest.NewRecorder()
	f.handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	data := decodeData(t, rr)
	alerts := data["alerts"].([]interface{})
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	first := alerts[0].(map[string]interface{})
	if first["ruleType"] != "mass_rejections" || first["severity"] != "critical" {
		t.Errorf("unexpected alert payload: %v", first)
	}
}

func TestAlertHandler_DismissFlow(t *testing.T) {
	f := newAlertFixture(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.seedRejections(t, "agent-a", now)
	id := f.detection.Active()[0].ID

	dismiss := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/"+target+"/dismiss", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", target)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rr := httptest.NewRecorder()
		f.handler.Dismiss(rr, req)
		return rr
	}

	if rr := dismiss(id); rr.Code != http.StatusOK {
		t.Fatalf("dismiss status = %d", rr.Code)
	}
	// Idempotent.
	if rr := dismiss(id); rr.Code != http.StatusOK {
		t.Fatalf("second dismiss status = %d", rr.Code)
	}

	// Active list is now empty; include_dismissed flags the alert.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts?include_dismissed=true", nil)
	rr := httptest.NewRecorder()
	f.handler.List(rr, req)
	data := decodeData(t, rr)
	alerts := data["alerts"].([]interface{})
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	if alerts[0].(map[string]interface{})["dismissed"] != true {
		t.Error("alert not flagged dismissed")
	}

	// Restore brings it back.
	restoreReq := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/"+id+"/restore", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	restoreReq = restoreReq.WithContext(context.WithValue(restoreReq.Context(), chi.RouteCtxKey, rctx))
	rr = httptest.NewRecorder()
	f.handler.Restore(rr, restoreReq)
	if rr.Code != http.StatusOK {
		t.Fatalf("restore status = %d", rr.Code)
	}
	if len(f.detection.Active()) != 1 {
		t.Error("alert not active after restore")
	}
}

func TestAlertHandler_Summary(t *testing.T) {
	f := newAlertFixture(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.seedRejections(t, "agent-a", now)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/summary", nil)
	rr := httptest.NewRecorder()
	f.handler.Summary(rr, req)

	data := decodeData(t, rr)
	if data["critical"].(float64) != 1 || data["total"].(float64) != 1 {
		t.Errorf("summary = %v, want 1 critical", data)
	}
}

func TestAlertHandler_Evaluate(t *testing.T) {
	f := newAlertFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/evaluate", nil)
	rr := httptest.NewRecorder()
	f.handler.Evaluate(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rr.Code)
	}
	if len(f.trigger.reasons) != 1 || f.trigger.reasons[0] != "manual" {
		t.Errorf("trigger reasons = %v", f.trigger.reasons)
	}
}

func TestThresholdHandler_UpdateRejectsInvalid(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	val := validator.New()
	svc := services.NewThresholdService(&testutil.MockThresholdRepository{}, val, log)
	handler := NewThresholdHandler(svc, log, val)

	body := bytes.NewBufferString(`{"rapidActionsCount": 0}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/thresholds", body)
	rr := httptest.NewRecorder()
	handler.Update(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	// Active config untouched.
	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/thresholds", nil)
	getRR := httptest.NewRecorder()
	handler.Get(getRR, getReq)
	data := decodeData(t, getRR)
	if data["rapidActionsCount"].(float64) != 10 {
		t.Errorf("config changed by rejected update: %v", data)
	}
}

func TestAuditHandler_RecordTriggersEvaluation(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	repo := &testutil.MockAuditRepository{}
	trigger := &fakeTrigger{}
	handler := NewAuditHandler(services.NewAuditService(repo, log), trigger, log, validator.New())

	body := bytes.NewBufferString(`{"agentId": "agent-a", "actionType": "view", "signalementId": "s1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/audit", body)
	rr := httptest.NewRecorder()
	handler.Record(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rr.Code, rr.Body.String())
	}
	if len(repo.Entries) != 1 {
		t.Fatalf("entry not stored")
	}
	if len(trigger.reasons) != 1 || trigger.reasons[0] != "ingest" {
		t.Errorf("trigger reasons = %v", trigger.reasons)
	}

	// Unknown action types are rejected before storage.
	bad := bytes.NewBufferString(`{"agentId": "agent-a", "actionType": "nuke"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/audit", bad)
	rr = httptest.NewRecorder()
	handler.Record(rr, req)
	if rr.Code == http.StatusCreated {
		t.Error("unknown action type accepted")
	}
	if len(repo.Entries) != 1 {
		t.Error("invalid entry stored")
	}
}
