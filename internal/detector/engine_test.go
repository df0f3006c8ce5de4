package detector

import (
	"fmt"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/mahefa-ra/agentwatch/internal/domain/audit"
	"github.com/mahefa-ra/agentwatch/internal/domain/suspicious"
	"github.com/mahefa-ra/agentwatch/internal/domain/threshold"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return New(log, time.UTC)
}

func TestEngineScenarioRapidActions(t *testing.T) {
	// Agent performs 5 views at minutes 0..4; threshold is 5 in 5 minutes.
	eng := testEngine(t)
	now := testBase.Add(time.Hour)

	cfg := threshold.Default()
	cfg.RapidActionsCount = 5
	cfg.RapidActionsWindowMinutes = 5

	var entries []*audit.Entry
	for i := 0; i < 5; i++ {
		entries = append(entries, entry(fmt.Sprintf("e%d", i), "agent-a", audit.ActionView,
			testBase.Add(time.Duration(i)*time.Minute)))
	}

	alerts := eng.Evaluate(Input{Entries: entries, Config: cfg, Now: now})
	if len(alerts) != 1 {
		t.Fatalf("expected exactly 1 alert, got %d: %v", len(alerts), alerts)
	}
	a := alerts[0]
	if a.Rule != suspicious.RuleRapidActions {
		t.Errorf("Rule = %q", a.Rule)
	}
	wantEnd := testBase.Add(4 * time.Minute)
	if !a.Timestamp.Equal(wantEnd) {
		t.Errorf("window end = %v, want minute 4 (%v)", a.Timestamp, wantEnd)
	}
	if want := fmt.Sprintf("rapid-agent-a-%d", wantEnd.UnixMilli()); a.ID != want {
		t.Errorf("ID = %q, want %q", a.ID, want)
	}
}

func TestEngineScenarioMassRejections(t *testing.T) {
	eng := testEngine(t)
	now := testBase.Add(time.Hour)

	entries := []*audit.Entry{
		entry("e1", "agent-b", audit.ActionReject, testBase),
		entry("e2", "agent-b", audit.ActionReject, testBase.Add(10*time.Minute)),
		entry("e3", "agent-b", audit.ActionReject, testBase.Add(20*time.Minute)),
	}

	cfg := threshold.Default()
	cfg.MassRejectionsCount = 3
	cfg.MassRejectionsWindowMinutes = 30

	alerts := eng.Evaluate(Input{Entries: entries, Config: cfg, Now: now})
	if len(alerts) != 1 {
		t.Fatalf("window 30: expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Severity != suspicious.SeverityCritical {
		t.Errorf("Severity = %q, want critical", alerts[0].Severity)
	}
	if want := testBase.Add(20 * time.Minute); !alerts[0].Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want minute 20", alerts[0].Timestamp)
	}

	cfg.MassRejectionsWindowMinutes = 15
	alerts = eng.Evaluate(Input{Entries: entries, Config: cfg, Now: now})
	if len(alerts) != 0 {
		t.Fatalf("window 15: expected 0 alerts, got %d", len(alerts))
	}
}

func TestEngineScenarioQuickResolution(t *testing.T) {
	eng := testEngine(t)
	viewAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	now := viewAt.Add(time.Hour)
	cfg := threshold.Default()
	cfg.QuickResolutionMinutes = 5

	t.Run("resolved two minutes after view", func(t *testing.T) {
		entries := []*audit.Entry{
			entryFor("e1", "agent-c", "s1", audit.ActionView, viewAt),
			entryFor("e2", "agent-c", "s1", audit.ActionResolve, viewAt.Add(2*time.Minute)),
		}
		alerts := eng.Evaluate(Input{Entries: entries, Config: cfg, Now: now})
		if len(alerts) != 1 || alerts[0].Rule != suspicious.RuleQuickResolution {
			t.Fatalf("expected one quick_resolution alert, got %v", alerts)
		}
	})

	t.Run("resolved ten minutes after view", func(t *testing.T) {
		entries := []*audit.Entry{
			entryFor("e1", "agent-c", "s1", audit.ActionView, viewAt),
			entryFor("e2", "agent-c", "s1", audit.ActionResolve, viewAt.Add(10*time.Minute)),
		}
		alerts := eng.Evaluate(Input{Entries: entries, Config: cfg, Now: now})
		if len(alerts) != 0 {
			t.Fatalf("expected no alerts, got %v", alerts)
		}
	})
}

func TestEngineScenarioOffHoursNonWrapping(t *testing.T) {
	// 23:30 activity with a 22..6 range. The range is non-wrapping, so
	// start > end means no hour ever matches and nothing may fire. A
	// wrapping implementation would raise here; this test pins the
	// documented semantics.
	eng := testEngine(t)
	at := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	now := at.Add(time.Hour)

	cfg := threshold.Default()
	cfg.OffHoursStart = 22
	cfg.OffHoursEnd = 6

	entries := []*audit.Entry{entry("e1", "agent-d", audit.ActionView, at)}
	alerts := eng.Evaluate(Input{Entries: entries, Config: cfg, Now: now})
	if len(alerts) != 0 {
		t.Fatalf("expected 0 alerts for start > end range, got %v", alerts)
	}
}

func TestEngineDeterminism(t *testing.T) {
	eng := testEngine(t)
	now := testBase.Add(2 * time.Hour)
	cfg := threshold.Default()

	build := func(order []int) []*audit.Entry {
		all := []*audit.Entry{
			entry("r1", "agent-a", audit.ActionReject, testBase),
			entry("r2", "agent-a", audit.ActionReject, testBase.Add(5*time.Minute)),
			entry("r3", "agent-a", audit.ActionReject, testBase.Add(10*time.Minute)),
			entry("o1", "agent-b", audit.ActionView, time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)),
			entryFor("v1", "agent-c", "s1", audit.ActionView, testBase),
			entryFor("q1", "agent-c", "s1", audit.ActionResolve, testBase.Add(time.Minute)),
		}
		out := make([]*audit.Entry, len(all))
		for i, j := range order {
			out[i] = all[j]
		}
		return out
	}

	first := eng.Evaluate(Input{Entries: build([]int{0, 1, 2, 3, 4, 5}), Config: cfg, Now: now})
	if len(first) == 0 {
		t.Fatal("expected alerts")
	}

	permutations := [][]int{
		{5, 4, 3, 2, 1, 0},
		{3, 0, 5, 2, 4, 1},
		{2, 4, 0, 5, 1, 3},
	}
	for _, p := range permutations {
		got := eng.Evaluate(Input{Entries: build(p), Config: cfg, Now: now})
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("input order %v changed the result:\n got %v\nwant %v", p, got, first)
		}
	}
}

func TestEngineMonotonicThresholds(t *testing.T) {
	// Raising a count threshold never adds alerts for the same input.
	eng := testEngine(t)
	now := testBase.Add(time.Hour)
	entries := burst("agent-a", audit.ActionView, 15, testBase, 10*time.Second)

	prev := -1
	for count := 5; count <= 20; count += 5 {
		cfg := threshold.Default()
		cfg.RapidActionsCount = count
		got := eng.Evaluate(Input{Entries: entries, Config: cfg, Now: now})
		if prev >= 0 && len(got) > prev {
			t.Fatalf("count %d produced %d alerts, more than %d at lower threshold", count, len(got), prev)
		}
		prev = len(got)
	}
}

func TestEngineIdentityStability(t *testing.T) {
	// Adding unrelated entries must not change the IDs of existing alerts.
	eng := testEngine(t)
	now := testBase.Add(time.Hour)
	cfg := threshold.Default()

	entries := []*audit.Entry{
		entry("r1", "agent-a", audit.ActionReject, testBase),
		entry("r2", "agent-a", audit.ActionReject, testBase.Add(time.Minute)),
		entry("r3", "agent-a", audit.ActionReject, testBase.Add(2*time.Minute)),
	}
	before := eng.Evaluate(Input{Entries: entries, Config: cfg, Now: now})
	if len(before) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(before))
	}

	extended := append([]*audit.Entry{}, entries...)
	extended = append(extended,
		entry("x1", "agent-z", audit.ActionView, testBase.Add(30*time.Minute)),
		entry("x2", "agent-a", audit.ActionView, testBase.Add(40*time.Minute)),
	)
	after := eng.Evaluate(Input{Entries: extended, Config: cfg, Now: now})

	ids := make(map[string]bool)
	for _, a := range after {
		ids[a.ID] = true
	}
	if !ids[before[0].ID] {
		t.Fatalf("alert ID %q vanished after unrelated entries were added", before[0].ID)
	}
}

func TestEngineRankingTotality(t *testing.T) {
	eng := testEngine(t)
	now := testBase.Add(2 * time.Hour)
	cfg := threshold.Default()

	var entries []*audit.Entry
	// Critical, warning and info alerts across several agents.
	for i, agentID := range []string{"agent-a", "agent-b", "agent-c"} {
		start := testBase.Add(time.Duration(i) * time.Minute)
		entries = append(entries,
			entry(fmt.Sprintf("r1-%d", i), agentID, audit.ActionReject, start),
			entry(fmt.Sprintf("r2-%d", i), agentID, audit.ActionReject, start.Add(time.Minute)),
			entry(fmt.Sprintf("r3-%d", i), agentID, audit.ActionReject, start.Add(2*time.Minute)),
		)
		entries = append(entries, entry(fmt.Sprintf("n-%d", i), agentID, audit.ActionView,
			time.Date(2026, 3, 10, 2, i, 0, 0, time.UTC)))
	}

	alerts := eng.Evaluate(Input{Entries: entries, Config: cfg, Now: now})
	if len(alerts) < 4 {
		t.Fatalf("expected multiple alerts, got %d", len(alerts))
	}

	// Exactly one of a<b, b<a for every distinct pair.
	for i := range alerts {
		for j := range alerts {
			if i == j {
				continue
			}
			ab := suspicious.Less(alerts[i], alerts[j])
			ba := suspicious.Less(alerts[j], alerts[i])
			if ab == ba {
				t.Fatalf("alerts %q and %q do not compare totally", alerts[i].ID, alerts[j].ID)
			}
		}
	}

	// And the returned slice is already in that order.
	if !sort.SliceIsSorted(alerts, func(i, j int) bool {
		return suspicious.Less(alerts[i], alerts[j])
	}) {
		t.Fatal("alerts not returned in ranked order")
	}

	// Severity ranks are non-decreasing down the list.
	for i := 1; i < len(alerts); i++ {
		if alerts[i].Severity.Rank() < alerts[i-1].Severity.Rank() {
			t.Fatalf("severity %q ranked after %q", alerts[i].Severity, alerts[i-1].Severity)
		}
	}
}

func TestEngineSkipsMalformedEntries(t *testing.T) {
	eng := testEngine(t)
	now := testBase.Add(time.Hour)
	cfg := threshold.Default()
	cfg.MassRejectionsCount = 2

	entries := []*audit.Entry{
		nil,
		{ID: "bad-ts", AgentID: "agent-a", Action: audit.ActionReject},
		entry("bad-action", "agent-a", "delete_everything", testBase),
		{ID: "bad-agent", Action: audit.ActionReject, CreatedAt: testBase},
		entry("ok1", "agent-a", audit.ActionReject, testBase),
		entry("ok2", "agent-a", audit.ActionReject, testBase.Add(time.Minute)),
	}

	alerts := eng.Evaluate(Input{Entries: entries, Config: cfg, Now: now})
	if len(alerts) != 1 {
		t.Fatalf("malformed entries must be skipped, not fatal: got %d alerts", len(alerts))
	}
}

func TestEngineLookbackBound(t *testing.T) {
	eng := testEngine(t)
	now := testBase
	cfg := threshold.Default()
	cfg.MassRejectionsCount = 2

	entries := []*audit.Entry{
		// Outside the 24h horizon.
		entry("old1", "agent-a", audit.ActionReject, now.Add(-25*time.Hour)),
		entry("old2", "agent-a", audit.ActionReject, now.Add(-25*time.Hour).Add(time.Minute)),
		// In the future relative to Now.
		entry("fut1", "agent-a", audit.ActionReject, now.Add(time.Minute)),
		entry("fut2", "agent-a", audit.ActionReject, now.Add(2*time.Minute)),
	}

	alerts := eng.Evaluate(Input{Entries: entries, Config: cfg, Now: now})
	if len(alerts) != 0 {
		t.Fatalf("entries outside (now-24h, now] must be ignored, got %v", alerts)
	}
}
