package detector

import (
	"sort"
	"time"

	"github.com/mahefa-ra/agentwatch/internal/domain/audit"
	"github.com/mahefa-ra/agentwatch/internal/domain/suspicious"
	"github.com/mahefa-ra/agentwatch/internal/domain/threshold"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
	"github.com/mahefa-ra/agentwatch/internal/pkg/metrics"
)

// Lookback is the fixed evaluation horizon. Every rule sees only entries
// from the trailing 24 hours; this bound is not operator-configurable.
const Lookback = 24 * time.Hour

// Input is the immutable snapshot one evaluation cycle runs over. The
// same (Entries, Config, Now) triple always yields the same ordered alert
// set, which is what keeps dismissal IDs meaningful across recomputations.
type Input struct {
	Entries []*audit.Entry
	Config  threshold.Config
	Now     time.Time
}

// Engine evaluates the detection rules over an audit log snapshot. It
// holds no mutable evaluation state, so one Engine may serve concurrent
// Evaluate calls.
type Engine struct {
	loc    *time.Location
	logger *logger.Logger
}

// New creates a detection engine. loc is the location used to derive the
// hour-of-day and calendar date for the off-hours rule; nil means UTC.
func New(log *logger.Logger, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{loc: loc, logger: log}
}

// Evaluate runs all five rules over the snapshot and returns the merged,
// deduplicated alert set in its total display order: severity rank
// ascending, timestamp descending, ID ascending.
func (e *Engine) Evaluate(in Input) []suspicious.Alert {
	byAgent, agentIDs := e.groupByAgent(in)

	merged := make(map[string]suspicious.Alert)
	for _, agentID := range agentIDs {
		entries := byAgent[agentID]

		var raw []suspicious.Alert
		raw = append(raw, rapidActions(agentID, entries, in.Config)...)
		raw = append(raw, massStatusChanges(agentID, entries, in.Config)...)
		raw = append(raw, massRejections(agentID, entries, in.Config)...)
		raw = append(raw, offHoursActivity(agentID, entries, in.Config, e.loc)...)
		raw = append(raw, quickResolution(agentID, entries, in.Config)...)

		// Keep-first merge. The rules are internally unique per ID, so
		// this only matters for overlapping invocations feeding the same
		// map; keeping the first occurrence makes the merge idempotent.
		for _, a := range raw {
			if _, ok := merged[a.ID]; !ok {
				merged[a.ID] = a
			}
		}
	}

	alerts := make([]suspicious.Alert, 0, len(merged))
	for _, a := range merged {
		alerts = append(alerts, a)
	}
	sort.Slice(alerts, func(i, j int) bool {
		return suspicious.Less(alerts[i], alerts[j])
	})
	return alerts
}

// groupByAgent applies the lookback bound and per-entry validation once,
// before any rule executes, and hands every rule the same grouped view.
// A malformed entry is skipped with a warning, never aborting the cycle.
func (e *Engine) groupByAgent(in Input) (map[string][]*audit.Entry, []string) {
	cutoff := in.Now.Add(-Lookback)

	byAgent := make(map[string][]*audit.Entry)
	for _, entry := range in.Entries {
		if entry == nil {
			continue
		}
		if entry.CreatedAt.IsZero() {
			e.logger.WithFields(map[string]interface{}{
				"entry_id": entry.ID,
			}).Warn("Skipping audit entry with missing timestamp")
			metrics.RecordSkippedEntry()
			continue
		}
		if !entry.Action.Valid() {
			e.logger.WithFields(map[string]interface{}{
				"entry_id":    entry.ID,
				"action_type": string(entry.Action),
			}).Warn("Skipping audit entry with unknown action type")
			metrics.RecordSkippedEntry()
			continue
		}
		if entry.AgentID == "" {
			e.logger.WithFields(map[string]interface{}{
				"entry_id": entry.ID,
			}).Warn("Skipping audit entry with no agent")
			metrics.RecordSkippedEntry()
			continue
		}
		if !entry.CreatedAt.After(cutoff) || entry.CreatedAt.After(in.Now) {
			continue
		}
		byAgent[entry.AgentID] = append(byAgent[entry.AgentID], entry)
	}

	agentIDs := make([]string, 0, len(byAgent))
	for agentID, entries := range byAgent {
		sortChronologically(entries)
		agentIDs = append(agentIDs, agentID)
	}
	sort.Strings(agentIDs)

	return byAgent, agentIDs
}
