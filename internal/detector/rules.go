package detector

import (
	"fmt"
	"time"

	"github.com/mahefa-ra/agentwatch/internal/domain/audit"
	"github.com/mahefa-ra/agentwatch/internal/domain/suspicious"
	"github.com/mahefa-ra/agentwatch/internal/domain/threshold"
)

// The five rule evaluators. Each consumes one agent's lookback-filtered,
// chronologically sorted entries plus the active thresholds and returns
// zero or more raw alerts. Rules never consult each other's output.

// countingRule implements the shared shape of the rapid-actions,
// mass-status-changes and mass-rejections rules: every entry timestamp is
// a candidate window end; the rule fires when the trailing window holds at
// least minCount entries. One alert is raised per qualifying window end:
// consecutive entries inside one sustained burst each close their own
// window, so a burst produces several structurally similar alerts. The ID
// collapses only exact repeats (same agent, same window-end millisecond),
// which is the intended behavior, not a dedup bug.
func countingRule(rule suspicious.RuleType, idPrefix, agentID, noun string, entries []*audit.Entry, minCount, windowMinutes int) []suspicious.Alert {
	if len(entries) == 0 {
		return nil
	}

	ts := make([]time.Time, len(entries))
	for i, e := range entries {
		ts[i] = e.CreatedAt
	}
	counts := trailingCounts(ts, time.Duration(windowMinutes)*time.Minute)

	var alerts []suspicious.Alert
	seen := make(map[int64]struct{})
	for i, c := range counts {
		if c < minCount {
			continue
		}
		endMillis := ts[i].UnixMilli()
		if _, dup := seen[endMillis]; dup {
			continue
		}
		seen[endMillis] = struct{}{}

		alerts = append(alerts, suspicious.Alert{
			ID:        fmt.Sprintf("%s%s-%d", idPrefix, agentID, endMillis),
			Rule:      rule,
			Severity:  rule.Severity(),
			AgentID:   agentID,
			Timestamp: ts[i],
			Details:   fmt.Sprintf("%d %s in %d minutes", c, noun, windowMinutes),
		})
	}
	return alerts
}

// rapidActions counts every action type.
func rapidActions(agentID string, entries []*audit.Entry, cfg threshold.Config) []suspicious.Alert {
	return countingRule(suspicious.RuleRapidActions, "rapid-", agentID, "actions",
		entries, cfg.RapidActionsCount, cfg.RapidActionsWindowMinutes)
}

// massStatusChanges counts only update_status and resolve actions.
func massStatusChanges(agentID string, entries []*audit.Entry, cfg threshold.Config) []suspicious.Alert {
	filtered := filterActions(entries, audit.ActionUpdateStatus, audit.ActionResolve)
	return countingRule(suspicious.RuleMassStatusChanges, "mass-status-", agentID, "status changes",
		filtered, cfg.MassStatusChangesCount, cfg.MassStatusChangesWindowMinutes)
}

// massRejections counts only reject actions.
func massRejections(agentID string, entries []*audit.Entry, cfg threshold.Config) []suspicious.Alert {
	filtered := filterActions(entries, audit.ActionReject)
	return countingRule(suspicious.RuleMassRejections, "mass-reject-", agentID, "rejections",
		filtered, cfg.MassRejectionsCount, cfg.MassRejectionsWindowMinutes)
}

// offHoursActivity raises at most one alert per agent per calendar day,
// timestamped at the latest off-hours entry of that day. The configured
// range is non-wrapping: an entry hour h matches when start <= h < end,
// so start > end denotes an empty range and nothing ever fires.
func offHoursActivity(agentID string, entries []*audit.Entry, cfg threshold.Config, loc *time.Location) []suspicious.Alert {
	type dayActivity struct {
		count  int
		latest *audit.Entry
	}

	byDay := make(map[string]*dayActivity)
	var days []string
	for _, e := range entries {
		local := e.CreatedAt.In(loc)
		h := local.Hour()
		if h < cfg.OffHoursStart || h >= cfg.OffHoursEnd {
			continue
		}
		day := local.Format("2006-01-02")
		d := byDay[day]
		if d == nil {
			d = &dayActivity{}
			byDay[day] = d
			days = append(days, day)
		}
		d.count++
		if d.latest == nil || e.CreatedAt.After(d.latest.CreatedAt) {
			d.latest = e
		}
	}

	var alerts []suspicious.Alert
	for _, day := range days {
		d := byDay[day]
		alerts = append(alerts, suspicious.Alert{
			ID:        fmt.Sprintf("off-hours-%s-%s", agentID, day),
			Rule:      suspicious.RuleOffHoursActivity,
			Severity:  suspicious.RuleOffHoursActivity.Severity(),
			AgentID:   agentID,
			Timestamp: d.latest.CreatedAt,
			Details:   fmt.Sprintf("%d actions between %02d:00 and %02d:00 on %s", d.count, cfg.OffHoursStart, cfg.OffHoursEnd, day),
		})
	}
	return alerts
}

// quickResolution fires once per resolve entry whose minute distance from
// the agent's earliest view of the same signalement is within the
// threshold. The alert is keyed by the resolve entry's own ID since this
// rule is per-event rather than per-window.
func quickResolution(agentID string, entries []*audit.Entry, cfg threshold.Config) []suspicious.Alert {
	firstView := make(map[string]time.Time)
	for _, e := range entries {
		if e.Action != audit.ActionView || e.SignalementID == "" {
			continue
		}
		if t, ok := firstView[e.SignalementID]; !ok || e.CreatedAt.Before(t) {
			firstView[e.SignalementID] = e.CreatedAt
		}
	}

	var alerts []suspicious.Alert
	for _, e := range entries {
		if e.Action != audit.ActionResolve || e.SignalementID == "" {
			continue
		}
		viewedAt, ok := firstView[e.SignalementID]
		if !ok {
			continue
		}
		minutes := e.CreatedAt.Sub(viewedAt).Minutes()
		if minutes > float64(cfg.QuickResolutionMinutes) {
			continue
		}
		alerts = append(alerts, suspicious.Alert{
			ID:        "quick-resolve-" + e.ID,
			Rule:      suspicious.RuleQuickResolution,
			Severity:  suspicious.RuleQuickResolution.Severity(),
			AgentID:   agentID,
			Timestamp: e.CreatedAt,
			Details:   fmt.Sprintf("signalement %s resolved %.1f minutes after first view", e.SignalementID, minutes),
		})
	}
	return alerts
}

func filterActions(entries []*audit.Entry, actions ...audit.ActionType) []*audit.Entry {
	var out []*audit.Entry
	for _, e := range entries {
		for _, a := range actions {
			if e.Action == a {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
