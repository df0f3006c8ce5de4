package suspicious

import "time"

// RuleType identifies which detection rule raised an alert. The set is
// closed: adding a rule means adding a constant here and extending the
// exhaustive switches below, which the compiler will point at.
type RuleType string

// Detection rules
const (
	RuleRapidActions      RuleType = "rapid_actions"
	RuleMassStatusChanges RuleType = "mass_status_changes"
	RuleMassRejections    RuleType = "mass_rejections"
	RuleOffHoursActivity  RuleType = "off_hours_activity"
	RuleQuickResolution   RuleType = "quick_resolution"
)

// Valid reports whether the rule type is one of the known values.
func (r RuleType) Valid() bool {
	switch r {
	case RuleRapidActions, RuleMassStatusChanges, RuleMassRejections,
		RuleOffHoursActivity, RuleQuickResolution:
		return true
	}
	return false
}

// Severity classifies an alert for ranking and display emphasis.
type Severity string

// Severity levels
const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Severity returns the fixed severity for the rule type.
func (r RuleType) Severity() Severity {
	switch r {
	case RuleMassRejections:
		return SeverityCritical
	case RuleRapidActions, RuleMassStatusChanges:
		return SeverityWarning
	case RuleOffHoursActivity, RuleQuickResolution:
		return SeverityInfo
	}
	return SeverityInfo
}

// Rank returns the sort rank of the severity; lower sorts first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	}
	return 3
}

// Alert is one raised finding. Alerts are recomputed from scratch on every
// evaluation cycle and never persisted; only the ID must stay stable so an
// externally stored dismissal keeps suppressing the same finding across
// recomputations.
type Alert struct {
	// ID is a deterministic composite derived from the rule, the agent and
	// the triggering window end (or triggering entry), never a random UUID.
	ID        string    `json:"id"`
	Rule      RuleType  `json:"rule_type"`
	Severity  Severity  `json:"severity"`
	AgentID   string    `json:"agent_id"`
	AgentName string    `json:"agent_name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
}

// Less orders alerts by severity rank ascending, then timestamp descending,
// then ID ascending. The ID tiebreak makes the order total: no two distinct
// alerts compare equal.
func Less(a, b Alert) bool {
	if ar, br := a.Severity.Rank(), b.Severity.Rank(); ar != br {
		return ar < br
	}
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.ID < b.ID
}
