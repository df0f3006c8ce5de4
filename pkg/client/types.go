package client

import "time"

// Alert represents one suspicious-activity finding
type Alert struct {
	ID        string    `json:"id"`
	RuleType  string    `json:"ruleType"`
	Severity  string    `json:"severity"` // critical, warning, info
	AgentID   string    `json:"agentId"`
	AgentName string    `json:"agentName,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
	Dismissed bool      `json:"dismissed,omitempty"`
}

// AlertList is the ranked alert set plus the snapshot time it was
// computed from
type AlertList struct {
	Alerts      []Alert   `json:"alerts"`
	EvaluatedAt time.Time `json:"evaluatedAt,omitempty"`
}

// AlertSummary holds active alert counts per severity
type AlertSummary struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}

// Threshold holds the detection threshold configuration
type Threshold struct {
	RapidActionsCount              int  `json:"rapidActionsCount"`
	RapidActionsWindowMinutes      int  `json:"rapidActionsWindowMinutes"`
	MassStatusChangesCount         int  `json:"massStatusChangesCount"`
	MassStatusChangesWindowMinutes int  `json:"massStatusChangesWindowMinutes"`
	MassRejectionsCount            int  `json:"massRejectionsCount"`
	MassRejectionsWindowMinutes    int  `json:"massRejectionsWindowMinutes"`
	QuickResolutionMinutes         int  `json:"quickResolutionMinutes"`
	OffHoursStart                  int  `json:"offHoursStart"`
	OffHoursEnd                    int  `json:"offHoursEnd"`
	NotifyEmail                    bool `json:"notifyEmail"`
	NotifyInApp                    bool `json:"notifyInApp"`
}

// AuditEntry represents one audit log record
type AuditEntry struct {
	ID            string    `json:"id"`
	AgentID       string    `json:"agentId"`
	SignalementID string    `json:"signalementId,omitempty"`
	ActionType    string    `json:"actionType"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Agent represents an agent directory record
type Agent struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Page wraps a paginated result
type Page[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// HealthResponse is the health endpoint payload
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}
