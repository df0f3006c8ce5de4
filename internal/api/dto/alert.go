package dto

import (
	"time"

	"github.com/mahefa-ra/agentwatch/internal/domain/suspicious"
)

// AlertDTO represents a detection alert in API responses
// Uses camelCase for frontend compatibility
type AlertDTO struct {
	ID        string    `json:"id"`
	RuleType  string    `json:"ruleType"`
	Severity  string    `json:"severity"`
	AgentID   string    `json:"agentId"`
	AgentName string    `json:"agentName,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
	Dismissed bool      `json:"dismissed,omitempty"`
}

// NewAlertDTO converts a domain alert for the wire
func NewAlertDTO(a suspicious.Alert, dismissed bool) AlertDTO {
	return AlertDTO{
		ID:        a.ID,
		RuleType:  string(a.Rule),
		Severity:  string(a.Severity),
		AgentID:   a.AgentID,
		AgentName: a.AgentName,
		Timestamp: a.Timestamp,
		Details:   a.Details,
		Dismissed: dismissed,
	}
}

// AlertSummaryDTO represents active alert counts per severity
type AlertSummaryDTO struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}

// AlertListDTO is the alert list response envelope
type AlertListDTO struct {
	Alerts      []AlertDTO `json:"alerts"`
	EvaluatedAt time.Time  `json:"evaluatedAt,omitempty"`
}
