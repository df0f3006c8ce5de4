package dto

import (
	"time"

	"github.com/mahefa-ra/agentwatch/internal/domain/audit"
)

// AuditEntryDTO represents one audit log entry in API responses
type AuditEntryDTO struct {
	ID            string    `json:"id"`
	AgentID       string    `json:"agentId"`
	SignalementID string    `json:"signalementId,omitempty"`
	ActionType    string    `json:"actionType"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewAuditEntryDTO converts a domain entry for the wire
func NewAuditEntryDTO(e *audit.Entry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:            e.ID,
		AgentID:       e.AgentID,
		SignalementID: e.SignalementID,
		ActionType:    string(e.Action),
		CreatedAt:     e.CreatedAt,
	}
}

// RecordAuditRequest represents an audit ingest request. ID and createdAt
// are optional; missing values are assigned server-side.
type RecordAuditRequest struct {
	ID            string     `json:"id,omitempty"`
	AgentID       string     `json:"agentId" validate:"required"`
	SignalementID string     `json:"signalementId,omitempty"`
	ActionType    string     `json:"actionType" validate:"required"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

// ToEntry converts the request into a domain entry
func (r RecordAuditRequest) ToEntry() *audit.Entry {
	e := &audit.Entry{
		ID:            r.ID,
		AgentID:       r.AgentID,
		SignalementID: r.SignalementID,
		Action:        audit.ActionType(r.ActionType),
	}
	if r.CreatedAt != nil {
		e.CreatedAt = *r.CreatedAt
	}
	return e
}

// AgentDTO represents an agent directory record
type AgentDTO struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
