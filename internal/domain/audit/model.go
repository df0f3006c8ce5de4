package audit

import "time"

// Entry represents one recorded agent action on the platform.
// Entries are append-only: written once by the audit producer and never
// modified or deleted from the engine's point of view.
type Entry struct {
	ID            string     `json:"id"`
	AgentID       string     `json:"agent_id"`
	SignalementID string     `json:"signalement_id,omitempty"`
	Action        ActionType `json:"action_type"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ActionType identifies what an agent did to a signalement.
type ActionType string

// Known action types
const (
	ActionView           ActionType = "view"
	ActionUpdateStatus   ActionType = "update_status"
	ActionUpdatePriority ActionType = "update_priority"
	ActionAddComment     ActionType = "add_comment"
	ActionAssign         ActionType = "assign"
	ActionResolve        ActionType = "resolve"
	ActionReject         ActionType = "reject"
	ActionExport         ActionType = "export"
	ActionDownload       ActionType = "download"
)

// Valid reports whether the action type is one of the known values.
func (a ActionType) Valid() bool {
	switch a {
	case ActionView, ActionUpdateStatus, ActionUpdatePriority, ActionAddComment,
		ActionAssign, ActionResolve, ActionReject, ActionExport, ActionDownload:
		return true
	}
	return false
}

// ActionTypes lists every known action type, in declaration order.
func ActionTypes() []ActionType {
	return []ActionType{
		ActionView, ActionUpdateStatus, ActionUpdatePriority, ActionAddComment,
		ActionAssign, ActionResolve, ActionReject, ActionExport, ActionDownload,
	}
}

// Filter contains audit entry listing options
type Filter struct {
	AgentID string
	Action  ActionType
}
