package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// AuditService handles audit log API calls
type AuditService struct {
	client *Client
}

// RecordAuditRequest represents an audit ingest request
type RecordAuditRequest struct {
	ID            string     `json:"id,omitempty"`
	AgentID       string     `json:"agentId"`
	SignalementID string     `json:"signalementId,omitempty"`
	ActionType    string     `json:"actionType"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

// AuditListOptions contains options for listing audit entries
type AuditListOptions struct {
	AgentID    string
	ActionType string
	Page       int
	PageSize   int
}

// Record ingests one audit entry and returns its ID
func (s *AuditService) Record(ctx context.Context, req RecordAuditRequest) (string, error) {
	var result struct {
		ID string `json:"id"`
	}
	if err := s.client.doRequest(ctx, "POST", "/api/v1/audit", req, &result); err != nil {
		return "", err
	}

	return result.ID, nil
}

// List retrieves recent audit entries, newest first
func (s *AuditService) List(ctx context.Context, opts *AuditListOptions) (*Page[AuditEntry], error) {
	query := url.Values{}
	if opts != nil {
		if opts.AgentID != "" {
			query.Set("agent_id", opts.AgentID)
		}
		if opts.ActionType != "" {
			query.Set("action_type", opts.ActionType)
		}
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(opts.PageSize))
		}
	}

	path := "/api/v1/audit"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page Page[AuditEntry]
	if err := s.client.doRequest(ctx, "GET", path, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// AgentService handles agent directory API calls
type AgentService struct {
	client *Client
}

// List retrieves the agent directory
func (s *AgentService) List(ctx context.Context) ([]Agent, error) {
	var agents []Agent
	if err := s.client.doRequest(ctx, "GET", "/api/v1/agents", nil, &agents); err != nil {
		return nil, err
	}

	return agents, nil
}
