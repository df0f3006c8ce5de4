package client

import (
	"context"
	"fmt"
	"net/url"
)

// AlertService handles alert-related API calls
type AlertService struct {
	client *Client
}

// AlertListOptions contains options for listing alerts
type AlertListOptions struct {
	IncludeDismissed bool
}

// List retrieves the ranked alert set
func (s *AlertService) List(ctx context.Context, opts *AlertListOptions) (*AlertList, error) {
	path := "/api/v1/alerts"
	if opts != nil && opts.IncludeDismissed {
		query := url.Values{}
		query.Set("include_dismissed", "true")
		path += "?" + query.Encode()
	}

	var list AlertList
	if err := s.client.doRequest(ctx, "GET", path, nil, &list); err != nil {
		return nil, err
	}

	return &list, nil
}

// Summary retrieves active alert counts per severity
func (s *AlertService) Summary(ctx context.Context) (*AlertSummary, error) {
	var summary AlertSummary
	if err := s.client.doRequest(ctx, "GET", "/api/v1/alerts/summary", nil, &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}

// Evaluate triggers a re-evaluation cycle
func (s *AlertService) Evaluate(ctx context.Context) error {
	return s.client.doRequest(ctx, "POST", "/api/v1/alerts/evaluate", nil, nil)
}

// Dismiss suppresses an alert by ID
func (s *AlertService) Dismiss(ctx context.Context, alertID string) error {
	path := fmt.Sprintf("/api/v1/alerts/%s/dismiss", url.PathEscape(alertID))
	return s.client.doRequest(ctx, "POST", path, nil, nil)
}

// Restore lifts a dismissal by ID
func (s *AlertService) Restore(ctx context.Context, alertID string) error {
	path := fmt.Sprintf("/api/v1/alerts/%s/restore", url.PathEscape(alertID))
	return s.client.doRequest(ctx, "POST", path, nil, nil)
}

// ListDismissed retrieves the dismissed alert IDs
func (s *AlertService) ListDismissed(ctx context.Context) ([]string, error) {
	var result struct {
		Dismissed []string `json:"dismissed"`
	}
	if err := s.client.doRequest(ctx, "GET", "/api/v1/alerts/dismissed", nil, &result); err != nil {
		return nil, err
	}

	return result.Dismissed, nil
}
