package client

import "context"

// ThresholdService handles threshold configuration API calls
type ThresholdService struct {
	client *Client
}

// Get retrieves the active threshold configuration
func (s *ThresholdService) Get(ctx context.Context) (*Threshold, error) {
	var cfg Threshold
	if err := s.client.doRequest(ctx, "GET", "/api/v1/thresholds", nil, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Update replaces the threshold configuration. All fields are required;
// partial updates are rejected.
func (s *ThresholdService) Update(ctx context.Context, cfg Threshold) error {
	return s.client.doRequest(ctx, "PUT", "/api/v1/thresholds", cfg, nil)
}

// Reset restores the default configuration and returns it
func (s *ThresholdService) Reset(ctx context.Context) (*Threshold, error) {
	var cfg Threshold
	if err := s.client.doRequest(ctx, "POST", "/api/v1/thresholds/reset", nil, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
