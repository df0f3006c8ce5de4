package threshold

import "context"

// Repository defines the interface for threshold configuration persistence
type Repository interface {
	// Get retrieves the active configuration. Returns (nil, nil) when no
	// configuration has been stored yet.
	Get(ctx context.Context) (*Config, error)

	// Save stores the configuration, replacing any previous one
	Save(ctx context.Context, cfg *Config) error
}
