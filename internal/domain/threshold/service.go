package threshold

import "context"

// Service defines the interface for threshold configuration business logic
type Service interface {
	// Get returns the active configuration
	Get(ctx context.Context) (Config, error)

	// Update validates and stores a whole replacement configuration.
	// Invalid configurations are rejected and the active one stays in
	// effect.
	Update(ctx context.Context, cfg Config) error

	// Reset restores the default configuration
	Reset(ctx context.Context) (Config, error)

	// OnChanged registers a callback invoked after every accepted change
	OnChanged(fn func(Config))
}
