package dismissal

import "context"

// Service defines the interface for the dismissed-alert set. The engine
// consumes it only as a filter predicate and never mutates it itself.
// Implementations must support concurrent Dismiss and IsDismissed calls;
// no ordering is guaranteed between a dismissal and an evaluation cycle
// already in flight.
type Service interface {
	// Dismiss adds an alert ID to the set. Idempotent.
	Dismiss(ctx context.Context, alertID string) error

	// Restore removes an alert ID from the set
	Restore(ctx context.Context, alertID string) error

	// IsDismissed reports membership
	IsDismissed(alertID string) bool

	// List returns the dismissed IDs in lexical order
	List(ctx context.Context) ([]string, error)
}
