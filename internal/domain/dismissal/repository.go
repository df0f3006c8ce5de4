package dismissal

import "context"

// Repository defines the interface for dismissed-alert persistence.
// Dismissals are keyed by the alert's deterministic ID, so a dismissal
// stored once keeps suppressing the same finding across recomputations.
type Repository interface {
	// Add records a dismissal. Adding an already dismissed ID is a no-op.
	Add(ctx context.Context, alertID string) error

	// Remove deletes a dismissal if present
	Remove(ctx context.Context, alertID string) error

	// List retrieves all dismissed alert IDs
	List(ctx context.Context) ([]string, error)
}
