package agent

import "context"

// Repository defines the interface for the agent directory
type Repository interface {
	// GetByIDs resolves agent IDs to directory records. Unknown IDs are
	// simply absent from the result.
	GetByIDs(ctx context.Context, ids []string) (map[string]Info, error)

	// List retrieves all known agents
	List(ctx context.Context) ([]Info, error)

	// Upsert creates or updates a directory record
	Upsert(ctx context.Context, info Info) error
}
