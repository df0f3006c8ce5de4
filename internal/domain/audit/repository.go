package audit

import (
	"context"
	"time"
)

// Repository defines the interface for audit log data access
type Repository interface {
	// Create appends a new audit entry
	Create(ctx context.Context, e *Entry) error

	// ListSince retrieves all entries with created_at > since, oldest first
	ListSince(ctx context.Context, since time.Time) ([]*Entry, error)

	// ListWithPagination retrieves entries with filters and pagination,
	// newest first
	ListWithPagination(ctx context.Context, filter Filter, limit, offset int) ([]*Entry, int64, error)
}
