package audit

import (
	"context"
	"time"
)

// Service defines the interface for audit log business logic
type Service interface {
	// Record appends a new entry to the audit log
	Record(ctx context.Context, e *Entry) (string, error)

	// ListSince retrieves all entries with created_at > since, oldest first
	ListSince(ctx context.Context, since time.Time) ([]*Entry, error)

	// List retrieves entries with filters and pagination, newest first
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Entry, int64, error)
}
