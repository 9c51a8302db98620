// Package analytics persists request records to the external analytics
// warehouse. The service itself keeps no state between requests; everything
// durable lives behind this interface.
//
// Two implementations exist: the Supabase-style REST client used in
// production, and a mutex-guarded in-memory store used in tests and when no
// warehouse is configured.
package analytics

import (
	"context"
	"time"

	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

// Store is the analytics persistence interface. Handlers and pipelines depend
// on this, so tests can swap in the memory implementation.
type Store interface {
	// InsertRequest persists a new request record and returns its id.
	InsertRequest(ctx context.Context, rec *models.RequestRecord) (string, error)

	// RecordRating patches an existing record with a user rating.
	RecordRating(ctx context.Context, requestID string, rating int, feedback string, ratedAt time.Time) error

	// ListRequests returns a user's records, newest first. A non-nil since
	// excludes records created before it.
	ListRequests(ctx context.Context, userID string, since *time.Time) ([]models.RequestRecord, error)
}

// ErrNotFound is returned when a record id does not exist.
type ErrNotFound struct {
	ID string
}

func (e *ErrNotFound) Error() string {
	return "analytics: record not found: " + e.ID
}
