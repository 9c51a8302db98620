package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eloquo/eloquo/agent-service/internal/analytics"
	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

func TestMemoryStore_InsertAssignsID(t *testing.T) {
	store := analytics.NewMemoryStore()
	id, err := store.InsertRequest(context.Background(), &models.RequestRecord{UserID: "u1", Status: "completed"})
	if err != nil {
		t.Fatalf("InsertRequest error: %v", err)
	}
	if id == "" {
		t.Error("expected generated id")
	}
}

func TestMemoryStore_RecordRating(t *testing.T) {
	store := analytics.NewMemoryStore()
	id, _ := store.InsertRequest(context.Background(), &models.RequestRecord{UserID: "u1", Status: "completed"})

	ratedAt := time.Now().UTC()
	if err := store.RecordRating(context.Background(), id, 5, "great", ratedAt); err != nil {
		t.Fatalf("RecordRating error: %v", err)
	}

	records, _ := store.ListRequests(context.Background(), "u1", nil)
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].UserRating != 5 || records[0].UserFeedback != "great" || records[0].RatedAt == nil {
		t.Errorf("rating not stored: %+v", records[0])
	}
}

func TestMemoryStore_RecordRatingUnknownID(t *testing.T) {
	store := analytics.NewMemoryStore()
	err := store.RecordRating(context.Background(), "missing", 3, "", time.Now())
	var notFound *analytics.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want *ErrNotFound", err)
	}
}

func TestMemoryStore_ListFiltersAndSorts(t *testing.T) {
	store := analytics.NewMemoryStore()
	now := time.Now().UTC()

	store.InsertRequest(context.Background(), &models.RequestRecord{UserID: "u1", CreatedAt: now.Add(-2 * time.Hour)})
	store.InsertRequest(context.Background(), &models.RequestRecord{UserID: "u1", CreatedAt: now.Add(-1 * time.Hour)})
	store.InsertRequest(context.Background(), &models.RequestRecord{UserID: "u2", CreatedAt: now})

	records, err := store.ListRequests(context.Background(), "u1", nil)
	if err != nil {
		t.Fatalf("ListRequests error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if !records[0].CreatedAt.After(records[1].CreatedAt) {
		t.Error("records not sorted newest first")
	}

	cutoff := now.Add(-90 * time.Minute)
	recent, _ := store.ListRequests(context.Background(), "u1", &cutoff)
	if len(recent) != 1 {
		t.Errorf("records since cutoff = %d, want 1", len(recent))
	}
}
