package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs tests and serves
// as the zero-config fallback when no warehouse URL is set; records are lost
// on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.RequestRecord
}

// NewMemoryStore creates an empty in-memory analytics store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*models.RequestRecord),
	}
}

func (s *MemoryStore) InsertRequest(ctx context.Context, rec *models.RequestRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rec
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.records[stored.ID] = &stored
	return stored.ID, nil
}

func (s *MemoryStore) RecordRating(ctx context.Context, requestID string, rating int, feedback string, ratedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[requestID]
	if !ok {
		return &ErrNotFound{ID: requestID}
	}
	rec.UserRating = rating
	rec.UserFeedback = feedback
	t := ratedAt.UTC()
	rec.RatedAt = &t
	return nil
}

func (s *MemoryStore) ListRequests(ctx context.Context, userID string, since *time.Time) ([]models.RequestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.RequestRecord
	for _, rec := range s.records {
		if rec.UserID != userID {
			continue
		}
		if since != nil && rec.CreatedAt.Before(*since) {
			continue
		}
		out = append(out, *rec)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
