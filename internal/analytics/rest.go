package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/eloquo/eloquo/agent-service/internal/config"
	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

const requestsTable = "agent_requests"

// RESTStore talks to the analytics warehouse over its PostgREST-style API.
type RESTStore struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

// NewRESTStore creates the production analytics store.
func NewRESTStore(cfg config.AnalyticsConfig) *RESTStore {
	return &RESTStore{
		baseURL:    cfg.URL,
		serviceKey: cfg.ServiceKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// InsertRequest persists a record and returns the warehouse-assigned id.
func (s *RESTStore) InsertRequest(ctx context.Context, rec *models.RequestRecord) (string, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("analytics: marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/rest/v1/"+requestsTable, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("analytics: create request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Prefer", "return=representation")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("analytics: insert failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("analytics: insert status %d: %s", resp.StatusCode, string(respBody))
	}

	// PostgREST returns the inserted rows as an array.
	var inserted []models.RequestRecord
	if err := json.NewDecoder(resp.Body).Decode(&inserted); err != nil {
		return "", fmt.Errorf("analytics: decode insert response: %w", err)
	}
	if len(inserted) == 0 {
		return "", nil
	}
	return inserted[0].ID, nil
}

// RecordRating patches the record with the user's rating.
func (s *RESTStore) RecordRating(ctx context.Context, requestID string, rating int, feedback string, ratedAt time.Time) error {
	patch := map[string]interface{}{
		"user_rating":   rating,
		"user_feedback": feedback,
		"rated_at":      ratedAt.UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("analytics: marshal rating: %w", err)
	}

	u := s.baseURL + "/rest/v1/" + requestsTable + "?id=eq." + url.QueryEscape(requestID)
	req, err := http.NewRequestWithContext(ctx, "PATCH", u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("analytics: create request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("analytics: rating patch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("analytics: rating patch status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// ListRequests fetches a user's records newest first, optionally bounded by a
// created_at cutoff.
func (s *RESTStore) ListRequests(ctx context.Context, userID string, since *time.Time) ([]models.RequestRecord, error) {
	q := url.Values{}
	q.Set("select", "id,created_at,prompt_preview,target_model,strength,domain,complexity,quality_score,user_rating,user_feedback,rated_at")
	q.Set("user_id", "eq."+userID)
	q.Set("order", "created_at.desc")
	if since != nil {
		q.Set("created_at", "gte."+since.UTC().Format(time.RFC3339))
	}

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/rest/v1/"+requestsTable+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("analytics: create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analytics: list failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("analytics: list status %d: %s", resp.StatusCode, string(respBody))
	}

	var records []models.RequestRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("analytics: decode list response: %w", err)
	}
	return records, nil
}

func (s *RESTStore) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", "application/json")
}
