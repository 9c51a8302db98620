package credits_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eloquo/eloquo/agent-service/internal/config"
	"github.com/eloquo/eloquo/agent-service/internal/credits"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *credits.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return credits.New(config.CreditsConfig{URL: srv.URL, Secret: "test-secret"})
}

func TestCheck_Success(t *testing.T) {
	var gotAction map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/agent/credits" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-secret" {
			t.Errorf("Authorization = %q", auth)
		}
		json.NewDecoder(r.Body).Decode(&gotAction)
		json.NewEncoder(w).Encode(map[string]int{"comprehensive_credits_remaining": 12})
	})

	balance, err := client.Check(context.Background(), "user-1", "u@example.com")
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if balance != 12 {
		t.Errorf("balance = %d, want 12", balance)
	}
	if gotAction["action"] != "check" || gotAction["user_id"] != "user-1" {
		t.Errorf("action payload = %v", gotAction)
	}
}

func TestCheck_UserNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Check(context.Background(), "ghost", "")
	var notFound *credits.ErrUserNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want *ErrUserNotFound", err)
	}
	if notFound.UserID != "ghost" {
		t.Errorf("UserID = %q", notFound.UserID)
	}
}

func TestDeduct_Success(t *testing.T) {
	var gotAction map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotAction)
		w.WriteHeader(http.StatusOK)
	})

	if err := client.Deduct(context.Background(), "user-1", "", 5); err != nil {
		t.Fatalf("Deduct error: %v", err)
	}
	if gotAction["action"] != "deduct" || gotAction["amount"] != float64(5) {
		t.Errorf("action payload = %v", gotAction)
	}
}

func TestDeduct_FailureSurfacesStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("ledger unavailable"))
	})

	err := client.Deduct(context.Background(), "user-1", "", 5)
	if err == nil {
		t.Fatal("expected error for 500")
	}
}
