package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eloquo/eloquo/agent-service/internal/analytics"
	"github.com/eloquo/eloquo/agent-service/internal/api"
	"github.com/eloquo/eloquo/agent-service/internal/api/handlers"
	"github.com/eloquo/eloquo/agent-service/internal/config"
	"github.com/eloquo/eloquo/agent-service/internal/credits"
	"github.com/eloquo/eloquo/agent-service/internal/export"
	"github.com/eloquo/eloquo/agent-service/internal/gateway"
	"github.com/eloquo/eloquo/agent-service/internal/pipeline"
	"github.com/eloquo/eloquo/agent-service/internal/prompts"
	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

// scriptedChat returns canned content per system prompt.
type scriptedChat struct {
	bySystem map[string]string
}

func (s *scriptedChat) Complete(ctx context.Context, req gateway.CompletionRequest) (*gateway.Completion, error) {
	content, ok := s.bySystem[req.System]
	if !ok {
		return nil, fmt.Errorf("scriptedChat: unscripted call")
	}
	return &gateway.Completion{Content: content, TotalTokens: 100}, nil
}

func (s *scriptedChat) CompleteInto(ctx context.Context, req gateway.CompletionRequest, out interface{}) (*gateway.Completion, error) {
	comp, err := s.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(comp.Content), out); err != nil {
		return nil, err
	}
	return comp, nil
}

func (s *scriptedChat) AnalyzeFiles(ctx context.Context, model, instruction string, files []models.AttachedFile) (*gateway.Completion, error) {
	return &gateway.Completion{Content: ""}, nil
}

type scriptedCredits struct {
	balance  int
	checkErr error
}

func (s *scriptedCredits) Check(ctx context.Context, userID, email string) (int, error) {
	if s.checkErr != nil {
		return 0, s.checkErr
	}
	return s.balance, nil
}

func (s *scriptedCredits) Deduct(ctx context.Context, userID, email string, amount int) error {
	return nil
}

type testEnv struct {
	router http.Handler
	store  *analytics.MemoryStore
}

func newEnv(chat pipeline.ChatClient, cr pipeline.CreditsService) *testEnv {
	cfg := &config.Config{Version: "test"}
	store := analytics.NewMemoryStore()
	h := handlers.New(
		pipeline.NewOptimizer(chat, store),
		pipeline.NewProjectPipeline(chat, cr, store),
		pipeline.NewRefiner(chat),
		export.New(store),
		store,
		cfg,
	)
	return &testEnv{router: api.NewRouter(h), store: store}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func defaultChat() *scriptedChat {
	return &scriptedChat{bySystem: map[string]string{
		prompts.ClassifySystem: `{"complexity": "simple", "domain": "technical", "needs_clarification": false}`,
		prompts.GenerateSystem: `{"optimized_prompt": "p", "full_version": "f", "quick_ref": "q", "snippet": "s", "improvements": [], "quality_score": 8}`,
	}}
}

func TestOptimizeEndpoint_BadRequests(t *testing.T) {
	env := newEnv(defaultChat(), &scriptedCredits{})

	if w := env.do(t, "POST", "/optimize", "{not json"); w.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", w.Code)
	}
	if w := env.do(t, "POST", "/optimize", `{"prompt": "  "}`); w.Code != http.StatusBadRequest {
		t.Errorf("blank prompt: status = %d, want 400", w.Code)
	}

	long := strings.Repeat("a", models.MaxPromptLength+1)
	if w := env.do(t, "POST", "/optimize", `{"prompt": "`+long+`"}`); w.Code != http.StatusBadRequest {
		t.Errorf("oversized prompt: status = %d, want 400", w.Code)
	}
}

func TestOptimizeEndpoint_Success(t *testing.T) {
	env := newEnv(defaultChat(), &scriptedCredits{})

	w := env.do(t, "POST", "/optimize", `{"prompt": "fix my code", "user_tier": "basic"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
	var resp models.OptimizeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != models.StatusSuccess {
		t.Errorf("status = %q, want success", resp.Status)
	}
}

func TestOptimizeEndpoint_PipelineErrorStillHTTP200(t *testing.T) {
	chat := &scriptedChat{bySystem: map[string]string{}}
	env := newEnv(chat, &scriptedCredits{})

	w := env.do(t, "POST", "/optimize", `{"prompt": "fix my code"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with error body", w.Code)
	}
	var resp models.OptimizeResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != models.StatusError {
		t.Errorf("status = %q, want error", resp.Status)
	}
}

func TestProjectEndpoint_Validation(t *testing.T) {
	env := newEnv(defaultChat(), &scriptedCredits{balance: 10})

	if w := env.do(t, "POST", "/project-protocol", `{"project_idea": "too short", "user_id": "u1"}`); w.Code != http.StatusBadRequest {
		t.Errorf("short idea: status = %d, want 400", w.Code)
	}
	body := `{"project_idea": "A task manager that generates standup digests", "user_id": ""}`
	if w := env.do(t, "POST", "/project-protocol", body); w.Code != http.StatusBadRequest {
		t.Errorf("missing user: status = %d, want 400", w.Code)
	}
}

func TestProjectEndpoint_CreditErrorMapping(t *testing.T) {
	body := `{"project_idea": "A task manager that generates standup digests", "user_id": "u1", "user_tier": "pro"}`

	env := newEnv(defaultChat(), &scriptedCredits{balance: 2})
	if w := env.do(t, "POST", "/project-protocol", body); w.Code != http.StatusPaymentRequired {
		t.Errorf("insufficient credits: status = %d, want 402", w.Code)
	}

	env = newEnv(defaultChat(), &scriptedCredits{checkErr: &credits.ErrUserNotFound{UserID: "u1"}})
	if w := env.do(t, "POST", "/project-protocol", body); w.Code != http.StatusNotFound {
		t.Errorf("unknown user: status = %d, want 404", w.Code)
	}
}

func TestRateEndpoint(t *testing.T) {
	env := newEnv(defaultChat(), &scriptedCredits{})

	if w := env.do(t, "POST", "/rate", `{"request_id": "r1", "rating": 9}`); w.Code != http.StatusBadRequest {
		t.Errorf("out-of-range rating: status = %d, want 400", w.Code)
	}

	id, _ := env.store.InsertRequest(context.Background(), &models.RequestRecord{UserID: "u1", Status: "completed"})
	w := env.do(t, "POST", "/rate", `{"request_id": "`+id+`", "rating": 5, "feedback": "great"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp models.RatingResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != models.StatusSuccess || resp.Message != "Thank you for your 5-star rating!" {
		t.Errorf("response = %+v", resp)
	}

	// Unknown id reports failure in the body, not as an HTTP error.
	w = env.do(t, "POST", "/rate", `{"request_id": "missing", "rating": 4}`)
	if w.Code != http.StatusOK {
		t.Fatalf("unknown id: status = %d, want 200", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != models.StatusError {
		t.Errorf("unknown id status = %q, want error", resp.Status)
	}
}

func TestExportEndpoint(t *testing.T) {
	env := newEnv(defaultChat(), &scriptedCredits{})

	if w := env.do(t, "GET", "/export?user_id=nobody", ""); w.Code != http.StatusNotFound {
		t.Errorf("no records: status = %d, want 404", w.Code)
	}
	if w := env.do(t, "GET", "/export", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing user_id: status = %d, want 400", w.Code)
	}

	env.store.InsertRequest(context.Background(), &models.RequestRecord{
		UserID: "u1", Status: "completed", CreatedAt: time.Now().UTC(),
	})
	w := env.do(t, "GET", "/export?user_id=u1&format=csv&tier=pro", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "eloquo-export-u1.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newEnv(defaultChat(), &scriptedCredits{})

	w := env.do(t, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["status"] != "healthy" || body["version"] != "test" {
		t.Errorf("health body = %v", body)
	}
	if _, ok := body["openrouter_configured"]; !ok {
		t.Error("health body missing openrouter_configured")
	}
}
