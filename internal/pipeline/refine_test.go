package pipeline_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/eloquo/eloquo/agent-service/internal/pipeline"
	"github.com/eloquo/eloquo/agent-service/internal/prompts"
	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

func refineRequest() *models.RefineRequest {
	return &models.RefineRequest{
		OriginalPrompt: "Write a blog post about Go generics",
		Instruction:    "Make it shorter and add a target audience",
		Tier:           models.TierPro,
	}
}

func TestRefine_ParsesJSONResponse(t *testing.T) {
	chat := &fakeChat{bySystem: map[string]string{
		prompts.RefineSystem: `{"refined_prompt": "Write a 500-word blog post about Go generics for backend engineers.", "changes": ["Added length limit", "Added target audience"]}`,
	}}

	resp := pipeline.NewRefiner(chat).Run(context.Background(), refineRequest())

	if resp.Status != models.StatusSuccess {
		t.Fatalf("status = %q, want success", resp.Status)
	}
	if resp.RefinedPrompt != "Write a 500-word blog post about Go generics for backend engineers." {
		t.Errorf("refined_prompt = %q", resp.RefinedPrompt)
	}
	if len(resp.ChangesMade) != 2 {
		t.Errorf("changes_made = %v, want 2 entries", resp.ChangesMade)
	}
}

func TestRefine_ProseFallbackStripsDecoration(t *testing.T) {
	chat := &fakeChat{bySystem: map[string]string{
		prompts.RefineSystem: "**Refined Prompt:** Write a concise blog post about Go generics.\n\n**Changes Made:**\n- Shortened\n- Focused",
	}}

	resp := pipeline.NewRefiner(chat).Run(context.Background(), refineRequest())

	if resp.Status != models.StatusSuccess {
		t.Fatalf("status = %q, want success", resp.Status)
	}
	if resp.RefinedPrompt != "Write a concise blog post about Go generics." {
		t.Errorf("refined_prompt = %q, want stripped prose", resp.RefinedPrompt)
	}
	if len(resp.ChangesMade) != 0 {
		t.Errorf("changes_made = %v, want empty for prose fallback", resp.ChangesMade)
	}
}

func TestRefine_ChangesCappedAtFive(t *testing.T) {
	chat := &fakeChat{bySystem: map[string]string{
		prompts.RefineSystem: `{"refined_prompt": "p", "changes": ["1","2","3","4","5","6","7"]}`,
	}}

	resp := pipeline.NewRefiner(chat).Run(context.Background(), refineRequest())
	if len(resp.ChangesMade) != 5 {
		t.Errorf("changes_made has %d entries, want 5", len(resp.ChangesMade))
	}
}

func TestRefine_TransportErrorReported(t *testing.T) {
	chat := &fakeChat{
		bySystem: map[string]string{},
		errs:     map[string]error{prompts.RefineSystem: fmt.Errorf("status 503")},
	}

	resp := pipeline.NewRefiner(chat).Run(context.Background(), refineRequest())
	if resp.Status != models.StatusError {
		t.Fatalf("status = %q, want error", resp.Status)
	}
	if resp.Error == "" {
		t.Error("error detail missing")
	}
}
