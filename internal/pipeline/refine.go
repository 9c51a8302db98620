package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eloquo/eloquo/agent-service/internal/gateway"
	"github.com/eloquo/eloquo/agent-service/internal/jsonparse"
	"github.com/eloquo/eloquo/agent-service/internal/metrics"
	"github.com/eloquo/eloquo/agent-service/internal/prompts"
	"github.com/eloquo/eloquo/agent-service/internal/tiers"
	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

// Refiner applies a single follow-up instruction to an already optimized
// prompt. One model call, no credits, no analytics.
type Refiner struct {
	gw ChatClient
}

// NewRefiner creates the refine flow.
func NewRefiner(gw ChatClient) *Refiner {
	return &Refiner{gw: gw}
}

// refinedPayload is the JSON shape the refine model is asked to produce.
type refinedPayload struct {
	RefinedPrompt string   `json:"refined_prompt"`
	Changes       []string `json:"changes"`
}

// maxRefineChanges caps the changes list returned to the client.
const maxRefineChanges = 5

// Run performs one refinement. A transport failure yields a status="error"
// response; unparseable model output degrades to plain-text extraction.
func (r *Refiner) Run(ctx context.Context, req *models.RefineRequest) *models.RefineResponse {
	ctx, span := tracer.Start(ctx, "pipeline.refine")
	defer span.End()

	modelSet := tiers.ForTier(req.Tier)
	comp, err := r.gw.Complete(ctx, gateway.CompletionRequest{
		Model:     modelSet.Generate,
		System:    prompts.RefineSystem,
		User:      refinePrompt(req),
		MaxTokens: 2000,
		Timeout:   50 * time.Second,
	})
	if err != nil {
		log.Error().Err(err).Msg("Refine call failed")
		metrics.RequestsTotal.WithLabelValues("refine", models.StatusError).Inc()
		return &models.RefineResponse{
			Status:      models.StatusError,
			Error:       err.Error(),
			ChangesMade: []string{},
		}
	}
	metrics.LLMTokensTotal.WithLabelValues(modelSet.Generate).Add(float64(comp.TotalTokens))

	refined, changes := parseRefinement(comp.Content)
	if len(changes) > maxRefineChanges {
		changes = changes[:maxRefineChanges]
	}

	metrics.RequestsTotal.WithLabelValues("refine", models.StatusSuccess).Inc()
	return &models.RefineResponse{
		Status:        models.StatusSuccess,
		RefinedPrompt: refined,
		ChangesMade:   changes,
	}
}

func refinePrompt(req *models.RefineRequest) string {
	return "Original prompt:\n" + req.OriginalPrompt + "\n\nInstruction: " + req.Instruction
}

// parseRefinement decodes the expected JSON payload, falling back to treating
// the whole output as the refined prompt with decoration stripped.
func parseRefinement(raw string) (string, []string) {
	var payload refinedPayload
	if err := jsonparse.Extract(raw, &payload); err == nil && payload.RefinedPrompt != "" {
		if payload.Changes == nil {
			payload.Changes = []string{}
		}
		return payload.RefinedPrompt, payload.Changes
	}
	return stripRefineDecoration(raw), []string{}
}

// Models sometimes answer in prose with a labelled prompt followed by a
// change list. Strip the label and cut at the first change marker.
func stripRefineDecoration(raw string) string {
	s := strings.TrimSpace(raw)

	for _, prefix := range []string{"**Refined Prompt:**", "Refined Prompt:", "Refined:"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
			break
		}
	}

	for _, marker := range []string{"**Specific Changes", "**Changes Made", "Changes made:", "Changes:"} {
		if idx := strings.Index(s, marker); idx >= 0 {
			s = strings.TrimSpace(s[:idx])
			break
		}
	}

	return s
}
