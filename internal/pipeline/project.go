package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/eloquo/eloquo/agent-service/internal/analytics"
	"github.com/eloquo/eloquo/agent-service/internal/credits"
	"github.com/eloquo/eloquo/agent-service/internal/gateway"
	"github.com/eloquo/eloquo/agent-service/internal/jsonparse"
	"github.com/eloquo/eloquo/agent-service/internal/metrics"
	"github.com/eloquo/eloquo/agent-service/internal/prompts"
	"github.com/eloquo/eloquo/agent-service/internal/tiers"
	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

// ProjectCreditCost is the flat credit price of one project-protocol run.
const ProjectCreditCost = 5

// Document keys in the response and the order the generations are defined.
const (
	DocPRD          = "prd"
	DocArchitecture = "architecture"
	DocStories      = "stories"
)

// ProjectPipeline generates the three planning documents (PRD, architecture,
// user stories) for a project idea. It is the only pipeline that touches the
// credits service.
type ProjectPipeline struct {
	gw        ChatClient
	credits   CreditsService
	analytics analytics.Store
}

// NewProjectPipeline creates the project-protocol pipeline.
func NewProjectPipeline(gw ChatClient, cr CreditsService, store analytics.Store) *ProjectPipeline {
	return &ProjectPipeline{gw: gw, credits: cr, analytics: store}
}

// Run executes one project-protocol request: credit check and deduction,
// project analysis, then three document generations in parallel. Credit
// errors pass through typed so the handler can map them to status codes.
func (p *ProjectPipeline) Run(ctx context.Context, req *models.ProjectProtocolRequest) (*models.ProjectProtocolResponse, error) {
	ctx, span := tracer.Start(ctx, "pipeline.project")
	defer span.End()

	start := time.Now()

	balance, err := p.credits.Check(ctx, req.UserID, req.UserEmail)
	if err != nil {
		return nil, err
	}
	if balance < ProjectCreditCost {
		return nil, &credits.ErrInsufficient{Need: ProjectCreditCost, Have: balance}
	}

	// Deduction happens before generation and is not refunded on a later
	// failure. A failed run therefore still consumes the user's credits.
	if err := p.credits.Deduct(ctx, req.UserID, req.UserEmail, ProjectCreditCost); err != nil {
		return nil, fmt.Errorf("deduct credits: %w", err)
	}

	var totalTokens int64

	analysisStart := time.Now()
	comp, err := p.gw.Complete(ctx, gateway.CompletionRequest{
		Model:       tiers.ProjectModel,
		System:      prompts.ProjectAnalyzeSystem,
		User:        projectAnalyzePrompt(req),
		MaxTokens:   1500,
		Temperature: 0.4,
		Timeout:     120 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("project analysis: %w", err)
	}
	analysisSec := time.Since(analysisStart).Seconds()
	totalTokens += comp.TotalTokens
	metrics.LLMTokensTotal.WithLabelValues(tiers.ProjectModel).Add(float64(comp.TotalTokens))

	var analysis models.ProjectAnalysis
	if err := jsonparse.Extract(comp.Content, &analysis); err != nil {
		var decodeErr *jsonparse.DecodeError
		if !errors.As(err, &decodeErr) {
			return nil, fmt.Errorf("project analysis: %w", err)
		}
		log.Warn().Err(err).Msg("Project analysis returned unparseable JSON, using fallback analysis")
		analysis = fallbackProjectAnalysis(req.ProjectIdea)
	}

	// The three documents are generated concurrently and the run is
	// all-or-nothing: one failed generation fails the whole request.
	type docJob struct {
		key    string
		system string
		user   string
	}
	jobs := []docJob{
		{DocPRD, prompts.ProjectPRDSystem, projectDocPrompt(&analysis, "Produce the complete Product Requirements Document.")},
		{DocArchitecture, prompts.ProjectArchitectureSystem, projectDocPrompt(&analysis, "Produce the complete technical architecture document.")},
		{DocStories, prompts.ProjectStoriesSystem, projectDocPrompt(&analysis, "Produce the complete set of epics and user stories.")},
	}

	documents := make(map[string]string, len(jobs))
	var docTokens int64
	genStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	results := make([]string, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			docComp, err := p.gw.Complete(gctx, gateway.CompletionRequest{
				Model:       tiers.ProjectModel,
				System:      job.system,
				User:        job.user,
				MaxTokens:   4000,
				Temperature: 0.4,
				Timeout:     120 * time.Second,
			})
			if err != nil {
				return fmt.Errorf("generate %s: %w", job.key, err)
			}
			results[i] = docComp.Content
			atomic.AddInt64(&docTokens, docComp.TotalTokens)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RequestsTotal.WithLabelValues("project", models.StatusError).Inc()
		return nil, err
	}
	genSec := time.Since(genStart).Seconds()
	for i, job := range jobs {
		documents[job.key] = results[i]
	}
	totalTokens += docTokens
	metrics.LLMTokensTotal.WithLabelValues(tiers.ProjectModel).Add(float64(docTokens))

	// Usage is split 30/70 input/output for pricing. The gateway reports
	// per-call usage but the published cost model is quoted on this split.
	inputTokens := totalTokens * 30 / 100
	outputTokens := totalTokens - inputTokens
	cost := float64(inputTokens)*tiers.ProjectInputCostPer1M/1_000_000 +
		float64(outputTokens)*tiers.ProjectOutputCostPer1M/1_000_000

	processingMs := time.Since(start).Milliseconds()

	rec := &models.RequestRecord{
		UserID:               req.UserID,
		Tier:                 req.Tier,
		PromptPreview:        preview(req.ProjectIdea, 500),
		PromptLength:         len(req.ProjectIdea),
		Strength:             "comprehensive",
		OutputMode:           "bmad",
		ProcessingTimeMs:     processingMs,
		InputTokens:          inputTokens,
		OutputTokens:         outputTokens,
		TotalTokens:          totalTokens,
		TotalCost:            cost,
		CreditsUsed:          ProjectCreditCost,
		QualityScore:         8.5,
		Status:               "completed",
		CreatedAt:            time.Now().UTC(),
		ProjectName:          analysis.ProjectName,
		ProjectSummary:       analysis.ProjectSummary,
		PRDDocument:          documents[DocPRD],
		ArchitectureDocument: documents[DocArchitecture],
		StoriesDocument:      documents[DocStories],
	}
	requestID, err := p.analytics.InsertRequest(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("record project run: %w", err)
	}

	span.SetAttributes(
		attribute.String("eloquo.project_name", analysis.ProjectName),
		attribute.Int64("eloquo.total_tokens", totalTokens),
	)
	metrics.RequestsTotal.WithLabelValues("project", models.StatusSuccess).Inc()
	log.Info().
		Str("project", analysis.ProjectName).
		Int64("tokens", totalTokens).
		Float64("cost_usd", cost).
		Dur("elapsed", time.Since(start)).
		Msg("Project protocol complete")

	return &models.ProjectProtocolResponse{
		Success:        true,
		RequestID:      requestID,
		ProjectName:    analysis.ProjectName,
		ProjectSummary: analysis.ProjectSummary,
		Documents:      documents,
		Analysis:       &analysis,
		Metrics: &models.ProjectMetrics{
			TotalTokens:        totalTokens,
			InputTokens:        inputTokens,
			OutputTokens:       outputTokens,
			ProcessingTimeMs:   processingMs,
			ProcessingTimeSec:  float64(processingMs) / 1000,
			AnalysisTimeSec:    analysisSec,
			ParallelGenTimeSec: genSec,
			Model:              tiers.ProjectModel,
			APICostUSD:         cost,
		},
		CreditsUsed: ProjectCreditCost,
	}, nil
}

func projectAnalyzePrompt(req *models.ProjectProtocolRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this project:\n\n")
	fmt.Fprintf(&b, "PROJECT IDEA:\n%s\n\n", req.ProjectIdea)
	fmt.Fprintf(&b, "PROJECT TYPE: %s\n", req.ProjectType)
	fmt.Fprintf(&b, "TECH PREFERENCES: %s\n", orDefault(req.TechPreferences, "No preference"))
	fmt.Fprintf(&b, "TARGET AUDIENCE: %s\n", orDefault(req.TargetAudience, "General"))
	fmt.Fprintf(&b, "ADDITIONAL CONTEXT: %s", orDefault(req.AdditionalContext, "None"))
	return b.String()
}

func projectDocPrompt(analysis *models.ProjectAnalysis, instruction string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PROJECT: %s\n", analysis.ProjectName)
	fmt.Fprintf(&b, "SUMMARY: %s\n", analysis.ProjectSummary)
	fmt.Fprintf(&b, "PROBLEM: %s\n", analysis.ProblemStatement)
	fmt.Fprintf(&b, "TARGET USERS: %s\n", strings.Join(analysis.TargetUsers, ", "))
	fmt.Fprintf(&b, "CORE FEATURES: %s\n", strings.Join(analysis.CoreFeatures, ", "))
	fmt.Fprintf(&b, "MVP SCOPE: %s\n", strings.Join(analysis.MVPScope, ", "))
	fmt.Fprintf(&b, "SUGGESTED STACK: %s\n", formatStack(analysis.SuggestedStack))
	fmt.Fprintf(&b, "TECHNICAL COMPLEXITY: %s\n", analysis.TechnicalComplexity)
	fmt.Fprintf(&b, "RISKS: %s\n\n", strings.Join(analysis.Risks, ", "))
	b.WriteString(instruction)
	return b.String()
}

func formatStack(stack map[string]string) string {
	if len(stack) == 0 {
		return "To be determined"
	}
	parts := make([]string, 0, len(stack))
	for _, layer := range []string{"frontend", "backend", "database", "hosting"} {
		if v, ok := stack[layer]; ok {
			parts = append(parts, layer+": "+v)
		}
	}
	for layer, v := range stack {
		switch layer {
		case "frontend", "backend", "database", "hosting":
		default:
			parts = append(parts, layer+": "+v)
		}
	}
	return strings.Join(parts, ", ")
}

// fallbackProjectAnalysis keeps the pipeline moving when the analysis model
// returns prose instead of JSON.
func fallbackProjectAnalysis(idea string) models.ProjectAnalysis {
	return models.ProjectAnalysis{
		ProjectName:      "Untitled Project",
		ProjectSummary:   preview(idea, 200),
		ProblemStatement: "To be determined",
		TargetUsers:      []string{"General users"},
		CoreFeatures:     []string{"Core functionality"},
		MVPScope:         []string{"Basic features"},
		SuggestedStack: map[string]string{
			"frontend": "React",
			"backend":  "Node.js",
			"database": "PostgreSQL",
			"hosting":  "Vercel",
		},
		TechnicalComplexity: "moderate",
		Risks:               []string{"Technical feasibility"},
	}
}

func preview(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
