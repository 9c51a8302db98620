package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/eloquo/eloquo/agent-service/internal/analytics"
	"github.com/eloquo/eloquo/agent-service/internal/gateway"
	"github.com/eloquo/eloquo/agent-service/internal/metrics"
	"github.com/eloquo/eloquo/agent-service/internal/prompts"
	"github.com/eloquo/eloquo/agent-service/internal/tiers"
	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

// Optimizer runs the four-stage prompt optimization pipeline:
// optional file analysis → classify → conditional analyze → generate.
type Optimizer struct {
	gw        ChatClient
	analytics analytics.Store
}

// NewOptimizer creates the optimization pipeline.
func NewOptimizer(gw ChatClient, store analytics.Store) *Optimizer {
	return &Optimizer{gw: gw, analytics: store}
}

// Run executes one pipeline instance. It always returns a response; failures
// are folded into a status="error" body carrying elapsed time and the stages
// that completed.
func (o *Optimizer) Run(ctx context.Context, req *models.OptimizationRequest) *models.OptimizeResponse {
	ctx, span := tracer.Start(ctx, "pipeline.optimize")
	defer span.End()

	start := time.Now()
	runMetrics := &models.PipelineMetrics{Stages: make(map[string]models.StageMetrics)}
	var stagesUsed []string

	resp, err := o.run(ctx, req, start, runMetrics, &stagesUsed)
	if err != nil {
		log.Error().Err(err).Strs("stages", stagesUsed).Msg("Optimization pipeline failed")
		metrics.RequestsTotal.WithLabelValues("optimize", models.StatusError).Inc()
		return &models.OptimizeResponse{
			Status:           models.StatusError,
			Message:          err.Error(),
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			StagesUsed:       stagesUsed,
			Improvements:     []string{},
		}
	}

	span.SetAttributes(attribute.String("eloquo.status", resp.Status))
	metrics.RequestsTotal.WithLabelValues("optimize", resp.Status).Inc()
	return resp
}

func (o *Optimizer) run(ctx context.Context, req *models.OptimizationRequest, start time.Time, runMetrics *models.PipelineMetrics, stagesUsed *[]string) (*models.OptimizeResponse, error) {
	if err := validateOptimizationRequest(req); err != nil {
		return nil, err
	}

	// Stage 0: file analysis. Failures degrade to empty context.
	fileContext := ""
	if len(req.Files) > 0 {
		fileStart := time.Now()
		comp, err := o.gw.AnalyzeFiles(ctx, tiers.FileAnalysisModel, prompts.FileAnalysisInstruction, req.Files)
		metrics.StageDuration.WithLabelValues(StageFileAnalysis).Observe(time.Since(fileStart).Seconds())
		if err != nil {
			log.Warn().Err(err).Int("files", len(req.Files)).Msg("File analysis failed, continuing without file context")
		} else if comp.Content != "" {
			fileContext = comp.Content
			o.countUsage(runMetrics, tiers.FileAnalysisModel, comp)
			*stagesUsed = append(*stagesUsed, StageFileAnalysis)
			runMetrics.Stages[StageFileAnalysis] = models.StageMetrics{
				Model:      tiers.FileAnalysisModel,
				FilesCount: len(req.Files),
			}
		}
	}

	modelSet := tiers.ForTier(req.Tier)

	// Stage 1: classify. Always runs.
	classifyStart := time.Now()
	var classification models.Classification
	comp, err := o.gw.CompleteInto(ctx, gateway.CompletionRequest{
		Model:     modelSet.Classify,
		System:    prompts.ClassifySystem,
		User:      classifyPrompt(req, fileContext),
		MaxTokens: 2000,
	}, &classification)
	metrics.StageDuration.WithLabelValues(StageClassify).Observe(time.Since(classifyStart).Seconds())
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	o.countUsage(runMetrics, modelSet.Classify, comp)
	*stagesUsed = append(*stagesUsed, StageClassify)
	runMetrics.Stages[StageClassify] = models.StageMetrics{
		Model:      modelSet.Classify,
		Complexity: classification.Complexity,
		Domain:     classification.Domain,
	}
	log.Info().
		Str("complexity", string(classification.Complexity)).
		Str("domain", classification.Domain).
		Bool("needs_clarification", classification.NeedsClarification).
		Msg("Classification complete")

	// Terminal branch: the prompt needs more input and the caller has not
	// supplied any answers yet. A designed outcome, not an error.
	if classification.NeedsClarification && len(req.ClarificationAnswers) == 0 {
		return &models.OptimizeResponse{
			Status:           models.StatusNeedsClarification,
			Questions:        classification.Questions,
			Message:          "To create the best optimized prompt, I need a bit more context:",
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			StagesUsed:       *stagesUsed,
			Domain:           classification.Domain,
			Improvements:     []string{},
		}, nil
	}

	// Stage 2: analyze. Moderate and complex prompts only.
	var analysis *models.Analysis
	if classification.Complexity == models.ComplexityModerate || classification.Complexity == models.ComplexityComplex {
		analyzeStart := time.Now()
		var result models.Analysis
		comp, err := o.gw.CompleteInto(ctx, gateway.CompletionRequest{
			Model:     modelSet.Analyze,
			System:    prompts.AnalyzeSystem,
			User:      analyzePrompt(req, &classification),
			MaxTokens: 2000,
		}, &result)
		metrics.StageDuration.WithLabelValues(StageAnalyze).Observe(time.Since(analyzeStart).Seconds())
		if err != nil {
			return nil, fmt.Errorf("analyze: %w", err)
		}
		analysis = &result
		o.countUsage(runMetrics, modelSet.Analyze, comp)
		*stagesUsed = append(*stagesUsed, StageAnalyze)
		runMetrics.Stages[StageAnalyze] = models.StageMetrics{
			Model:         modelSet.Analyze,
			KeyElements:   len(result.KeyElements),
			Opportunities: len(result.OptimizationOpportunities),
		}
	}

	// Stage 3: generate.
	genStart := time.Now()
	genPrompt, techniques := buildGenerationPrompt(req, &classification, analysis)
	var result models.GenerationResult
	comp, err = o.gw.CompleteInto(ctx, gateway.CompletionRequest{
		Model:     modelSet.Generate,
		System:    prompts.GenerateSystem,
		User:      genPrompt,
		MaxTokens: 4000,
	}, &result)
	metrics.StageDuration.WithLabelValues(StageGenerate).Observe(time.Since(genStart).Seconds())
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.QualityScore = clampScore(result.QualityScore)
	o.countUsage(runMetrics, modelSet.Generate, comp)
	*stagesUsed = append(*stagesUsed, StageGenerate)
	runMetrics.Stages[StageGenerate] = models.StageMetrics{
		Model:        modelSet.Generate,
		QualityScore: result.QualityScore,
	}

	processingMs := time.Since(start).Milliseconds()

	// Best-effort analytics write; optimization output never depends on it.
	o.logRun(ctx, req, &classification, &result, runMetrics, processingMs)

	return &models.OptimizeResponse{
		Status:            models.StatusSuccess,
		OptimizedPrompt:   result.OptimizedPrompt,
		FullVersion:       result.FullVersion,
		QuickRef:          result.QuickRef,
		Snippet:           result.Snippet,
		Improvements:      result.Improvements,
		TechniquesApplied: techniques,
		QualityScore:      result.QualityScore,
		ProcessingTimeMs:  processingMs,
		StagesUsed:        *stagesUsed,
		Domain:            classification.Domain,
		Metrics:           runMetrics,
		Analytics:         buildAnalyticsPayload(&classification, runMetrics, *stagesUsed),
		WhyThisWorks:      result.WhyThisWorks,
		ProTips:           result.ProTips,

		AlternativeApproaches: result.AlternativeApproaches,
		ABVariants:            result.ABVariants,
	}, nil
}

func validateOptimizationRequest(req *models.OptimizationRequest) error {
	trimmed := strings.TrimSpace(req.Prompt)
	if trimmed == "" {
		return fmt.Errorf("prompt must not be empty")
	}
	if len(req.Prompt) > models.MaxPromptLength {
		return fmt.Errorf("prompt exceeds maximum length of %d characters", models.MaxPromptLength)
	}
	return nil
}

func classifyPrompt(req *models.OptimizationRequest, fileContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this prompt:\n\n%s", req.Prompt)
	if req.Context != "" {
		fmt.Fprintf(&b, "\n\nAdditional context: %s", req.Context)
	}
	if fileContext != "" {
		fmt.Fprintf(&b, "\n\nFile analysis: %s", fileContext)
	}
	return b.String()
}

func analyzePrompt(req *models.OptimizationRequest, cls *models.Classification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original prompt: %s\n", req.Prompt)
	fmt.Fprintf(&b, "Classification: %s complexity, %s domain\n", cls.Complexity, cls.Domain)
	if len(req.ClarificationAnswers) > 0 {
		fmt.Fprintf(&b, "User provided context: %s", formatAnswers(req.ClarificationAnswers))
	}
	return b.String()
}

func formatAnswers(answers map[string]string) string {
	pairs := make([]string, 0, len(answers))
	for id, answer := range answers {
		pairs = append(pairs, id+": "+answer)
	}
	return strings.Join(pairs, "; ")
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

func (o *Optimizer) countUsage(m *models.PipelineMetrics, model string, comp *gateway.Completion) {
	if comp == nil {
		return
	}
	m.TotalTokens += comp.TotalTokens
	m.TotalCost += tiers.Cost(model, comp.PromptTokens, comp.CompletionTokens)
	metrics.LLMTokensTotal.WithLabelValues(model).Add(float64(comp.TotalTokens))
}

func buildAnalyticsPayload(cls *models.Classification, m *models.PipelineMetrics, stagesUsed []string) *models.AnalyticsPayload {
	modelsByStage := make(map[string]string)
	for _, stage := range []string{StageClassify, StageAnalyze, StageGenerate} {
		if sm, ok := m.Stages[stage]; ok {
			modelsByStage[stage] = sm.Model
		}
	}
	return &models.AnalyticsPayload{
		Status:           models.StatusSuccess,
		CompletionTokens: m.TotalTokens,
		TotalTokens:      m.TotalTokens,
		TotalCost:        m.TotalCost,
		StagesUsed:       stagesUsed,
		Complexity:       cls.Complexity,
		Domain:           cls.Domain,
		Models:           modelsByStage,
	}
}

func (o *Optimizer) logRun(ctx context.Context, req *models.OptimizationRequest, cls *models.Classification, result *models.GenerationResult, m *models.PipelineMetrics, processingMs int64) {
	preview := req.Prompt
	if len(preview) > 500 {
		preview = preview[:500]
	}
	rec := &models.RequestRecord{
		Tier:             req.Tier,
		PromptPreview:    preview,
		PromptLength:     len(req.Prompt),
		TargetModel:      req.TargetModel,
		Domain:           cls.Domain,
		Complexity:       string(cls.Complexity),
		ProcessingTimeMs: processingMs,
		TotalTokens:      m.TotalTokens,
		TotalCost:        m.TotalCost,
		QualityScore:     result.QualityScore,
		Status:           "completed",
		CreatedAt:        time.Now().UTC(),
	}
	if _, err := o.analytics.InsertRequest(ctx, rec); err != nil {
		log.Warn().Err(err).Msg("Failed to record optimization run in analytics store")
	}
}
