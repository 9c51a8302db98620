// Package models defines the wire-level and domain types shared across the
// Eloquo agent service: optimization requests and results, project-protocol
// documents, ratings, and export records.
package models

import "time"

// ── Tiers & Complexity ──────────────────────────────────────

// Tier is a subscription level. It gates model choice, generation extras,
// and history retention.
type Tier string

const (
	TierBasic      Tier = "basic"
	TierPro        Tier = "pro"
	TierBusiness   Tier = "business"
	TierEnterprise Tier = "enterprise"
)

// Complexity is the classified difficulty of a prompt. The three levels are
// ordered: simple < moderate < complex.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Status values shared by the optimize and refine responses.
const (
	StatusSuccess            = "success"
	StatusNeedsClarification = "needs_clarification"
	StatusError              = "error"
)

// ── Optimization Request ────────────────────────────────────

// AttachedFile is a user upload sent along with an optimization request.
// Content is base64-encoded; MimeType drives the multimodal message part.
type AttachedFile struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
}

// OptimizationRequest is the body of POST /optimize.
type OptimizationRequest struct {
	Prompt               string            `json:"prompt"`
	Tier                 Tier              `json:"user_tier"`
	Context              string            `json:"context,omitempty"`
	ClarificationAnswers map[string]string `json:"clarification_answers,omitempty"`
	Files                []AttachedFile    `json:"files,omitempty"`

	// TargetModel hints which model family the optimized prompt is for:
	// "auto", "gpt", "claude", "gemini", "reasoning", "cursor", or a model id.
	TargetModel string `json:"target_model,omitempty"`
}

// MaxPromptLength caps the original prompt size accepted by /optimize.
const MaxPromptLength = 10000

// ── Classification ──────────────────────────────────────────

// QuestionOption is one selectable answer for a clarifying question.
type QuestionOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ClarifyingQuestion is a question issued when classification decides the
// prompt is too vague to optimize.
type ClarifyingQuestion struct {
	ID       string           `json:"id"`
	Question string           `json:"question"`
	Type     string           `json:"type"` // text | select | number
	Options  []QuestionOption `json:"options,omitempty"`
}

// Classification is the output of the classify stage. It is produced once per
// pipeline run and never mutated afterwards.
type Classification struct {
	Complexity         Complexity           `json:"complexity"`
	Domain             string               `json:"domain"`
	NeedsClarification bool                 `json:"needs_clarification"`
	Questions          []ClarifyingQuestion `json:"questions"`
}

// ── Analysis ────────────────────────────────────────────────

// Analysis is the output of the analyze stage, which runs only for moderate
// and complex prompts.
type Analysis struct {
	KeyElements               []string `json:"key_elements"`
	MissingContext            []string `json:"missing_context"`
	OptimizationOpportunities []string `json:"optimization_opportunities"`
	TargetAudience            string   `json:"target_audience,omitempty"`
	SuggestedTone             string   `json:"suggested_tone,omitempty"`
}

// ── Generation ──────────────────────────────────────────────

// GenerationResult is the structured output of the generate stage.
type GenerationResult struct {
	OptimizedPrompt string   `json:"optimized_prompt"`
	FullVersion     string   `json:"full_version"`
	QuickRef        string   `json:"quick_ref"`
	Snippet         string   `json:"snippet"`
	Improvements    []string `json:"improvements"`
	QualityScore    float64  `json:"quality_score"`

	// Pro tier extras.
	WhyThisWorks string   `json:"why_this_works,omitempty"`
	ProTips      []string `json:"pro_tips,omitempty"`

	// Business tier extras.
	AlternativeApproaches []string `json:"alternative_approaches,omitempty"`
	ABVariants            []string `json:"ab_variants,omitempty"`
}

// StageMetrics records which model served a stage plus stage-specific counts.
type StageMetrics struct {
	Model string `json:"model"`

	// classify
	Complexity Complexity `json:"complexity,omitempty"`
	Domain     string     `json:"domain,omitempty"`

	// file_analysis
	FilesCount int `json:"files_count,omitempty"`

	// analyze
	KeyElements   int `json:"key_elements,omitempty"`
	Opportunities int `json:"opportunities,omitempty"`

	// generate
	QualityScore float64 `json:"quality_score,omitempty"`
}

// PipelineMetrics aggregates token and cost counters across a pipeline run.
type PipelineMetrics struct {
	TotalTokens int64                   `json:"total_tokens"`
	TotalCost   float64                 `json:"total_cost"`
	Stages      map[string]StageMetrics `json:"stages"`
}

// AnalyticsPayload is the side-channel summary attached to a successful
// optimize response for the analytics warehouse.
type AnalyticsPayload struct {
	Status           string            `json:"status"`
	CompletionTokens int64             `json:"completion_tokens"`
	TotalTokens      int64             `json:"total_tokens"`
	TotalCost        float64           `json:"total_cost"`
	StagesUsed       []string          `json:"stages_used"`
	Complexity       Complexity        `json:"complexity"`
	Domain           string            `json:"domain"`
	Models           map[string]string `json:"models"`
}

// OptimizeResponse is the body returned by POST /optimize for all three
// terminal outcomes (success, needs_clarification, error).
type OptimizeResponse struct {
	Status    string               `json:"status"`
	Questions []ClarifyingQuestion `json:"questions,omitempty"`
	Message   string               `json:"message,omitempty"`

	OptimizedPrompt string   `json:"optimized_prompt,omitempty"`
	FullVersion     string   `json:"full_version,omitempty"`
	QuickRef        string   `json:"quick_ref,omitempty"`
	Snippet         string   `json:"snippet,omitempty"`
	Improvements    []string `json:"improvements"`
	QualityScore    float64  `json:"quality_score,omitempty"`

	ProcessingTimeMs  int64             `json:"processing_time_ms"`
	StagesUsed        []string          `json:"stages_used"`
	Domain            string            `json:"domain,omitempty"`
	Metrics           *PipelineMetrics  `json:"metrics,omitempty"`
	TechniquesApplied []string          `json:"techniques_applied,omitempty"`
	Analytics         *AnalyticsPayload `json:"analytics,omitempty"`

	WhyThisWorks          string   `json:"why_this_works,omitempty"`
	ProTips               []string `json:"pro_tips,omitempty"`
	AlternativeApproaches []string `json:"alternative_approaches,omitempty"`
	ABVariants            []string `json:"ab_variants,omitempty"`
}

// ── Project Protocol ────────────────────────────────────────

// ProjectProtocolRequest is the body of POST /project-protocol.
type ProjectProtocolRequest struct {
	ProjectIdea       string `json:"project_idea"`
	ProjectType       string `json:"project_type"`
	TechPreferences   string `json:"tech_preferences,omitempty"`
	TargetAudience    string `json:"target_audience,omitempty"`
	AdditionalContext string `json:"additional_context,omitempty"`
	UserID            string `json:"user_id"`
	UserEmail         string `json:"user_email,omitempty"`
	Tier              Tier   `json:"user_tier"`
}

// MinProjectIdeaLength is the minimum accepted project description size.
const MinProjectIdeaLength = 20

// ProjectAnalysis is the structured result of the project-analysis call. It
// seeds all three document generations.
type ProjectAnalysis struct {
	ProjectName         string            `json:"project_name"`
	ProjectSummary      string            `json:"project_summary"`
	ProblemStatement    string            `json:"problem_statement"`
	TargetUsers         []string          `json:"target_users"`
	CoreFeatures        []string          `json:"core_features"`
	MVPScope            []string          `json:"mvp_scope"`
	SuggestedStack      map[string]string `json:"suggested_stack"`
	TechnicalComplexity string            `json:"technical_complexity"`
	Risks               []string          `json:"risks"`
}

// ProjectMetrics summarizes token usage, timing, and estimated API cost for a
// project-protocol run.
type ProjectMetrics struct {
	TotalTokens        int64   `json:"total_tokens"`
	InputTokens        int64   `json:"input_tokens"`
	OutputTokens       int64   `json:"output_tokens"`
	ProcessingTimeMs   int64   `json:"processing_time_ms"`
	ProcessingTimeSec  float64 `json:"processing_time_sec"`
	AnalysisTimeSec    float64 `json:"analysis_time_sec"`
	ParallelGenTimeSec float64 `json:"parallel_gen_time_sec"`
	Model              string  `json:"model"`
	APICostUSD         float64 `json:"api_cost_usd"`
}

// ProjectProtocolResponse is the body returned by POST /project-protocol.
// Documents is keyed by "prd", "architecture", and "stories".
type ProjectProtocolResponse struct {
	Success        bool              `json:"success"`
	RequestID      string            `json:"request_id,omitempty"`
	ProjectName    string            `json:"project_name"`
	ProjectSummary string            `json:"project_summary"`
	Documents      map[string]string `json:"documents"`
	Analysis       *ProjectAnalysis  `json:"analysis"`
	Metrics        *ProjectMetrics   `json:"metrics"`
	CreditsUsed    int               `json:"credits_used"`
}

// ── Refine ──────────────────────────────────────────────────

// RefineRequest is the body of POST /refine.
type RefineRequest struct {
	OriginalPrompt string `json:"original_prompt"`
	Instruction    string `json:"instruction"`
	Tier           Tier   `json:"user_tier"`
}

// RefineResponse is the body returned by POST /refine.
type RefineResponse struct {
	Status        string   `json:"status"`
	RefinedPrompt string   `json:"refined_prompt,omitempty"`
	ChangesMade   []string `json:"changes_made"`
	Error         string   `json:"error,omitempty"`
}

// ── Rating ──────────────────────────────────────────────────

// RatingRequest is the body of POST /rate.
type RatingRequest struct {
	RequestID string `json:"request_id"`
	Rating    int    `json:"rating"`
	Feedback  string `json:"feedback,omitempty"`
}

// RatingResponse acknowledges a rating submission.
type RatingResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ── Analytics Records ───────────────────────────────────────

// RequestRecord is one row in the external analytics store. It covers both
// optimize and project-protocol runs; document fields are empty for the
// former.
type RequestRecord struct {
	ID               string     `json:"id,omitempty"`
	UserID           string     `json:"user_id"`
	Tier             Tier       `json:"user_tier"`
	PromptPreview    string     `json:"prompt_preview"`
	PromptLength     int        `json:"prompt_length"`
	TargetModel      string     `json:"target_model,omitempty"`
	Strength         string     `json:"strength,omitempty"`
	Domain           string     `json:"domain,omitempty"`
	Complexity       string     `json:"complexity,omitempty"`
	OutputMode       string     `json:"output_mode,omitempty"`
	ProcessingTimeMs int64      `json:"processing_time_ms"`
	InputTokens      int64      `json:"input_tokens"`
	OutputTokens     int64      `json:"output_tokens"`
	TotalTokens      int64      `json:"total_tokens"`
	TotalCost        float64    `json:"total_cost"`
	CreditsUsed      int        `json:"credits_used,omitempty"`
	QualityScore     float64    `json:"quality_score,omitempty"`
	Status           string     `json:"status"`
	UserRating       int        `json:"user_rating,omitempty"`
	UserFeedback     string     `json:"user_feedback,omitempty"`
	RatedAt          *time.Time `json:"rated_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`

	// Project-protocol extras.
	ProjectName          string `json:"project_name,omitempty"`
	ProjectSummary       string `json:"project_summary,omitempty"`
	PRDDocument          string `json:"prd_document,omitempty"`
	ArchitectureDocument string `json:"architecture_document,omitempty"`
	StoriesDocument      string `json:"stories_document,omitempty"`
}
