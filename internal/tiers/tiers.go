// Package tiers maps subscription tiers to the model identifiers used by each
// pipeline stage, and carries the per-model pricing and history retention
// tables. Everything here is an immutable lookup with no side effects.
package tiers

import "github.com/eloquo/eloquo/agent-service/pkg/models"

// ModelSet is the triple of model ids a tier uses for the optimize pipeline.
type ModelSet struct {
	Classify string
	Analyze  string
	Generate string
}

// FileAnalysisModel handles attachment analysis; it needs vision support.
const FileAnalysisModel = "google/gemini-2.5-flash"

// Project-protocol model and its pricing per 1M tokens.
const (
	ProjectModel           = "google/gemini-3-flash-preview"
	ProjectInputCostPer1M  = 0.50
	ProjectOutputCostPer1M = 3.00
)

var tierModels = map[models.Tier]ModelSet{
	models.TierBasic: {
		Classify: "google/gemini-2.0-flash-lite-preview-02-05",
		Analyze:  "google/gemini-2.0-flash-001",
		Generate: "google/gemini-2.0-flash-001",
	},
	models.TierPro: {
		Classify: "google/gemini-2.0-flash-lite-preview-02-05",
		Analyze:  "google/gemini-2.0-flash-001",
		Generate: "google/gemini-2.0-flash-001",
	},
	models.TierBusiness: {
		Classify: "google/gemini-2.0-flash-lite-preview-02-05",
		Analyze:  "google/gemini-2.0-flash-001",
		Generate: "google/gemini-2.0-flash-001",
	},
	models.TierEnterprise: {
		Classify: "google/gemini-2.0-flash-lite-preview-02-05",
		Analyze:  "google/gemini-2.0-flash-001",
		Generate: "google/gemini-2.0-flash-001",
	},
}

// ForTier returns the model set for a tier. Unknown tiers resolve to the
// business mapping; this function never fails.
func ForTier(tier models.Tier) ModelSet {
	if set, ok := tierModels[tier]; ok {
		return set
	}
	return tierModels[models.TierBusiness]
}

// ── Pricing ─────────────────────────────────────────────────

// modelCosts is USD per 1M tokens, input/output.
var modelCosts = map[string][2]float64{
	"google/gemini-2.5-flash-lite": {0.10, 0.40},
	"google/gemini-2.5-flash":      {0.30, 2.50},
	"deepseek/deepseek-chat":       {0.14, 0.28},
}

// Unlisted models fall back to a conservative generic price.
const (
	fallbackInputCostPer1M  = 0.5
	fallbackOutputCostPer1M = 1.5
)

// Cost estimates the USD cost of one model call.
func Cost(model string, inputTokens, outputTokens int64) float64 {
	in, out := fallbackInputCostPer1M, fallbackOutputCostPer1M
	if c, ok := modelCosts[model]; ok {
		in, out = c[0], c[1]
	}
	return float64(inputTokens)*in/1_000_000 + float64(outputTokens)*out/1_000_000
}

// ── History Retention ───────────────────────────────────────

// historyLimitDays is the export retention window per tier, in days.
// Zero means unlimited.
var historyLimitDays = map[models.Tier]int{
	models.TierBasic:      180,
	models.TierPro:        365,
	models.TierBusiness:   0,
	models.TierEnterprise: 0,
}

// HistoryLimitDays returns the retention window for a tier and whether the
// window is bounded. Unknown tiers get the basic window.
func HistoryLimitDays(tier models.Tier) (days int, bounded bool) {
	d, ok := historyLimitDays[tier]
	if !ok {
		return historyLimitDays[models.TierBasic], true
	}
	return d, d > 0
}
