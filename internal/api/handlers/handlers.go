// Package handlers implements the HTTP handlers for the Eloquo agent
// service: prompt optimization, project protocol, refine, ratings, history
// export, and the health and admin endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eloquo/eloquo/agent-service/internal/analytics"
	"github.com/eloquo/eloquo/agent-service/internal/config"
	"github.com/eloquo/eloquo/agent-service/internal/credits"
	"github.com/eloquo/eloquo/agent-service/internal/export"
	"github.com/eloquo/eloquo/agent-service/internal/pipeline"
	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

// Handlers holds all handler dependencies.
type Handlers struct {
	Optimizer *pipeline.Optimizer
	Project   *pipeline.ProjectPipeline
	Refiner   *pipeline.Refiner
	Exporter  *export.Exporter
	Analytics analytics.Store
	Config    *config.Config
}

// New creates a Handlers instance with all dependencies.
func New(opt *pipeline.Optimizer, proj *pipeline.ProjectPipeline, ref *pipeline.Refiner, exp *export.Exporter, store analytics.Store, cfg *config.Config) *Handlers {
	return &Handlers{
		Optimizer: opt,
		Project:   proj,
		Refiner:   ref,
		Exporter:  exp,
		Analytics: store,
		Config:    cfg,
	}
}

// ── Optimize ─────────────────────────────────────────────────

// Optimize runs the optimization pipeline. Pipeline outcomes, including
// clarification requests and failures, are reported in the body with HTTP
// 200; only malformed requests get a 4xx.
func (h *Handlers) Optimize(w http.ResponseWriter, r *http.Request) {
	var req models.OptimizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		respondError(w, http.StatusBadRequest, "Prompt is required")
		return
	}
	if len(req.Prompt) > models.MaxPromptLength {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Prompt exceeds maximum length of %d characters", models.MaxPromptLength))
		return
	}
	if req.Tier == "" {
		req.Tier = models.TierBasic
	}

	resp := h.Optimizer.Run(r.Context(), &req)
	respondJSON(w, http.StatusOK, resp)
}

// ── Project Protocol ─────────────────────────────────────────

// ProjectProtocol generates the PRD, architecture, and user-story documents
// for a project idea. Credit failures map to 404 and 402.
func (h *Handlers) ProjectProtocol(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectProtocolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(strings.TrimSpace(req.ProjectIdea)) < models.MinProjectIdeaLength {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Project idea must be at least %d characters", models.MinProjectIdeaLength))
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	resp, err := h.Project.Run(r.Context(), &req)
	if err != nil {
		var notFound *credits.ErrUserNotFound
		var insufficient *credits.ErrInsufficient
		switch {
		case errors.As(err, &notFound):
			respondError(w, http.StatusNotFound, notFound.Error())
		case errors.As(err, &insufficient):
			respondError(w, http.StatusPaymentRequired, insufficient.Error())
		default:
			log.Error().Err(err).Str("user", req.UserID).Msg("Project protocol failed")
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// ── Refine ───────────────────────────────────────────────────

func (h *Handlers) Refine(w http.ResponseWriter, r *http.Request) {
	var req models.RefineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.OriginalPrompt) == "" || strings.TrimSpace(req.Instruction) == "" {
		respondError(w, http.StatusBadRequest, "original_prompt and instruction are required")
		return
	}

	respondJSON(w, http.StatusOK, h.Refiner.Run(r.Context(), &req))
}

// ── Rate ─────────────────────────────────────────────────────

// Rate attaches a 1-5 star rating to a previously recorded request. Storage
// failures are reported in the body rather than as an HTTP error.
func (h *Handlers) Rate(w http.ResponseWriter, r *http.Request) {
	var req models.RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RequestID == "" {
		respondError(w, http.StatusBadRequest, "request_id is required")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respondError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	if err := h.Analytics.RecordRating(r.Context(), req.RequestID, req.Rating, req.Feedback, time.Now().UTC()); err != nil {
		log.Warn().Err(err).Str("request_id", req.RequestID).Msg("Failed to record rating")
		respondJSON(w, http.StatusOK, models.RatingResponse{
			Status:  models.StatusError,
			Message: "Could not save rating",
		})
		return
	}

	respondJSON(w, http.StatusOK, models.RatingResponse{
		Status:  models.StatusSuccess,
		Message: fmt.Sprintf("Thank you for your %d-star rating!", req.Rating),
	})
}

// ── Export ───────────────────────────────────────────────────

// Export serves the user's prompt history as a JSON or CSV download, bounded
// by the tier's retention window.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	tier := models.Tier(r.URL.Query().Get("tier"))
	if tier == "" {
		tier = models.TierBasic
	}

	file, err := h.Exporter.Export(r.Context(), userID, tier, format)
	if err != nil {
		if errors.Is(err, export.ErrNoRecords) {
			respondError(w, http.StatusNotFound, "No prompts found for this user")
			return
		}
		log.Error().Err(err).Str("user", userID).Msg("Export failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(file.Content)
}

// ── Health & Admin ───────────────────────────────────────────

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":                "healthy",
		"service":               "eloquo-agent-service",
		"version":               h.Config.Version,
		"openrouter_configured": h.Config.OpenRouter.APIKey != "",
	})
}

func (h *Handlers) AdminMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "eloquo-agent-service",
		"version": h.Config.Version,
		"status":  "operational",
	})
}

// ── Response helpers ─────────────────────────────────────────

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
