// Package export builds downloadable JSON and CSV snapshots of a user's
// request history, bounded by the tier's retention window.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eloquo/eloquo/agent-service/internal/analytics"
	"github.com/eloquo/eloquo/agent-service/internal/tiers"
	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

// ErrNoRecords is returned when the user has no history inside the window.
var ErrNoRecords = fmt.Errorf("export: no prompts found for this user")

// File is a rendered export ready to be served as a download.
type File struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Exporter renders history exports from the analytics store.
type Exporter struct {
	store analytics.Store
}

// New creates an Exporter.
func New(store analytics.Store) *Exporter {
	return &Exporter{store: store}
}

// Export fetches the user's records within the tier's retention window and
// renders them in the requested format ("json" or "csv").
func (e *Exporter) Export(ctx context.Context, userID string, tier models.Tier, format string) (*File, error) {
	var since *time.Time
	if days, bounded := tiers.HistoryLimitDays(tier); bounded {
		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		since = &cutoff
	}

	records, err := e.store.ListRequests(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("export: fetch history: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	if strings.EqualFold(format, "csv") {
		return renderCSV(records, userID)
	}
	return renderJSON(records, userID)
}

func renderJSON(records []models.RequestRecord, userID string) (*File, error) {
	payload := struct {
		ExportedAt   string                 `json:"exported_at"`
		UserID       string                 `json:"user_id"`
		TotalPrompts int                    `json:"total_prompts"`
		Prompts      []models.RequestRecord `json:"prompts"`
	}{
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
		UserID:       userID,
		TotalPrompts: len(records),
		Prompts:      records,
	}

	content, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshal json: %w", err)
	}
	return &File{
		Content:     content,
		ContentType: "application/json",
		Filename:    filename(userID, "json"),
	}, nil
}

var csvColumns = []string{
	"id", "created_at", "prompt_preview",
	"target_model", "strength", "domain", "complexity",
	"quality_score", "user_rating", "user_feedback", "rated_at",
}

func renderCSV(records []models.RequestRecord, userID string) (*File, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvColumns); err != nil {
		return nil, fmt.Errorf("export: write csv header: %w", err)
	}
	for _, rec := range records {
		ratedAt := ""
		if rec.RatedAt != nil {
			ratedAt = rec.RatedAt.Format(time.RFC3339)
		}
		rating := ""
		if rec.UserRating > 0 {
			rating = strconv.Itoa(rec.UserRating)
		}
		row := []string{
			rec.ID,
			rec.CreatedAt.Format(time.RFC3339),
			scrub(rec.PromptPreview),
			rec.TargetModel,
			rec.Strength,
			rec.Domain,
			rec.Complexity,
			strconv.FormatFloat(rec.QualityScore, 'f', -1, 64),
			rating,
			scrub(rec.UserFeedback),
			ratedAt,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("export: write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: flush csv: %w", err)
	}

	return &File{
		Content:     buf.Bytes(),
		ContentType: "text/csv",
		Filename:    filename(userID, "csv"),
	}, nil
}

// scrub flattens newlines so multi-line text stays on one CSV row.
func scrub(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", "")
}

func filename(userID, ext string) string {
	short := userID
	if len(short) > 8 {
		short = short[:8]
	}
	return "eloquo-export-" + short + "." + ext
}
