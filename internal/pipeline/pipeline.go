// Package pipeline implements the service's LLM orchestration flows: the
// four-stage optimization pipeline, the project-protocol document pipeline,
// and the single-call refine flow.
//
// Each inbound request drives exactly one pipeline run. A run makes between
// one and four gateway calls depending on which branches it takes; nothing is
// persisted in-process and nothing is shared between runs.
package pipeline

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/eloquo/eloquo/agent-service/internal/gateway"
	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

var tracer = otel.Tracer("eloquo-agent-service")

// Stage names as they appear in stages_used and metrics.
const (
	StageFileAnalysis = "file_analysis"
	StageClassify     = "classify"
	StageAnalyze      = "analyze"
	StageGenerate     = "generate"
)

// ChatClient is the slice of the gateway client the pipelines consume.
// Tests substitute a scripted implementation.
type ChatClient interface {
	Complete(ctx context.Context, req gateway.CompletionRequest) (*gateway.Completion, error)
	CompleteInto(ctx context.Context, req gateway.CompletionRequest, out interface{}) (*gateway.Completion, error)
	AnalyzeFiles(ctx context.Context, model, instruction string, files []models.AttachedFile) (*gateway.Completion, error)
}

// CreditsService is the slice of the credits client the project pipeline
// consumes.
type CreditsService interface {
	Check(ctx context.Context, userID, email string) (int, error)
	Deduct(ctx context.Context, userID, email string, amount int) error
}
