package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eloquo/eloquo/agent-service/internal/prompts"
	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

// genContext is the mutable state threaded through the generation prompt
// assembly. Prompt starts as the base context block and each augmentation
// rewrites it in place.
type genContext struct {
	Request        *models.OptimizationRequest
	Classification *models.Classification
	Analysis       *models.Analysis
	Prompt         string
}

// augmentation is one named prompt-assembly step. Apply mutates g.Prompt and
// returns the technique label to record, or "" when the step did not apply.
type augmentation struct {
	Name  string
	Apply func(g *genContext) string
}

// generationAugmentations is the fixed assembly order. The order is part of
// the contract: techniques_applied lists labels exactly in this sequence.
var generationAugmentations = []augmentation{
	{Name: "persona", Apply: applyPersona},
	{Name: "chain_of_thought", Apply: applyChainOfThought},
	{Name: "self_refine", Apply: applySelfRefine},
	{Name: "structured_format", Apply: applyStructuredFormat},
	{Name: "specificity", Apply: applySpecificity},
	{Name: "user_context", Apply: applyUserContext},
	{Name: "few_shot", Apply: applyFewShot},
}

// buildGenerationPrompt assembles the generate-stage user prompt and the
// ordered technique log.
func buildGenerationPrompt(req *models.OptimizationRequest, cls *models.Classification, analysis *models.Analysis) (string, []string) {
	g := &genContext{
		Request:        req,
		Classification: cls,
		Analysis:       analysis,
		Prompt:         baseGenerationContext(req, cls, analysis),
	}

	var applied []string
	for _, aug := range generationAugmentations {
		if label := aug.Apply(g); label != "" {
			applied = append(applied, label)
		}
	}
	return g.Prompt, applied
}

// baseGenerationContext renders the original prompt, its classification, the
// analysis findings, and any clarification answers into the starting block.
func baseGenerationContext(req *models.OptimizationRequest, cls *models.Classification, analysis *models.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original prompt: %s\n", req.Prompt)
	fmt.Fprintf(&b, "Domain: %s\n", cls.Domain)
	fmt.Fprintf(&b, "Complexity: %s\n", cls.Complexity)
	fmt.Fprintf(&b, "User Tier: %s\n", req.Tier)

	if analysis != nil {
		fmt.Fprintf(&b, "\nKey elements: %s\n", strings.Join(analysis.KeyElements, ", "))
		fmt.Fprintf(&b, "Missing context: %s\n", strings.Join(analysis.MissingContext, ", "))
		fmt.Fprintf(&b, "Optimization opportunities: %s\n", strings.Join(analysis.OptimizationOpportunities, ", "))
	}

	if len(req.ClarificationAnswers) > 0 {
		answers, _ := json.MarshalIndent(req.ClarificationAnswers, "", "  ")
		fmt.Fprintf(&b, "\n\nCRITICAL USER CONTEXT (Must be incorporated):\n%s", answers)
	}

	return b.String()
}

func applyPersona(g *genContext) string {
	persona := prompts.Persona(g.Classification.Domain)
	if persona == "" {
		return ""
	}
	g.Prompt = "Domain expertise context: " + persona + "\n\n" + g.Prompt
	return "Domain persona: " + g.Classification.Domain
}

func applyChainOfThought(g *genContext) string {
	target := g.Request.TargetModel
	if target == "" {
		target = "auto"
	}
	phrase := prompts.CoTPhrase(g.Classification.Domain, g.Classification.Complexity, target)
	if phrase == "" {
		return ""
	}
	g.Prompt += "\n\nReasoning instruction: " + phrase
	return "Chain-of-thought reasoning"
}

func applySelfRefine(g *genContext) string {
	suffix := prompts.SelfRefine(g.Classification.Complexity)
	if suffix == "" {
		return ""
	}
	g.Prompt += suffix
	return "Self-refine instruction"
}

// applyStructuredFormat records the section structure the generate system
// prompt always enforces; it adds no text of its own.
func applyStructuredFormat(g *genContext) string {
	return "Structured output format (Identity→Instructions→Context→Request)"
}

func applySpecificity(g *genContext) string {
	if g.Classification.Complexity == models.ComplexitySimple {
		return ""
	}
	return "Specificity enhancement"
}

func applyUserContext(g *genContext) string {
	if len(g.Request.ClarificationAnswers) == 0 {
		return ""
	}
	return "User context integration"
}

func applyFewShot(g *genContext) string {
	if g.Request.Tier != models.TierBusiness {
		return ""
	}
	g.Prompt = prompts.BusinessExamples + "\n\n" + g.Prompt
	return "Few-shot examples for enhanced quality"
}
