package prompts_test

import (
	"strings"
	"testing"

	"github.com/eloquo/eloquo/agent-service/internal/prompts"
	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

func TestPersona_KnownAndUnknownDomains(t *testing.T) {
	if p := prompts.Persona("technical"); !strings.Contains(p, "software engineer") {
		t.Errorf("Persona(technical) = %q, want software engineer persona", p)
	}
	if p := prompts.Persona("underwater-basket-weaving"); p != "" {
		t.Errorf("Persona(unknown) = %q, want empty", p)
	}
}

func TestCoTPhrase_SuppressedForSimplePrompts(t *testing.T) {
	if p := prompts.CoTPhrase("technical", models.ComplexitySimple, "auto"); p != "" {
		t.Errorf("CoTPhrase(simple) = %q, want empty", p)
	}
}

func TestCoTPhrase_SuppressedForReasoningTargets(t *testing.T) {
	for _, target := range []string{"reasoning", "o1", "o3", "o3-mini", "o4-mini"} {
		if p := prompts.CoTPhrase("technical", models.ComplexityComplex, target); p != "" {
			t.Errorf("CoTPhrase(target=%s) = %q, want empty", target, p)
		}
	}
}

func TestCoTPhrase_DomainSpecificAndDefault(t *testing.T) {
	tech := prompts.CoTPhrase("technical", models.ComplexityModerate, "auto")
	if !strings.Contains(tech, "edge cases") {
		t.Errorf("CoTPhrase(technical) = %q, want technical phrasing", tech)
	}

	// Domains without a dedicated phrase use the default.
	other := prompts.CoTPhrase("travel", models.ComplexityModerate, "gpt")
	if !strings.Contains(other, "step by step") {
		t.Errorf("CoTPhrase(travel) = %q, want default phrasing", other)
	}
}

func TestSelfRefine_OnlySimpleSkips(t *testing.T) {
	if s := prompts.SelfRefine(models.ComplexitySimple); s != "" {
		t.Errorf("SelfRefine(simple) = %q, want empty", s)
	}
	for _, c := range []models.Complexity{models.ComplexityModerate, models.ComplexityComplex} {
		if s := prompts.SelfRefine(c); !strings.Contains(s, "Review for completeness") {
			t.Errorf("SelfRefine(%s) missing checklist: %q", c, s)
		}
	}
}
