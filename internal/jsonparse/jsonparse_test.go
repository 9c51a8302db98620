package jsonparse_test

import (
	"errors"
	"testing"

	"github.com/eloquo/eloquo/agent-service/internal/jsonparse"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestExtract_PlainJSON(t *testing.T) {
	var out sample
	if err := jsonparse.Extract(`{"name": "alpha", "count": 3}`, &out); err != nil {
		t.Fatalf("Extract(plain) error: %v", err)
	}
	if out.Name != "alpha" || out.Count != 3 {
		t.Errorf("Extract(plain) = %+v, want {alpha 3}", out)
	}
}

func TestExtract_JSONFence(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"name\": \"beta\", \"count\": 7}\n```\nDone."
	var out sample
	if err := jsonparse.Extract(raw, &out); err != nil {
		t.Fatalf("Extract(json fence) error: %v", err)
	}
	if out.Name != "beta" {
		t.Errorf("Extract(json fence) name = %q, want beta", out.Name)
	}
}

func TestExtract_BareFence(t *testing.T) {
	raw := "```\n{\"name\": \"gamma\", \"count\": 1}\n```"
	var out sample
	if err := jsonparse.Extract(raw, &out); err != nil {
		t.Fatalf("Extract(bare fence) error: %v", err)
	}
	if out.Name != "gamma" {
		t.Errorf("Extract(bare fence) name = %q, want gamma", out.Name)
	}
}

func TestExtract_ProseReturnsDecodeError(t *testing.T) {
	var out sample
	err := jsonparse.Extract("Sorry, I can only answer in prose.", &out)
	if err == nil {
		t.Fatal("Extract(prose) expected error")
	}
	var decodeErr *jsonparse.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Extract(prose) error type = %T, want *DecodeError", err)
	}
	if decodeErr.Raw == "" {
		t.Error("DecodeError.Raw should carry the original output")
	}
}

func TestStripFences_NoFencesTrims(t *testing.T) {
	if got := jsonparse.StripFences("  {\"a\": 1}  "); got != `{"a": 1}` {
		t.Errorf("StripFences(plain) = %q", got)
	}
}
