package llm

import (
	"strings"
	"testing"
)

func TestParseFactsJSON_Plain(t *testing.T) {
	facts, err := ParseFactsJSON(`{"airway": "patent", "sbp": 120, "gcs": 15}`)
	if err != nil {
		t.Fatalf("ParseFactsJSON failed: %v", err)
	}
	if facts["airway"] != "patent" {
		t.Errorf("Expected airway patent, got %v", facts["airway"])
	}
	if facts["sbp"] != float64(120) {
		t.Errorf("Expected sbp 120 as float64, got %v (%T)", facts["sbp"], facts["sbp"])
	}
}

func TestParseFactsJSON_CodeFences(t *testing.T) {
	inputs := []string{
		"```json\n{\"airway\": \"obstructed\"}\n```",
		"```\n{\"airway\": \"obstructed\"}\n```",
		"  {\"airway\": \"obstructed\"}  ",
	}
	for _, in := range inputs {
		facts, err := ParseFactsJSON(in)
		if err != nil {
			t.Errorf("ParseFactsJSON(%q) failed: %v", in, err)
			continue
		}
		if facts["airway"] != "obstructed" {
			t.Errorf("ParseFactsJSON(%q): expected obstructed, got %v", in, facts["airway"])
		}
	}
}

func TestParseFactsJSON_Invalid(t *testing.T) {
	for _, in := range []string{"", "not json", "[1,2,3", "I cannot extract facts from this note."} {
		if _, err := ParseFactsJSON(in); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("GCS 6, SBP 80")
	if !strings.HasPrefix(p, "Scenario: ") {
		t.Errorf("Unexpected prompt prefix: %q", p)
	}
	if !strings.Contains(p, "GCS 6, SBP 80") {
		t.Errorf("Prompt missing the note: %q", p)
	}
}

func TestSystemPrompt_CoversSchema(t *testing.T) {
	// Every wire field must be named in the extraction instructions
	fields := []string{
		"airway", "cspine", "tension_ptx", "open_ptx", "flail", "resp_distress",
		"sbp", "ext_bleed", "pelvic_unstable", "gcs", "pupils", "hypothermia", "burns",
	}
	for _, f := range fields {
		if !strings.Contains(systemPrompt, f) {
			t.Errorf("System prompt does not mention field %q", f)
		}
	}
}
