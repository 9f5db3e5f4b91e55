package model

import "time"

// Report is the complete output of one triage run: the normalized fact
// snapshot, the rule-derived plan, the retrieved neighbors, and the
// comparison between the two plans.
type Report struct {
	Note        string    `json:"note"`         // The scenario note that was analyzed
	GeneratedAt time.Time `json:"generated_at"` // When the run completed

	Extraction ExtractionMeta `json:"extraction"` // How RawFacts were obtained

	Facts     PatientFacts   `json:"facts"`     // Normalized snapshot (audit surface)
	Actions   []Action       `json:"actions"`   // Ordered rule-derived plan
	Neighbors []Neighbor     `json:"neighbors"` // Top-k similar cases, best first
	Plan      PlanComparison `json:"plan_comparison"`
}

// Action is one recommended step with its justification. Order across
// a run is significant: earlier actions belong to earlier survey phases.
type Action struct {
	Name    string `json:"name"`    // What to do
	Because string `json:"because"` // Why the rule fired
}

// ExtractionMeta records which collaborator produced the raw facts
type ExtractionMeta struct {
	Source   string `json:"source"`              // "llm", "regex", or "json"
	Provider string `json:"provider,omitempty"`  // LLM provider name if source is "llm"
	Model    string `json:"model,omitempty"`     // Model that did the extraction
	Tokens   int    `json:"tokens,omitempty"`    // Token consumption
	CacheHit bool   `json:"cache_hit,omitempty"` // Served from extraction cache
	Fallback string `json:"fallback,omitempty"`  // Why the LLM path was abandoned, if it was
}

// PlanComparison is the literal overlap between the rule-derived plan
// and the top neighbor's stored plan. An empty overlap is informational,
// not an error: the plans may be clinically equivalent with no shared
// wording.
type PlanComparison struct {
	TopCaseID int      `json:"top_case_id,omitempty"`
	Shared    []string `json:"shared"`     // Action texts present in both plans
	NoOverlap bool     `json:"no_overlap"` // True when Shared is empty
}
