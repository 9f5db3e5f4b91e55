package model

// Case is one reference record in the case base: a full fact snapshot
// plus the plan a clinician authored for it. Cases are loaded once at
// startup and never mutated.
type Case struct {
	ID      int          `json:"id" yaml:"id"`
	Label   string       `json:"label" yaml:"label"`
	Facts   PatientFacts `json:"facts" yaml:",inline"`
	Actions []string     `json:"actions" yaml:"actions"`
}

// Neighbor is one retrieved case with its similarity to the query and
// the per-feature match explanation
type Neighbor struct {
	Similarity float64  `json:"similarity"`           // 1/(1+distance), in (0,1]
	CaseID     int      `json:"case_id"`              //
	Label      string   `json:"label"`                //
	Actions    []string `json:"actions"`              // Stored plan for the case
	Matching   []string `json:"matching"`             // Features that match the query
	Differing  []string `json:"differing,omitempty"`  // Features that differ
}
