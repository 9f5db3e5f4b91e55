package cbr

import (
	"fmt"
	"math"
	"sort"

	"github.com/ppiankov/triago/internal/model"
)

// Rough normalization scales for the numeric vitals, so that a large
// blood-pressure gap and a large GCS gap contribute comparably
const (
	sbpScale = 40.0
	gcsScale = 15.0
)

// Match windows for explanations only - scoring always uses the exact
// weighted distance
const (
	sbpMatchWindow = 10
	gcsMatchWindow = 2
)

// Retriever computes weighted distances between a query snapshot and
// every case in the base. It is stateless apart from read access to the
// immutable case base and weight table.
type Retriever struct {
	base    *CaseBase
	weights map[string]float64
}

// NewRetriever creates a retriever over the given case base. A nil or
// empty weight map falls back to the documented defaults.
func NewRetriever(base *CaseBase, weights map[string]float64) *Retriever {
	if len(weights) == 0 {
		weights = model.DefaultWeights()
	}
	return &Retriever{base: base, weights: weights}
}

// Distance is the weighted feature distance between query and case:
// normalized absolute differences for the numeric vitals, a flat
// per-feature mismatch penalty for everything else.
func (r *Retriever) Distance(query model.PatientFacts, c model.Case) float64 {
	d := 0.0
	d += r.weights["sbp"] * math.Abs(float64(query.SBP-c.Facts.SBP)) / sbpScale
	d += r.weights["gcs"] * math.Abs(float64(query.GCS-c.Facts.GCS)) / gcsScale

	for _, feature := range model.CategoricalFeatures {
		if query.Feature(feature) != c.Facts.Feature(feature) {
			d += r.weights[feature]
		}
	}
	return d
}

// TopK returns the min(k, N) most similar cases, best first, with
// per-feature match explanations. Similarity is 1/(1+distance), so an
// identical snapshot scores exactly 1.0. Ties keep case-base order
// (stable sort) - the authored ordering is the documented tie-break.
// The query must already be normalized; an out-of-domain value fails
// fast as a contract violation.
func (r *Retriever) TopK(query model.PatientFacts, k int) ([]model.Neighbor, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("query violates domain contract: %w", err)
	}
	if k <= 0 {
		return []model.Neighbor{}, nil
	}

	type scored struct {
		sim float64
		c   model.Case
	}
	ranked := make([]scored, 0, r.base.Len())
	for _, c := range r.base.cases {
		sim := 1.0 / (1.0 + r.Distance(query, c))
		ranked = append(ranked, scored{sim: sim, c: c})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].sim > ranked[j].sim
	})

	if k > len(ranked) {
		k = len(ranked)
	}

	neighbors := make([]model.Neighbor, 0, k)
	for _, s := range ranked[:k] {
		matching, differing := Explain(query, s.c)
		neighbors = append(neighbors, model.Neighbor{
			Similarity: s.sim,
			CaseID:     s.c.ID,
			Label:      s.c.Label,
			Actions:    s.c.Actions,
			Matching:   matching,
			Differing:  differing,
		})
	}
	return neighbors, nil
}

// Explain partitions the features into matching and differing sets for
// display. The numeric vitals count as matching when close (sbp within
// 10 mmHg, gcs within 2 points); categorical features require exact
// equality. Explanations never influence ranking.
func Explain(query model.PatientFacts, c model.Case) (matching, differing []string) {
	if abs(query.SBP-c.Facts.SBP) <= sbpMatchWindow {
		matching = append(matching, "sbp")
	} else {
		differing = append(differing, "sbp")
	}
	if abs(query.GCS-c.Facts.GCS) <= gcsMatchWindow {
		matching = append(matching, "gcs")
	} else {
		differing = append(differing, "gcs")
	}

	for _, feature := range model.CategoricalFeatures {
		if query.Feature(feature) == c.Facts.Feature(feature) {
			matching = append(matching, feature)
		} else {
			differing = append(differing, feature)
		}
	}
	return matching, differing
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
