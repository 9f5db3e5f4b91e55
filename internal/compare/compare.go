// Package compare reports the literal overlap between the rule-derived
// plan and a retrieved case's stored plan.
package compare

import "github.com/ppiankov/triago/internal/model"

// Plans intersects the rule plan's action texts with the case plan by
// exact string equality, preserving rule-plan order. It never fails: an
// empty overlap is a valid outcome (the plans may be clinically
// equivalent with no shared wording) and is flagged, not errored.
func Plans(topCaseID int, ruleActions []model.Action, caseActions []string) model.PlanComparison {
	inCase := make(map[string]bool, len(caseActions))
	for _, a := range caseActions {
		inCase[a] = true
	}

	var shared []string
	seen := make(map[string]bool)
	for _, a := range ruleActions {
		if inCase[a.Name] && !seen[a.Name] {
			seen[a.Name] = true
			shared = append(shared, a.Name)
		}
	}

	return model.PlanComparison{
		TopCaseID: topCaseID,
		Shared:    shared,
		NoOverlap: len(shared) == 0,
	}
}
