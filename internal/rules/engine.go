// Package rules evaluates the fixed primary-survey rule list against one
// validated fact snapshot. Behaviorally this is single-pass forward
// chaining with no conflict resolution and no working-memory mutation:
// the position of a rule in the list alone determines output order, so
// higher-priority survey phases always report before lower ones no
// matter how many conditions are simultaneously true.
package rules

import (
	"fmt"

	"github.com/ppiankov/triago/internal/model"
)

// rule is one (predicate, action, justification) record. Predicates
// only read the snapshot; they never modify it.
type rule struct {
	when    func(f model.PatientFacts) bool
	action  string
	because string
}

func always(model.PatientFacts) bool { return true }

// surveyRules is the fixed, totally ordered rule list, encoding the
// ABCDE sequence. Two records may share a predicate (obstructed airway
// fires both the obstruction and c-spine actions), and the trailing
// disposition pair is mutually exclusive by construction.
var surveyRules = []rule{
	{
		when:    always,
		action:  "PRIMARY SURVEY: Follow ABCDE with life-threats first.",
		because: "ATLS primary survey begins now",
	},

	// A: Airway + C-spine
	{
		when:    func(f model.PatientFacts) bool { return f.Airway == model.AirwayObstructed },
		action:  "A) AIRWAY OBSTRUCTED: Jaw thrust, suction; adjunct; prepare intubation.",
		because: "Obstructed airway threatens oxygenation/ventilation",
	},
	{
		when:    func(f model.PatientFacts) bool { return f.Airway == model.AirwayObstructed },
		action:  "A) C-SPINE: Maintain full cervical spine immobilization.",
		because: "C-spine protection during airway maneuvers",
	},
	{
		when:    func(f model.PatientFacts) bool { return f.Airway == model.AirwayCompromised || f.GCS <= 8 },
		action:  "A) DEFINITIVE AIRWAY: Consider RSI for airway protection (GCS<=8 or compromised).",
		because: "Failure to protect airway or low GCS",
	},
	// Fires independently of the obstructed-airway c-spine record above;
	// both may appear in one plan. The duplication is intentional and
	// matches the authored survey script.
	{
		when:    func(f model.PatientFacts) bool { return f.CSpine == model.RiskYes },
		action:  "A) C-SPINE: Maintain immobilization.",
		because: "Mechanism/assessment suggests cervical spine risk",
	},

	// B: Breathing
	{
		when:    func(f model.PatientFacts) bool { return f.TensionPTX == model.Yes },
		action:  "B) TENSION PNEUMOTHORAX: Immediate needle decompression, then chest tube.",
		because: "Life-threatening ventilatory compromise",
	},
	{
		when:    func(f model.PatientFacts) bool { return f.OpenPTX == model.Yes },
		action:  "B) OPEN PNEUMOTHORAX: 3-sided occlusive dressing; chest tube and definitive closure.",
		because: "Sucking chest wound impairs ventilation",
	},
	{
		when:    func(f model.PatientFacts) bool { return f.Flail == model.Yes || f.RespDistress == model.Yes },
		action:  "B) CHEST INJURY/RESP DISTRESS: O2, analgesia; consider PPV; evaluate for underlying injury.",
		because: "Impaired ventilation requires support",
	},

	// C: Circulation + hemorrhage control
	{
		when:    func(f model.PatientFacts) bool { return f.ExtBleed == model.Yes },
		action:  "C) MASSIVE EXTERNAL HEMORRHAGE: Direct pressure; pressure dressing; tourniquet if needed.",
		because: "Stop external bleeding immediately",
	},
	{
		when:    func(f model.PatientFacts) bool { return f.SBP < 90 },
		action:  "C) SHOCK: 2 large-bore IVs; consider blood products (balanced resuscitation); control bleeding source.",
		because: "SBP<90 suggests shock; resuscitate and control hemorrhage",
	},
	{
		when:    func(f model.PatientFacts) bool { return f.PelvicUnstable == model.Yes },
		action:  "C) PELVIC UNSTABLE: Apply pelvic binder; minimize manipulation; evaluate for pelvic hemorrhage.",
		because: "Pelvic ring injuries bleed significantly",
	},

	// D: Disability (neuro)
	{
		when:    func(f model.PatientFacts) bool { return f.GCS < 13 || f.Pupils == model.PupilsUnequal },
		action:  "D) NEURO: Frequent neuro checks; consider head CT when stable; correct hypoxia/hypotension.",
		because: "Low GCS or unequal pupils suggest possible TBI",
	},

	// E: Exposure
	{
		when:    always,
		action:  "E) EXPOSURE: Fully expose for inspection; then prevent hypothermia.",
		because: "Hidden injuries & thermal protection",
	},
	{
		when:    func(f model.PatientFacts) bool { return f.Hypothermia == model.Yes },
		action:  "E) HYPOTHERMIA: Remove wet clothing; warm blankets; warmed fluids/air.",
		because: "Hypothermia worsens coagulopathy and outcomes",
	},

	// Disposition: at most one of the two fires
	{
		when:    stableForSecondary,
		action:  "SECONDARY SURVEY: Head-to-toe exam & adjuncts once immediate threats addressed.",
		because: "Stable enough to proceed to secondary survey",
	},
	{
		when: func(f model.PatientFacts) bool {
			return !stableForSecondary(f) &&
				(f.SBP < 90 || f.TensionPTX == model.Yes || f.Airway == model.AirwayObstructed)
		},
		action:  "CONSIDER TRANSFER: If resources limited or persistent instability, prepare rapid transfer to trauma center.",
		because: "Persistent life threat or resource needs",
	},
}

// stableForSecondary is the disposition gate: airway controlled or
// controllable, no untreated chest life-threat, not in shock
func stableForSecondary(f model.PatientFacts) bool {
	return (f.Airway == model.AirwayPatent || f.Airway == model.AirwayCompromised) &&
		f.TensionPTX == model.No &&
		f.OpenPTX == model.No &&
		f.SBP >= 90
}

// Evaluate runs the rule list once, in order, against the snapshot and
// returns the ordered action plan. The input must already be normalized;
// an out-of-domain value is a caller bug and fails fast rather than
// producing a wrong plan.
func Evaluate(f model.PatientFacts) ([]model.Action, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("facts violate domain contract: %w", err)
	}

	var actions []model.Action
	for _, r := range surveyRules {
		if r.when(f) {
			actions = append(actions, model.Action{Name: r.action, Because: r.because})
		}
	}
	return actions, nil
}
