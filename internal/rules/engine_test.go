package rules

import (
	"strings"
	"testing"

	"github.com/ppiankov/triago/internal/model"
)

// stableFacts is a fully normalized snapshot of an uninjured patient.
func stableFacts() model.PatientFacts {
	return model.PatientFacts{
		Airway:         model.AirwayPatent,
		CSpine:         model.RiskNo,
		TensionPTX:     model.No,
		OpenPTX:        model.No,
		Flail:          model.No,
		RespDistress:   model.No,
		SBP:            120,
		ExtBleed:       model.No,
		PelvicUnstable: model.No,
		GCS:            15,
		Pupils:         model.PupilsEqual,
		Hypothermia:    model.No,
		Burns:          model.No,
	}
}

func names(actions []model.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Name
	}
	return out
}

func hasPrefix(actions []model.Action, prefix string) bool {
	for _, a := range actions {
		if strings.HasPrefix(a.Name, prefix) {
			return true
		}
	}
	return false
}

func TestEvaluate_UnstablePolytrauma(t *testing.T) {
	f := stableFacts()
	f.Airway = model.AirwayCompromised
	f.TensionPTX = model.Yes
	f.SBP = 80
	f.GCS = 6
	f.ExtBleed = model.Yes

	actions, err := Evaluate(f)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if !hasPrefix(actions, "A) DEFINITIVE AIRWAY") {
		t.Error("Expected definitive airway action for compromised airway with GCS 6")
	}
	if !hasPrefix(actions, "B) TENSION PNEUMOTHORAX") {
		t.Error("Expected needle decompression action")
	}
	if !hasPrefix(actions, "C) SHOCK") {
		t.Error("Expected shock resuscitation action for SBP 80")
	}
	if !hasPrefix(actions, "C) MASSIVE EXTERNAL HEMORRHAGE") {
		t.Error("Expected hemorrhage control action")
	}
	if !hasPrefix(actions, "D) NEURO") {
		t.Error("Expected neuro action for GCS 6")
	}
	if hasPrefix(actions, "SECONDARY SURVEY") {
		t.Error("Unstable patient must not proceed to secondary survey")
	}
	if !hasPrefix(actions, "CONSIDER TRANSFER") {
		t.Error("Expected transfer consideration for persistent instability")
	}
}

func TestEvaluate_StablePatient(t *testing.T) {
	actions, err := Evaluate(stableFacts())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	want := []string{
		"PRIMARY SURVEY: Follow ABCDE with life-threats first.",
		"E) EXPOSURE: Fully expose for inspection; then prevent hypothermia.",
		"SECONDARY SURVEY: Head-to-toe exam & adjuncts once immediate threats addressed.",
	}
	got := names(actions)
	if len(got) != len(want) {
		t.Fatalf("Expected %d actions for a stable patient, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Action %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestEvaluate_PrimarySurveyAlwaysFirst(t *testing.T) {
	snapshots := []model.PatientFacts{stableFacts()}

	worst := stableFacts()
	worst.Airway = model.AirwayObstructed
	worst.CSpine = model.RiskYes
	worst.TensionPTX = model.Yes
	worst.OpenPTX = model.Yes
	worst.Flail = model.Yes
	worst.SBP = 60
	worst.ExtBleed = model.Yes
	worst.PelvicUnstable = model.Yes
	worst.GCS = 3
	worst.Pupils = model.PupilsUnequal
	worst.Hypothermia = model.Yes
	snapshots = append(snapshots, worst)

	for _, f := range snapshots {
		actions, err := Evaluate(f)
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		if len(actions) == 0 {
			t.Fatal("Expected at least the primary survey action")
		}
		if !strings.HasPrefix(actions[0].Name, "PRIMARY SURVEY") {
			t.Errorf("Expected primary survey first, got %q", actions[0].Name)
		}
	}
}

func TestEvaluate_ExposureOrdering(t *testing.T) {
	f := stableFacts()
	f.Airway = model.AirwayObstructed
	f.TensionPTX = model.Yes
	f.SBP = 70
	f.GCS = 7
	f.Hypothermia = model.Yes

	actions, err := Evaluate(f)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	exposure := -1
	count := 0
	for i, a := range actions {
		if strings.HasPrefix(a.Name, "E) EXPOSURE") {
			exposure = i
			count++
		}
	}
	if count != 1 {
		t.Fatalf("Expected exactly one exposure action, got %d", count)
	}

	for i, a := range actions {
		switch {
		case strings.HasPrefix(a.Name, "A) "), strings.HasPrefix(a.Name, "B) "),
			strings.HasPrefix(a.Name, "C) "), strings.HasPrefix(a.Name, "D) "):
			if i > exposure {
				t.Errorf("ABCD action %q appears after exposure", a.Name)
			}
		case strings.HasPrefix(a.Name, "SECONDARY SURVEY"), strings.HasPrefix(a.Name, "CONSIDER TRANSFER"):
			if i < exposure {
				t.Errorf("Disposition %q appears before exposure", a.Name)
			}
		}
	}
}

func TestEvaluate_DispositionMutuallyExclusive(t *testing.T) {
	// Sweep a grid of snapshots and confirm the two disposition actions
	// never co-occur
	airways := []model.Airway{model.AirwayPatent, model.AirwayCompromised, model.AirwayObstructed, model.AirwayUnknown}
	sbps := []int{60, 89, 90, 120}
	tensions := []model.YesNo{model.Yes, model.No}

	for _, aw := range airways {
		for _, sbp := range sbps {
			for _, tp := range tensions {
				f := stableFacts()
				f.Airway = aw
				f.SBP = sbp
				f.TensionPTX = tp

				actions, err := Evaluate(f)
				if err != nil {
					t.Fatalf("Evaluate failed: %v", err)
				}
				if hasPrefix(actions, "SECONDARY SURVEY") && hasPrefix(actions, "CONSIDER TRANSFER") {
					t.Errorf("Both dispositions fired for airway=%s sbp=%d tension=%s", aw, sbp, tp)
				}
			}
		}
	}
}

func TestEvaluate_ObstructedAirwayWithCSpineRisk(t *testing.T) {
	f := stableFacts()
	f.Airway = model.AirwayObstructed
	f.CSpine = model.RiskYes

	actions, err := Evaluate(f)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	// Both c-spine actions appear: one bound to the airway maneuver, one
	// to the assessed risk
	cspine := 0
	for _, a := range actions {
		if strings.HasPrefix(a.Name, "A) C-SPINE") {
			cspine++
		}
	}
	if cspine != 2 {
		t.Errorf("Expected 2 c-spine actions, got %d: %v", cspine, names(actions))
	}
}

func TestEvaluate_LowGCSTriggersAirwayAndNeuro(t *testing.T) {
	f := stableFacts()
	f.GCS = 8

	actions, err := Evaluate(f)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if !hasPrefix(actions, "A) DEFINITIVE AIRWAY") {
		t.Error("Expected definitive airway action at GCS 8")
	}
	if !hasPrefix(actions, "D) NEURO") {
		t.Error("Expected neuro action at GCS 8")
	}
	// GCS 8 with a patent airway and normal vitals still gates through to
	// the secondary survey
	if !hasPrefix(actions, "SECONDARY SURVEY") {
		t.Error("Expected secondary survey for otherwise stable patient")
	}
}

func TestEvaluate_InvalidFactsFailFast(t *testing.T) {
	f := stableFacts()
	f.Airway = "gibberish"

	if _, err := Evaluate(f); err == nil {
		t.Error("Expected error for out-of-domain airway value")
	}

	f = stableFacts()
	f.GCS = 20
	if _, err := Evaluate(f); err == nil {
		t.Error("Expected error for out-of-range GCS")
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	f := stableFacts()
	f.TensionPTX = model.Yes
	f.SBP = 80

	first, err := Evaluate(f)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Evaluate(f)
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("Plan length changed between runs: %d vs %d", len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("Plan differs at %d: %+v vs %+v", j, again[j], first[j])
			}
		}
	}
}
