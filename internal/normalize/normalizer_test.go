package normalize

import (
	"testing"

	"github.com/ppiankov/triago/internal/model"
)

func TestNormalize_EmptyInput(t *testing.T) {
	f := Normalize(model.RawFacts{})

	if err := f.Validate(); err != nil {
		t.Fatalf("Expected valid facts from empty input, got %v", err)
	}

	if f.Airway != model.AirwayUnknown {
		t.Errorf("Expected airway unknown, got %s", f.Airway)
	}
	if f.CSpine != model.RiskUnknown {
		t.Errorf("Expected cspine unknown, got %s", f.CSpine)
	}
	if f.TensionPTX != model.No {
		t.Errorf("Expected tension_ptx no, got %s", f.TensionPTX)
	}
	if f.SBP != 120 {
		t.Errorf("Expected default sbp 120, got %d", f.SBP)
	}
	if f.GCS != 15 {
		t.Errorf("Expected default gcs 15, got %d", f.GCS)
	}
	if f.Pupils != model.PupilsUnknown {
		t.Errorf("Expected pupils unknown, got %s", f.Pupils)
	}
}

func TestNormalize_ValidInputPassesThrough(t *testing.T) {
	raw := model.RawFacts{
		"airway":          "obstructed",
		"cspine":          "yes",
		"tension_ptx":     "yes",
		"open_ptx":        "no",
		"flail":           "no",
		"resp_distress":   "yes",
		"sbp":             80,
		"ext_bleed":       "yes",
		"pelvic_unstable": "yes",
		"gcs":             6,
		"pupils":          "unequal",
		"hypothermia":     "no",
		"burns":           "no",
	}

	f := Normalize(raw)

	if f.Airway != model.AirwayObstructed {
		t.Errorf("Expected airway obstructed, got %s", f.Airway)
	}
	if f.CSpine != model.RiskYes {
		t.Errorf("Expected cspine yes, got %s", f.CSpine)
	}
	if f.SBP != 80 {
		t.Errorf("Expected sbp 80, got %d", f.SBP)
	}
	if f.GCS != 6 {
		t.Errorf("Expected gcs 6, got %d", f.GCS)
	}
	if f.Pupils != model.PupilsUnequal {
		t.Errorf("Expected pupils unequal, got %s", f.Pupils)
	}
}

func TestNormalize_AdversarialValues(t *testing.T) {
	tests := []struct {
		name string
		raw  model.RawFacts
	}{
		{"wrong types everywhere", model.RawFacts{
			"airway": 42, "cspine": []string{"yes"}, "tension_ptx": true,
			"sbp": "not a number", "gcs": map[string]int{"a": 1}, "pupils": 3.14,
		}},
		{"out-of-enum strings", model.RawFacts{
			"airway": "wide open", "cspine": "maybe", "tension_ptx": "probably",
			"pupils": "dilated",
		}},
		{"null-like values", model.RawFacts{
			"airway": nil, "sbp": nil, "gcs": nil, "burns": nil,
		}},
		{"extra keys ignored", model.RawFacts{
			"heart_rate": 130, "notes": "unrelated",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Normalize(tt.raw)
			if err := f.Validate(); err != nil {
				t.Errorf("Expected valid facts, got %v", err)
			}
		})
	}
}

func TestNormalize_NumericCoercion(t *testing.T) {
	tests := []struct {
		name    string
		raw     model.RawFacts
		wantSBP int
		wantGCS int
	}{
		{"json float64", model.RawFacts{"sbp": float64(85), "gcs": float64(7)}, 85, 7},
		{"numeric string", model.RawFacts{"sbp": "90", "gcs": "10"}, 90, 10},
		{"zero is falsy", model.RawFacts{"sbp": 0, "gcs": 0}, 120, 15},
		{"negative sbp clamped", model.RawFacts{"sbp": -20, "gcs": 12}, 0, 12},
		{"gcs clamped low", model.RawFacts{"gcs": 1}, 120, 3},
		{"gcs clamped high", model.RawFacts{"gcs": 40}, 120, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Normalize(tt.raw)
			if f.SBP != tt.wantSBP {
				t.Errorf("Expected sbp %d, got %d", tt.wantSBP, f.SBP)
			}
			if f.GCS != tt.wantGCS {
				t.Errorf("Expected gcs %d, got %d", tt.wantGCS, f.GCS)
			}
		})
	}
}

func TestNormalize_DerivedAirwayRule(t *testing.T) {
	// Unknown airway with deeply depressed consciousness becomes compromised
	f := Normalize(model.RawFacts{"gcs": 6})
	if f.Airway != model.AirwayCompromised {
		t.Errorf("Expected derived airway compromised, got %s", f.Airway)
	}

	// Invalid airway value plus low GCS also triggers the rule
	f = Normalize(model.RawFacts{"airway": "???", "gcs": 3})
	if f.Airway != model.AirwayCompromised {
		t.Errorf("Expected derived airway compromised for invalid airway, got %s", f.Airway)
	}

	// GCS above the threshold leaves airway unknown
	f = Normalize(model.RawFacts{"gcs": 9})
	if f.Airway != model.AirwayUnknown {
		t.Errorf("Expected airway unknown at gcs 9, got %s", f.Airway)
	}

	// An explicit airway finding is never overridden
	f = Normalize(model.RawFacts{"airway": "patent", "gcs": 6})
	if f.Airway != model.AirwayPatent {
		t.Errorf("Expected explicit airway kept, got %s", f.Airway)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []model.RawFacts{
		{},
		{"airway": "obstructed", "sbp": 80, "gcs": 6},
		{"gcs": 4}, // triggers the derived airway rule
		{"airway": 99, "cspine": nil, "sbp": "x", "pupils": "weird"},
	}

	for _, raw := range inputs {
		once := Normalize(raw)

		// Re-feed the normalized output as a raw map
		again := Normalize(model.RawFacts{
			"airway":          string(once.Airway),
			"cspine":          string(once.CSpine),
			"tension_ptx":     string(once.TensionPTX),
			"open_ptx":        string(once.OpenPTX),
			"flail":           string(once.Flail),
			"resp_distress":   string(once.RespDistress),
			"sbp":             once.SBP,
			"ext_bleed":       string(once.ExtBleed),
			"pelvic_unstable": string(once.PelvicUnstable),
			"gcs":             once.GCS,
			"pupils":          string(once.Pupils),
			"hypothermia":     string(once.Hypothermia),
			"burns":           string(once.Burns),
		})

		if again != once {
			t.Errorf("Normalize not idempotent: first %+v, second %+v", once, again)
		}
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := model.RawFacts{"airway": "compromised", "sbp": 80, "gcs": 6, "tension_ptx": "yes"}

	first := Normalize(raw)
	for i := 0; i < 10; i++ {
		if got := Normalize(raw); got != first {
			t.Fatalf("Normalize not deterministic: %+v vs %+v", got, first)
		}
	}
}
