package model

import "testing"

func validFacts() PatientFacts {
	return PatientFacts{
		Airway: AirwayPatent, CSpine: RiskNo,
		TensionPTX: No, OpenPTX: No, Flail: No, RespDistress: No,
		SBP: 120, ExtBleed: No, PelvicUnstable: No,
		GCS: 15, Pupils: PupilsEqual, Hypothermia: No, Burns: No,
	}
}

func TestValidate(t *testing.T) {
	if err := validFacts().Validate(); err != nil {
		t.Fatalf("Expected valid facts, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*PatientFacts)
	}{
		{"bad airway", func(f *PatientFacts) { f.Airway = "sideways" }},
		{"bad cspine", func(f *PatientFacts) { f.CSpine = "maybe" }},
		{"bad binary", func(f *PatientFacts) { f.TensionPTX = "perhaps" }},
		{"empty binary", func(f *PatientFacts) { f.Burns = "" }},
		{"negative sbp", func(f *PatientFacts) { f.SBP = -1 }},
		{"gcs too low", func(f *PatientFacts) { f.GCS = 2 }},
		{"gcs too high", func(f *PatientFacts) { f.GCS = 16 }},
		{"bad pupils", func(f *PatientFacts) { f.Pupils = "dilated" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFacts()
			tt.mutate(&f)
			if err := f.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestFeature_CoversAllCategoricals(t *testing.T) {
	f := validFacts()
	for _, name := range CategoricalFeatures {
		if f.Feature(name) == "" {
			t.Errorf("Feature(%q) returned empty value", name)
		}
	}
}

func TestFeature_UnknownNamePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for unknown feature name")
		}
	}()
	_ = validFacts().Feature("heart_rate")
}
