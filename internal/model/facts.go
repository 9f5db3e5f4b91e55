package model

import "fmt"

// RawFacts is the untrusted key/value map handed over by an extraction
// collaborator (LLM output, regex heuristics, or user-supplied JSON).
// Keys may be missing, values may be the wrong type or outside their
// domain. Only normalize.Normalize converts RawFacts into PatientFacts.
type RawFacts map[string]interface{}

// Airway describes the airway status
type Airway string

const (
	AirwayPatent      Airway = "patent"
	AirwayObstructed  Airway = "obstructed"
	AirwayCompromised Airway = "compromised"
	AirwayUnknown     Airway = "unknown"
)

// Risk is a three-valued finding (suspected / excluded / not assessed)
type Risk string

const (
	RiskYes     Risk = "yes"
	RiskNo      Risk = "no"
	RiskUnknown Risk = "unknown"
)

// YesNo is a binary finding, serialized as "yes"/"no" for compatibility
// with the case base and extraction schema
type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

// Pupils describes the pupillary exam
type Pupils string

const (
	PupilsEqual   Pupils = "equal"
	PupilsUnequal Pupils = "unequal"
	PupilsUnknown Pupils = "unknown"
)

// PatientFacts is the validated snapshot of one trauma patient.
// Every value satisfies the field domains below once it has passed
// through normalize.Normalize; downstream components treat an
// out-of-domain value as a contract violation, not recoverable input.
//
// Field names and enum spellings are a compatibility surface shared
// with the extraction prompt and the case base files - do not rename.
type PatientFacts struct {
	Airway         Airway `json:"airway" yaml:"airway"`                   // patent|obstructed|compromised|unknown
	CSpine         Risk   `json:"cspine" yaml:"cspine"`                   // yes|no|unknown
	TensionPTX     YesNo  `json:"tension_ptx" yaml:"tension_ptx"`         // yes|no
	OpenPTX        YesNo  `json:"open_ptx" yaml:"open_ptx"`               // yes|no
	Flail          YesNo  `json:"flail" yaml:"flail"`                     // yes|no
	RespDistress   YesNo  `json:"resp_distress" yaml:"resp_distress"`     // yes|no
	SBP            int    `json:"sbp" yaml:"sbp"`                         // >= 0
	ExtBleed       YesNo  `json:"ext_bleed" yaml:"ext_bleed"`             // yes|no
	PelvicUnstable YesNo  `json:"pelvic_unstable" yaml:"pelvic_unstable"` // yes|no
	GCS            int    `json:"gcs" yaml:"gcs"`                         // 3..15
	Pupils         Pupils `json:"pupils" yaml:"pupils"`                   // equal|unequal|unknown
	Hypothermia    YesNo  `json:"hypothermia" yaml:"hypothermia"`         // yes|no
	Burns          YesNo  `json:"burns" yaml:"burns"`                     // yes|no
}

// CategoricalFeatures lists the non-numeric feature names in case-base
// order, used by the CBR distance and match explanations
var CategoricalFeatures = []string{
	"airway", "cspine", "tension_ptx", "open_ptx", "flail", "resp_distress",
	"ext_bleed", "pelvic_unstable", "hypothermia", "burns", "pupils",
}

// Feature returns the value of a categorical feature by its wire name.
// Panics on an unknown name: callers iterate CategoricalFeatures.
func (f PatientFacts) Feature(name string) string {
	switch name {
	case "airway":
		return string(f.Airway)
	case "cspine":
		return string(f.CSpine)
	case "tension_ptx":
		return string(f.TensionPTX)
	case "open_ptx":
		return string(f.OpenPTX)
	case "flail":
		return string(f.Flail)
	case "resp_distress":
		return string(f.RespDistress)
	case "ext_bleed":
		return string(f.ExtBleed)
	case "pelvic_unstable":
		return string(f.PelvicUnstable)
	case "hypothermia":
		return string(f.Hypothermia)
	case "burns":
		return string(f.Burns)
	case "pupils":
		return string(f.Pupils)
	default:
		panic(fmt.Sprintf("unknown categorical feature: %s", name))
	}
}

// Validate checks every field against its domain. The normalizer is the
// only component that repairs input; everything downstream calls
// Validate to fail fast on a contract violation instead of producing a
// silently wrong recommendation.
func (f PatientFacts) Validate() error {
	switch f.Airway {
	case AirwayPatent, AirwayObstructed, AirwayCompromised, AirwayUnknown:
	default:
		return fmt.Errorf("invalid airway: %q", f.Airway)
	}
	switch f.CSpine {
	case RiskYes, RiskNo, RiskUnknown:
	default:
		return fmt.Errorf("invalid cspine: %q", f.CSpine)
	}
	for _, b := range []struct {
		name  string
		value YesNo
	}{
		{"tension_ptx", f.TensionPTX},
		{"open_ptx", f.OpenPTX},
		{"flail", f.Flail},
		{"resp_distress", f.RespDistress},
		{"ext_bleed", f.ExtBleed},
		{"pelvic_unstable", f.PelvicUnstable},
		{"hypothermia", f.Hypothermia},
		{"burns", f.Burns},
	} {
		if b.value != Yes && b.value != No {
			return fmt.Errorf("invalid %s: %q", b.name, b.value)
		}
	}
	if f.SBP < 0 {
		return fmt.Errorf("invalid sbp: %d", f.SBP)
	}
	if f.GCS < 3 || f.GCS > 15 {
		return fmt.Errorf("invalid gcs: %d", f.GCS)
	}
	switch f.Pupils {
	case PupilsEqual, PupilsUnequal, PupilsUnknown:
	default:
		return fmt.Errorf("invalid pupils: %q", f.Pupils)
	}
	return nil
}
