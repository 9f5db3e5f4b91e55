// Package normalize is the single sanitation boundary between untrusted
// extraction output and the validated PatientFacts record. Nothing
// downstream re-validates input.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ppiankov/triago/internal/model"
)

const (
	defaultSBP = 120
	defaultGCS = 15

	minGCS = 3
	maxGCS = 15
)

// Normalize repairs an arbitrary raw map into a valid PatientFacts.
// It is total (never fails), deterministic, and idempotent: fields that
// are present and in-domain pass through unchanged, everything else gets
// its documented default. After all fields are resolved, one derived
// rule runs: an unknown airway with GCS <= 8 becomes compromised, the
// ATLS heuristic that deep unconsciousness implies airway compromise.
func Normalize(raw model.RawFacts) model.PatientFacts {
	f := model.PatientFacts{
		Airway:         model.Airway(pickEnum(raw, "airway", airwayValues, string(model.AirwayUnknown))),
		CSpine:         model.Risk(pickEnum(raw, "cspine", riskValues, string(model.RiskUnknown))),
		TensionPTX:     pickYesNo(raw, "tension_ptx"),
		OpenPTX:        pickYesNo(raw, "open_ptx"),
		Flail:          pickYesNo(raw, "flail"),
		RespDistress:   pickYesNo(raw, "resp_distress"),
		SBP:            clampMin(pickInt(raw, "sbp", defaultSBP), 0),
		ExtBleed:       pickYesNo(raw, "ext_bleed"),
		PelvicUnstable: pickYesNo(raw, "pelvic_unstable"),
		GCS:            clamp(pickInt(raw, "gcs", defaultGCS), minGCS, maxGCS),
		Pupils:         model.Pupils(pickEnum(raw, "pupils", pupilsValues, string(model.PupilsUnknown))),
		Hypothermia:    pickYesNo(raw, "hypothermia"),
		Burns:          pickYesNo(raw, "burns"),
	}

	// Derived rule, applied exactly once after field resolution. It
	// cannot re-trigger on its own output: airway is no longer unknown.
	if f.Airway == model.AirwayUnknown && f.GCS <= 8 {
		f.Airway = model.AirwayCompromised
	}

	return f
}

var (
	airwayValues = []string{"patent", "obstructed", "compromised", "unknown"}
	riskValues   = []string{"yes", "no", "unknown"}
	yesNoValues  = []string{"yes", "no"}
	pupilsValues = []string{"equal", "unequal", "unknown"}
)

// pickEnum keeps raw[key] if it is a string in the allowed set,
// otherwise returns the default
func pickEnum(raw model.RawFacts, key string, allowed []string, def string) string {
	v, ok := raw[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	return def
}

func pickYesNo(raw model.RawFacts, key string) model.YesNo {
	return model.YesNo(pickEnum(raw, key, yesNoValues, string(model.No)))
}

// pickInt reads raw[key] as an integer, tolerating the types JSON
// decoding and LLM output actually produce (float64, json.Number,
// numeric strings). Missing, non-numeric, and zero values all yield
// the default, matching the extraction schema's "reasonable default"
// contract.
func pickInt(raw model.RawFacts, key string, def int) int {
	v, ok := raw[key]
	if !ok {
		return def
	}
	n, ok := toInt(v)
	if !ok || n == 0 {
		return def
	}
	return n
}

func toInt(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case float32:
		return int(x), true
	case float64:
		return int(x), true
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			f, ferr := x.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func clampMin(n, lo int) int {
	if n < lo {
		return lo
	}
	return n
}
