// Package extract turns free-text trauma scenario notes into raw fact
// maps using local heuristics. It is the no-network fallback for the
// LLM extraction path; output goes through the normalizer like any
// other untrusted input.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/triago/internal/model"
)

// RegexExtractor extracts facts by keyword and pattern matching
type RegexExtractor struct {
	airwayObstructed  *regexp.Regexp
	airwayCompromised *regexp.Regexp
	airwayPatent      *regexp.Regexp
	cspine            *regexp.Regexp
	tensionPTX        *regexp.Regexp
	openPTX           *regexp.Regexp
	flail             *regexp.Regexp
	respDistress      *regexp.Regexp
	sbp               *regexp.Regexp
	bpPair            *regexp.Regexp
	extBleed          *regexp.Regexp
	pelvicUnstable    *regexp.Regexp
	gcs               *regexp.Regexp
	pupilsUnequal     *regexp.Regexp
	hypothermia       *regexp.Regexp
	burns             *regexp.Regexp
}

// NewRegexExtractor creates a new regex extractor with compiled patterns
func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{
		airwayObstructed:  regexp.MustCompile(`\bobstruct(ed|ion)?\b|snoring|gurgling|stridor`),
		airwayCompromised: regexp.MustCompile(`vomit|blood in airway|facial fracture|soot|burn airway`),
		airwayPatent:      regexp.MustCompile(`speaking|answering|talking`),
		cspine:            regexp.MustCompile(`c[-\s]?spine|cervical|midline neck tender|high[-\s]?speed|mvc|mva|fall|dive`),
		tensionPTX:        regexp.MustCompile(`tension pneumo|tension pneumothorax|tracheal deviation|absent (left|right) breath`),
		openPTX:           regexp.MustCompile(`sucking chest wound|open pneumothorax`),
		flail:             regexp.MustCompile(`flail chest|paradoxical (movement|breathing)`),
		respDistress:      regexp.MustCompile(`respiratory distress|increased work of breathing|use of accessory muscles|tachypnea|labored breathing`),
		sbp:               regexp.MustCompile(`\bsbp\s*[:=]?\s*(\d+)`),
		bpPair:            regexp.MustCompile(`\bbp\s*[:=]?\s*(\d+)\s*/`),
		extBleed:          regexp.MustCompile(`external (bleed|hemorrhage)|spurting|pooling blood|amputation`),
		pelvicUnstable:    regexp.MustCompile(`pelvic (instab|unstab|tender|crepitus)|pelvis unstable`),
		gcs:               regexp.MustCompile(`\bgcs\s*[:=]?\s*(\d+)`),
		pupilsUnequal:     regexp.MustCompile(`blown pupil|unequal pupils|anisocoria`),
		hypothermia:       regexp.MustCompile(`hypotherm|cold|temp\s*(3[0-4])`),
		burns:             regexp.MustCompile(`\bburn(s)?\b|inhalation injury`),
	}
}

// Name returns the extractor name
func (e *RegexExtractor) Name() string {
	return "regex"
}

// Extract scans the note for clinical keywords and numeric vitals.
// It deliberately emits the same loosely-typed map an LLM would: no
// validation, defaults for anything not matched.
func (e *RegexExtractor) Extract(note string) model.RawFacts {
	t := strings.ToLower(note)

	yesIf := func(re *regexp.Regexp) string {
		if re.MatchString(t) {
			return "yes"
		}
		return "no"
	}

	airway := "unknown"
	switch {
	case e.airwayObstructed.MatchString(t):
		airway = "obstructed"
	case e.airwayCompromised.MatchString(t):
		airway = "compromised"
	case e.airwayPatent.MatchString(t):
		airway = "patent"
	}

	cspine := "unknown"
	if e.cspine.MatchString(t) {
		cspine = "yes"
	}

	sbp := 120
	if m := e.sbp.FindStringSubmatch(t); m != nil {
		sbp, _ = strconv.Atoi(m[1])
	} else if m := e.bpPair.FindStringSubmatch(t); m != nil {
		// "BP 80/40" - take the systolic half
		sbp, _ = strconv.Atoi(m[1])
	}

	gcs := 15
	if m := e.gcs.FindStringSubmatch(t); m != nil {
		gcs, _ = strconv.Atoi(m[1])
	}

	pupils := "equal"
	if e.pupilsUnequal.MatchString(t) {
		pupils = "unequal"
	}

	return model.RawFacts{
		"airway":          airway,
		"cspine":          cspine,
		"tension_ptx":     yesIf(e.tensionPTX),
		"open_ptx":        yesIf(e.openPTX),
		"flail":           yesIf(e.flail),
		"resp_distress":   yesIf(e.respDistress),
		"sbp":             sbp,
		"ext_bleed":       yesIf(e.extBleed),
		"pelvic_unstable": yesIf(e.pelvicUnstable),
		"gcs":             gcs,
		"pupils":          pupils,
		"hypothermia":     yesIf(e.hypothermia),
		"burns":           yesIf(e.burns),
	}
}
