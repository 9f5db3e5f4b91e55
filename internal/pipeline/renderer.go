package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/triago/internal/model"
)

// Renderer writes reports as JSON, Markdown, and a stdout summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderMarkdown writes the report as a human-readable Markdown document
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	b.WriteString("# Trauma Primary Survey Report\n\n")
	b.WriteString("Educational demo - not for clinical use.\n\n")

	if report.Note != "" {
		b.WriteString("## Scenario\n\n")
		b.WriteString("> " + report.Note + "\n\n")
	}

	b.WriteString("## Extracted Facts (normalized)\n\n")
	fmt.Fprintf(&b, "Extraction: %s", report.Extraction.Source)
	if report.Extraction.Provider != "" {
		fmt.Fprintf(&b, " (%s/%s)", report.Extraction.Provider, report.Extraction.Model)
	}
	if report.Extraction.CacheHit {
		b.WriteString(", cached")
	}
	if report.Extraction.Fallback != "" {
		fmt.Fprintf(&b, ", fallback reason: %s", report.Extraction.Fallback)
	}
	b.WriteString("\n\n")

	b.WriteString("| field | value |\n|---|---|\n")
	f := report.Facts
	fmt.Fprintf(&b, "| airway | %s |\n", f.Airway)
	fmt.Fprintf(&b, "| cspine | %s |\n", f.CSpine)
	fmt.Fprintf(&b, "| tension_ptx | %s |\n", f.TensionPTX)
	fmt.Fprintf(&b, "| open_ptx | %s |\n", f.OpenPTX)
	fmt.Fprintf(&b, "| flail | %s |\n", f.Flail)
	fmt.Fprintf(&b, "| resp_distress | %s |\n", f.RespDistress)
	fmt.Fprintf(&b, "| sbp | %d |\n", f.SBP)
	fmt.Fprintf(&b, "| ext_bleed | %s |\n", f.ExtBleed)
	fmt.Fprintf(&b, "| pelvic_unstable | %s |\n", f.PelvicUnstable)
	fmt.Fprintf(&b, "| gcs | %d |\n", f.GCS)
	fmt.Fprintf(&b, "| pupils | %s |\n", f.Pupils)
	fmt.Fprintf(&b, "| hypothermia | %s |\n", f.Hypothermia)
	fmt.Fprintf(&b, "| burns | %s |\n\n", f.Burns)

	b.WriteString("## Rule-Based Recommendations\n\n")
	for i, a := range report.Actions {
		fmt.Fprintf(&b, "%d. **%s**\n   _because: %s_\n", i+1, a.Name, a.Because)
	}
	b.WriteString("\n")

	b.WriteString("## Most Similar Past Cases\n\n")
	if len(report.Neighbors) == 0 {
		b.WriteString("No cases in case base.\n\n")
	}
	for _, n := range report.Neighbors {
		fmt.Fprintf(&b, "### Case %d: %s\n\n", n.CaseID, n.Label)
		fmt.Fprintf(&b, "- Similarity: `%.2f`\n", n.Similarity)
		fmt.Fprintf(&b, "- Stored plan: %s\n", strings.Join(n.Actions, ", "))
		fmt.Fprintf(&b, "- Matching features: %s\n", joinOrNone(n.Matching))
		fmt.Fprintf(&b, "- Differing features: %s\n\n", joinOrNone(n.Differing))
	}

	b.WriteString("## Plan Comparison\n\n")
	if report.Plan.NoOverlap {
		b.WriteString("No literal overlap between the rule-derived plan and the top case's stored plan. ")
		b.WriteString("The plans may still be clinically equivalent despite different wording.\n")
	} else {
		fmt.Fprintf(&b, "Shared with case %d:\n\n", report.Plan.TopCaseID)
		for _, s := range report.Plan.Shared {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	b.WriteString("\n")

	if r.includeFooter {
		b.WriteString("---\n")
		fmt.Fprintf(&b, "Generated by triago at %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderSummary prints a short plan summary to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Println()
	fmt.Println("Rule-based recommendations:")
	for i, a := range report.Actions {
		fmt.Printf("  %d. %s\n", i+1, a.Name)
	}

	fmt.Println()
	fmt.Println("Most similar cases:")
	for _, n := range report.Neighbors {
		fmt.Printf("  [%.2f] case %d: %s\n", n.Similarity, n.CaseID, n.Label)
	}

	fmt.Println()
	if report.Plan.NoOverlap {
		fmt.Println("Plan comparison: no literal overlap with the top case (plans may still be equivalent).")
	} else {
		fmt.Printf("Plan comparison: %d shared action(s) with case %d\n", len(report.Plan.Shared), report.Plan.TopCaseID)
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
