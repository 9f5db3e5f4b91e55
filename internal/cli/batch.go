package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ppiankov/triago/internal/pipeline"
	"github.com/ppiankov/triago/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// noCache, noFooter, llm* are defined in triage.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run the tutor on multiple scenario notes in parallel",
	Long: `Batch processes multiple scenario notes concurrently:
- Read notes from input file (one per line, # comments skipped)
- Process notes in parallel with configurable worker count
- Rate-limit LLM calls so batch runs stay within provider quotas
- Generate individual reports for each scenario

Example:
  triago batch scenarios.txt
  triago batch scenarios.txt --concurrency 8 --output-dir ./reports
  triago batch scenarios.txt --llm --llm-provider ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./triago-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Triago Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	// Build configuration
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency

	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Create pipeline
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	// Rate-limit only when an LLM provider is in play
	limiterKey := "local"
	rps := 0.0
	if cfg.LLM.Provider != "" {
		limiterKey = cfg.LLM.Provider
		rps = cfg.RateLimit.RequestsPerSecond
	}

	processor := worker.NewBatchProcessor(p, concurrency, limiterKey, rps, cfg.RateLimit.BurstSize)

	// Process notes
	fmt.Fprintf(os.Stderr, "⚙️  Reading scenario notes from file...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Processed %d scenarios with %d workers\n", len(results), concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	// Process results
	successCount := 0
	failureCount := 0

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", truncateNote(result.Note), result.Error)
			continue
		}

		successCount++

		// Generate output file names from a stable note digest
		slug := noteSlug(result.Note)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", slug, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", slug, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (%d actions, top case %d)\n", truncateNote(result.Note), len(result.Report.Actions), result.Report.Plan.TopCaseID)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d scenarios\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// noteSlug derives a stable, filesystem-safe name for a scenario note
func noteSlug(note string) string {
	hash := sha256.Sum256([]byte(note))
	return "scenario-" + hex.EncodeToString(hash[:6])
}

// truncateNote shortens a note for log lines
func truncateNote(note string) string {
	const max = 60
	if len(note) <= max {
		return note
	}
	return note[:max] + "..."
}
