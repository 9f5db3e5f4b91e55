package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/triago/internal/model"
	"github.com/ppiankov/triago/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	outMD       string
	noteFile    string
	factsFile   string
	timeout     time.Duration
	topK        int
	extractMode string
	noCache     bool
	cacheDir    string
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// triageCmd represents the triage command
var triageCmd = &cobra.Command{
	Use:   "triage [note]",
	Short: "Run the primary-survey tutor on a single scenario note",
	Long: `Triage analyzes one trauma scenario to:
- Extract a structured fact snapshot (LLM or local heuristics)
- Derive an ordered action plan from the fixed ABCDE rule sequence
- Retrieve the most similar reference cases (weighted kNN)
- Compare the rule-derived plan against the top case's stored plan

Example:
  triago triage "High-speed MVC. GCS 6. Tracheal deviation left. SBP 80."
  triago triage --file scenario.txt --json report.json --md report.md
  triago triage "Fall from ladder, c-spine tender" --llm --llm-provider openai
  triago triage --facts extracted.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTriage,
}

func init() {
	rootCmd.AddCommand(triageCmd)

	// Input flags
	triageCmd.Flags().StringVar(&noteFile, "file", "", "read the scenario note from a file")
	triageCmd.Flags().StringVar(&factsFile, "facts", "", "skip extraction, read a raw facts JSON map from a file")

	// Output flags
	triageCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	triageCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	triageCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Pipeline flags
	triageCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall run timeout")
	triageCmd.Flags().IntVar(&topK, "top-k", 3, "number of similar cases to retrieve")
	triageCmd.Flags().StringVar(&extractMode, "extract", "auto", "extraction mode (auto, llm, regex)")
	triageCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable extraction cache")
	triageCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist extraction cache to this directory")

	// LLM flags
	triageCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM extraction")
	triageCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	triageCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")
}

func runTriage(cmd *cobra.Command, args []string) error {
	note, err := resolveNote(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Extraction mode: %s\n", cfg.Extract.Mode)
		fmt.Fprintf(os.Stderr, "Top-k: %d\n", cfg.CBR.TopK)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	// Create pipeline
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	var report *model.Report
	if factsFile != "" {
		raw, err := readFactsFile(factsFile)
		if err != nil {
			return err
		}
		report, err = p.Run(raw, note, model.ExtractionMeta{Source: "json"})
		if err != nil {
			return fmt.Errorf("triage failed: %w", err)
		}
	} else {
		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Extracting structured facts...\n")
		}
		report, err = p.Triage(ctx, note)
		if err != nil {
			return fmt.Errorf("triage failed: %w", err)
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Facts extracted via %s\n", report.Extraction.Source)
		fmt.Fprintf(os.Stderr, "✓ Derived %d actions\n", len(report.Actions))
		fmt.Fprintf(os.Stderr, "✓ Retrieved %d similar cases\n", len(report.Neighbors))
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// resolveNote picks the scenario note from the argument or --file
func resolveNote(args []string) (string, error) {
	if noteFile != "" {
		data, err := os.ReadFile(noteFile)
		if err != nil {
			return "", fmt.Errorf("read note file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	if factsFile != "" {
		// A facts file needs no note
		return "", nil
	}
	return "", fmt.Errorf("provide a scenario note as an argument, or use --file / --facts")
}

// readFactsFile reads a pre-extracted raw facts map. The map is not
// validated here: the normalizer repairs whatever it contains.
func readFactsFile(path string) (model.RawFacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read facts file: %w", err)
	}
	var raw model.RawFacts
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse facts file: %w", err)
	}
	return raw, nil
}

// buildConfig assembles the run configuration from defaults and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Extract.Mode = extractMode
	cfg.CBR.TopK = topK
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	// Configure LLM if enabled
	if llmEnabled || extractMode == "llm" {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			baseURL := os.Getenv("OLLAMA_BASE_URL")
			if baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}
