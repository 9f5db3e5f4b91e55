// Package pipeline wires extraction, normalization, rule evaluation,
// case retrieval, and plan comparison into one triage run.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/triago/internal/cache"
	"github.com/ppiankov/triago/internal/cbr"
	"github.com/ppiankov/triago/internal/compare"
	"github.com/ppiankov/triago/internal/extract"
	"github.com/ppiankov/triago/internal/llm"
	"github.com/ppiankov/triago/internal/model"
	"github.com/ppiankov/triago/internal/normalize"
	"github.com/ppiankov/triago/internal/rules"
)

// Pipeline orchestrates the complete triage process. The case base and
// retriever are built once and shared read-only across runs.
type Pipeline struct {
	provider  llm.Provider // Optional LLM extractor (nil if disabled)
	regex     *extract.RegexExtractor
	base      *cbr.CaseBase
	retriever *cbr.Retriever
	cache     cache.Cache // Optional extraction cache (nil if disabled)
	renderer  *Renderer
	config    *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	base, err := cbr.Load()
	if err != nil {
		return nil, fmt.Errorf("load case base: %w", err)
	}

	// Create LLM provider if configured
	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		p, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			provider = p
		}
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			c = cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			c = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		}
	}

	return &Pipeline{
		provider:  provider,
		regex:     extract.NewRegexExtractor(),
		base:      base,
		retriever: cbr.NewRetriever(base, cfg.CBR.Weights),
		cache:     c,
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		config:    cfg,
	}, nil
}

// CaseBase exposes the loaded reference cases (read-only)
func (p *Pipeline) CaseBase() *cbr.CaseBase {
	return p.base
}

// Triage runs the full pipeline on a free-text scenario note
func (p *Pipeline) Triage(ctx context.Context, note string) (*model.Report, error) {
	raw, meta, err := p.extractFacts(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	return p.Run(raw, note, meta)
}

// Run executes the core on an already-extracted raw fact map. The map
// may be arbitrarily malformed; the normalizer repairs it.
func (p *Pipeline) Run(raw model.RawFacts, note string, meta model.ExtractionMeta) (*model.Report, error) {
	facts := normalize.Normalize(raw)

	actions, err := rules.Evaluate(facts)
	if err != nil {
		return nil, fmt.Errorf("evaluate rules: %w", err)
	}

	neighbors, err := p.retriever.TopK(facts, p.config.CBR.TopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve cases: %w", err)
	}

	var plan model.PlanComparison
	if len(neighbors) > 0 {
		plan = compare.Plans(neighbors[0].CaseID, actions, neighbors[0].Actions)
	} else {
		plan = model.PlanComparison{NoOverlap: true}
	}

	return &model.Report{
		Note:        note,
		GeneratedAt: time.Now().UTC(),
		Extraction:  meta,
		Facts:       facts,
		Actions:     actions,
		Neighbors:   neighbors,
		Plan:        plan,
	}, nil
}

// cachedExtraction is the serialized form of a cached LLM result
type cachedExtraction struct {
	Facts    model.RawFacts `json:"facts"`
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
}

// extractFacts resolves the configured extraction mode. In "auto" mode
// any LLM failure falls back to the regex heuristics so a tutoring
// session keeps working without network or credentials.
func (p *Pipeline) extractFacts(ctx context.Context, note string) (model.RawFacts, model.ExtractionMeta, error) {
	mode := p.config.Extract.Mode
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "regex":
		return p.regex.Extract(note), model.ExtractionMeta{Source: "regex"}, nil

	case "llm":
		if p.provider == nil {
			return nil, model.ExtractionMeta{}, fmt.Errorf("extraction mode is llm but no provider is configured")
		}
		return p.extractLLM(ctx, note, false)

	case "auto":
		if p.provider == nil {
			return p.regex.Extract(note), model.ExtractionMeta{Source: "regex"}, nil
		}
		return p.extractLLM(ctx, note, true)

	default:
		return nil, model.ExtractionMeta{}, fmt.Errorf("unknown extraction mode: %s", mode)
	}
}

func (p *Pipeline) extractLLM(ctx context.Context, note string, fallback bool) (model.RawFacts, model.ExtractionMeta, error) {
	key := cache.Key(note)

	if p.cache != nil {
		if data, found := p.cache.Get(key); found {
			var cached cachedExtraction
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached.Facts, model.ExtractionMeta{
					Source:   "llm",
					Provider: cached.Provider,
					Model:    cached.Model,
					CacheHit: true,
				}, nil
			}
			// Corrupt entry, drop it and re-extract
			_ = p.cache.Delete(key)
		}
	}

	resp, err := p.provider.Extract(ctx, llm.ExtractRequest{
		Note:      note,
		Model:     p.config.LLM.Model,
		MaxTokens: p.config.LLM.MaxTokens,
	})
	if err != nil {
		if !fallback {
			return nil, model.ExtractionMeta{}, err
		}
		// The original behavior: a dead provider degrades to the local
		// heuristics with a warning, never a failed run
		fmt.Fprintf(os.Stderr, "Warning: LLM extraction failed, using regex fallback: %v\n", err)
		return p.regex.Extract(note), model.ExtractionMeta{
			Source:   "regex",
			Fallback: err.Error(),
		}, nil
	}

	if p.cache != nil {
		data, err := json.Marshal(cachedExtraction{
			Facts:    resp.Facts,
			Provider: p.provider.Name(),
			Model:    resp.Model,
		})
		if err == nil {
			_ = p.cache.Set(key, data, p.config.Cache.TTL)
		}
	}

	return resp.Facts, model.ExtractionMeta{
		Source:   "llm",
		Provider: p.provider.Name(),
		Model:    resp.Model,
		Tokens:   resp.TokensUsed,
	}, nil
}

// RenderReport renders the report to the specified outputs
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	// Render JSON
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	// Render Markdown
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	// Print summary to stdout
	p.renderer.RenderSummary(report)

	return nil
}
