package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/triago/internal/model"
)

// Provider defines the interface for LLM extraction providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Extract converts a free-text scenario note into raw facts
	Extract(ctx context.Context, req ExtractRequest) (*ExtractResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ExtractRequest contains the input for fact extraction
type ExtractRequest struct {
	// Note is the free-text trauma scenario to structure
	Note string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ExtractResponse contains the provider's structured output.
// Facts are NOT validated here - that is the normalizer's job. The
// provider only guarantees the payload was syntactically valid JSON.
type ExtractResponse struct {
	// Facts is the raw extracted map, unvalidated
	Facts model.RawFacts

	// Raw is the verbatim model output, kept for debugging
	Raw string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 500,
	}
}

// systemPrompt instructs the model to emit exactly the extraction
// schema. Field names and enum spellings here are the compatibility
// surface the normalizer consumes - keep them in sync with PatientFacts.
const systemPrompt = `Convert the trauma scenario note into JSON with exactly these fields:
airway (patent|obstructed|compromised|unknown), cspine (yes|no|unknown), tension_ptx (yes|no), open_ptx (yes|no), flail (yes|no), resp_distress (yes|no), sbp (int >=0), ext_bleed (yes|no), pelvic_unstable (yes|no), gcs (3..15), pupils (equal|unequal|unknown), hypothermia (yes|no), burns (yes|no).
Do NOT make recommendations. If a field is not mentioned, choose "unknown" for enums or a reasonable default (sbp=120, gcs=15).
Return ONLY valid JSON; no extra text.`

// BuildPrompt constructs the user prompt for a scenario note
func BuildPrompt(note string) string {
	return fmt.Sprintf("Scenario: %s", note)
}

// ParseFactsJSON parses a model response into raw facts, tolerating the
// code fences chat models like to wrap JSON in
func ParseFactsJSON(text string) (model.RawFacts, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var facts model.RawFacts
	if err := json.Unmarshal([]byte(text), &facts); err != nil {
		return nil, fmt.Errorf("parse extraction JSON: %w", err)
	}
	return facts, nil
}
