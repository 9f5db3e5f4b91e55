package model

import "time"

// Config is the complete triago configuration
type Config struct {
	Extract     ExtractConfig     `yaml:"extract"`
	LLM         LLMConfig         `yaml:"llm"`
	CBR         CBRConfig         `yaml:"cbr"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Output      OutputConfig      `yaml:"output"`
}

// ExtractConfig controls how scenario notes become raw facts
type ExtractConfig struct {
	// Mode selects the extraction path:
	//   "auto"  - LLM first, regex heuristics on any provider failure
	//   "llm"   - LLM only, fail if the provider fails
	//   "regex" - local heuristics only, no network
	Mode string `yaml:"mode"`
}

// LLMConfig holds LLM provider settings for extraction
type LLMConfig struct {
	Provider  string `yaml:"provider"`   // openai, anthropic, ollama, "" (disabled)
	Model     string `yaml:"model"`      // Provider-specific model name
	APIKey    string `yaml:"-"`          // From env only, never persisted
	BaseURL   string `yaml:"base_url"`   // Custom endpoint (e.g. Ollama)
	Timeout   int    `yaml:"timeout"`    // Seconds per API call
	MaxTokens int    `yaml:"max_tokens"` //

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy"`
}

// CBRConfig holds case retrieval settings.
//
// Weights are a configuration surface, not an invariant: they may be
// tuned per deployment but must stay stable within one. The defaults
// weight the life-threat discriminators (tension_ptx, open_ptx,
// ext_bleed) highest.
type CBRConfig struct {
	TopK    int                `yaml:"top_k"`   // Neighbors to retrieve
	Weights map[string]float64 `yaml:"weights"` // Per-feature distance weights
}

// CacheConfig controls the extraction cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"` // Disk cache directory ("" = memory only)
	TTL     time.Duration `yaml:"ttl"`
}

// ConcurrencyConfig controls batch processing parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// RateLimitConfig throttles LLM API calls during batch runs
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultWeights returns the documented per-feature distance weights
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"airway":          2.0,
		"cspine":          0.5,
		"tension_ptx":     3.0,
		"open_ptx":        3.0,
		"flail":           1.5,
		"resp_distress":   1.5,
		"ext_bleed":       3.0,
		"pelvic_unstable": 2.0,
		"hypothermia":     1.0,
		"burns":           1.0,
		"pupils":          1.0,
		"sbp":             1.0,
		"gcs":             1.0,
	}
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			Mode: "auto",
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   30,
			MaxTokens: 500,
		},
		CBR: CBRConfig{
			TopK:    3,
			Weights: DefaultWeights(),
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2.0,
			BurstSize:         5,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
