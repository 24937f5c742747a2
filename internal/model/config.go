package model

import "time"

// Validation granularity modes.
const (
	MethodSentence = "sentence"
	MethodFull     = "full"
)

// Config holds the complete verifier configuration
type Config struct {
	// Topic is the subject the reference corpus is fetched for
	Topic string `yaml:"topic"`

	// ValidationMethod is "sentence" or "full"
	ValidationMethod string `yaml:"validation_method"`

	Wiki  WikiConfig  `yaml:"wiki"`
	Cache CacheConfig `yaml:"cache"`
	Index IndexConfig `yaml:"index"`
	Judge JudgeConfig `yaml:"judge"`
}

// WikiConfig configures the MediaWiki API client
type WikiConfig struct {
	// APIBaseURL is the MediaWiki Action API endpoint
	APIBaseURL string `yaml:"api_base_url"`

	// UserAgent sent on every API request (required by Wikimedia policy)
	UserAgent string `yaml:"user_agent"`

	// Timeout for a single API round trip
	Timeout time.Duration `yaml:"timeout"`

	// MaxBodyBytes caps the response body size
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// RequestsPerSecond and Burst drive the API politeness limiter
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty"`
}

// CacheConfig configures the fetched-page cache
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// IndexConfig configures the passage index
type IndexConfig struct {
	// QdrantHost and QdrantPort locate the Qdrant gRPC endpoint
	QdrantHost string `yaml:"qdrant_host"`
	QdrantPort int    `yaml:"qdrant_port"`

	Embedder EmbedderConfig `yaml:"embedder"`
}

// EmbedderConfig configures the text embedding backend
type EmbedderConfig struct {
	// Provider name: "openai" or "ollama"
	Provider string `yaml:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model"`

	// APIKey for OpenAI
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string `yaml:"base_url,omitempty"`

	// Timeout for embedding requests
	Timeout int `yaml:"timeout"` // seconds
}

// JudgeConfig configures the entailment judge backend
type JudgeConfig struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string `yaml:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model"`

	// APIKey for OpenAI/Anthropic
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string `yaml:"base_url,omitempty"`

	// Timeout for judge requests
	Timeout int `yaml:"timeout"` // seconds

	// MaxTokens for the judge answer (the answer is one word)
	MaxTokens int `yaml:"max_tokens"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ValidationMethod: MethodSentence,
		Wiki: WikiConfig{
			APIBaseURL:        "https://en.wikipedia.org/w/api.php",
			UserAgent:         "Provenance/0.1 (+https://github.com/ppiankov/provenance)",
			Timeout:           30 * time.Second,
			MaxBodyBytes:      4_000_000,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             1 * time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		Index: IndexConfig{
			QdrantHost: "localhost",
			QdrantPort: 6334,
			Embedder: EmbedderConfig{
				Provider: "openai",
				Model:    "", // provider default
				Timeout:  30,
			},
		},
		Judge: JudgeConfig{
			Provider:  "openai",
			Model:     "gpt-3.5-turbo",
			Timeout:   30,
			MaxTokens: 16,
		},
	}
}
