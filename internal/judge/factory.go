package judge

import (
	"fmt"
	"strings"
)

// NewProvider creates a judge backend based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown judge provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}
