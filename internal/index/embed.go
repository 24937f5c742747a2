package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/provenance/internal/model"
)

// Embedder turns text into a vector for similarity search
type Embedder interface {
	// Name returns the backend name
	Name() string

	// Embed returns the embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder creates an embedding backend based on configuration
func NewEmbedder(cfg model.EmbedderConfig) (Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIEmbedder(cfg)
	case "ollama":
		return NewOllamaEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unknown embedder provider: %s (supported: openai, ollama)", cfg.Provider)
	}
}
