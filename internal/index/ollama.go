package index

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/ppiankov/provenance/internal/model"
)

// OllamaEmbedder implements the Embedder interface over a local Ollama
// server
type OllamaEmbedder struct {
	client *api.Client
	model  string
}

// NewOllamaEmbedder creates a new Ollama embedding backend
func NewOllamaEmbedder(cfg model.EmbedderConfig) (*OllamaEmbedder, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama base URL: %w", err)
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second // local models can be slower
	}

	embeddingModel := cfg.Model
	if embeddingModel == "" {
		embeddingModel = "nomic-embed-text"
	}

	return &OllamaEmbedder{
		client: api.NewClient(parsed, &http.Client{Timeout: timeout}),
		model:  embeddingModel,
	}, nil
}

// Name returns the backend name
func (e *OllamaEmbedder) Name() string {
	return "ollama"
}

// Embed returns the embedding vector for the given text
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  e.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("Ollama embeddings error: %w", err)
	}

	vector := make([]float32, len(resp.Embedding))
	for i, val := range resp.Embedding {
		vector[i] = float32(val)
	}
	return vector, nil
}
