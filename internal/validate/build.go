package validate

import (
	"context"
	"fmt"

	"github.com/ppiankov/provenance/internal/cache"
	"github.com/ppiankov/provenance/internal/corpus"
	"github.com/ppiankov/provenance/internal/index"
	"github.com/ppiankov/provenance/internal/judge"
	"github.com/ppiankov/provenance/internal/model"
	"github.com/ppiankov/provenance/internal/tokenize"
	"github.com/ppiankov/provenance/internal/wiki"
)

// Name is the registry name of the Wikipedia-backed verifier
const Name = "wiki_provenance"

func init() {
	Register(Name, Build)
}

// Build wires the Wikipedia-backed verifier from configuration: a
// MediaWiki client with an optional page cache, a Qdrant passage index
// with the configured embedder, and the configured judge backend.
// The Qdrant connection lives for the lifetime of the process.
func Build(ctx context.Context, config *model.Config) (*Verifier, error) {
	var pages cache.Cache
	if config.Cache.Enabled {
		pages = cache.NewMemoryCache(config.Cache.TTL, config.Cache.CleanupInterval)
	}
	client := wiki.NewClient(config.Wiki, pages, config.Cache.TTL)
	fetcher := corpus.NewFetcher(client)

	embedder, err := index.NewEmbedder(config.Index.Embedder)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	conn, err := index.Connect(config.Index.QdrantHost, config.Index.QdrantPort)
	if err != nil {
		return nil, err
	}
	store := index.NewStore(conn, embedder)

	provider, err := judge.NewProvider(judge.ConfigFromModel(config.Judge))
	if err != nil {
		return nil, fmt.Errorf("create judge provider: %w", err)
	}

	return New(ctx, config.Topic, config.ValidationMethod,
		fetcher, store, judge.New(provider), tokenize.NewSentenceSplitter())
}
