package validate

import (
	"context"
	"fmt"
	"sync"

	"github.com/ppiankov/provenance/internal/model"
)

// Factory builds a fully wired verifier from configuration
type Factory func(ctx context.Context, config *model.Config) (*Verifier, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a verifier factory available under a name.
// Registering the same name twice replaces the earlier factory.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// NewByName builds a verifier through the factory registered under name
func NewByName(ctx context.Context, name string, config *model.Config) (*Verifier, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown validator: %s", name)
	}
	return factory(ctx, config)
}
