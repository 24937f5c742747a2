package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/provenance/internal/model"
)

func TestRegistry_NewByName_UnknownValidator(t *testing.T) {
	_, err := NewByName(context.Background(), "no_such_validator", model.DefaultConfig())
	if err == nil {
		t.Fatal("Expected error for unknown validator name")
	}
}

func TestRegistry_RegisteredFactoryIsInvoked(t *testing.T) {
	sentinel := errors.New("factory invoked")
	Register("registry_test_validator", func(ctx context.Context, config *model.Config) (*Verifier, error) {
		return nil, sentinel
	})

	_, err := NewByName(context.Background(), "registry_test_validator", model.DefaultConfig())
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected the registered factory to run, got %v", err)
	}
}

func TestRegistry_WikiProvenanceIsRegistered(t *testing.T) {
	registryMu.RLock()
	_, ok := registry[Name]
	registryMu.RUnlock()

	if !ok {
		t.Fatalf("Validator %q is not registered", Name)
	}
}
