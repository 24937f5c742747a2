// Package index stores corpus chunks in a similarity-searchable
// structure keyed by a topic-derived namespace.
package index

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// EmptyCorpusError means a query ran against a namespace holding no
// documents. Engine errors (missing collection, unreachable index) are
// surfaced as plain errors instead.
type EmptyCorpusError struct {
	Namespace string
}

func (e *EmptyCorpusError) Error() string {
	return fmt.Sprintf("no passages indexed in namespace %q", e.Namespace)
}

// Namespace derives the stable index namespace for a topic.
// Equal topics always map to the same namespace.
func Namespace(topic string) string {
	sum := sha256.Sum256([]byte(topic))
	return "wiki_" + hex.EncodeToString(sum[:8])
}
