// Package validate orchestrates claim verification: it resolves a
// reference corpus for a topic, indexes it, and checks a response
// against it at sentence or full-text granularity.
package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/provenance/internal/corpus"
	"github.com/ppiankov/provenance/internal/index"
	"github.com/ppiankov/provenance/internal/judge"
	"github.com/ppiankov/provenance/internal/model"
	"github.com/ppiankov/provenance/internal/tokenize"
)

// topK is how many passages are retrieved per evaluated claim
const topK = 3

// InvalidMethodError means the validation method is not recognized
type InvalidMethodError struct {
	Method string
}

func (e *InvalidMethodError) Error() string {
	return fmt.Sprintf("validation method %q is not supported: use %q or %q",
		e.Method, model.MethodSentence, model.MethodFull)
}

// CorpusResolver finds the reference document for a topic
type CorpusResolver interface {
	Resolve(ctx context.Context, topic string) (*model.ReferenceDocument, error)
}

// PassageIndex stores corpus chunks and retrieves the most similar ones
type PassageIndex interface {
	Load(ctx context.Context, namespace string, chunks []model.Chunk) error
	Query(ctx context.Context, namespace, text string, k int) ([]string, error)
}

// Evaluator decides whether retrieved contexts support a claim
type Evaluator interface {
	Evaluate(ctx context.Context, claim string, contexts []string) (judge.Verdict, error)
}

// Verifier checks responses against an indexed reference corpus.
// Construction is the expensive step: it fetches, chunks and indexes the
// corpus once; Validate may then be called any number of times.
type Verifier struct {
	method    string
	namespace string
	document  *model.ReferenceDocument
	warnings  []string
	index     PassageIndex
	judge     Evaluator
	tokenizer tokenize.Tokenizer
}

// New builds a verifier for a topic. The reference document is resolved
// and loaded into the index before New returns; any failure there is
// fatal for the verifier.
func New(ctx context.Context, topic, method string, resolver CorpusResolver, idx PassageIndex, evaluator Evaluator, tokenizer tokenize.Tokenizer) (*Verifier, error) {
	if method != model.MethodSentence && method != model.MethodFull {
		return nil, &InvalidMethodError{Method: method}
	}

	document, err := resolver.Resolve(ctx, topic)
	if err != nil {
		return nil, err
	}
	var warnings []string
	if warner, ok := resolver.(interface{ Warnings() []string }); ok {
		warnings = warner.Warnings()
	}

	namespace := index.Namespace(topic)
	chunks := corpus.Split(document.Content)
	if err := idx.Load(ctx, namespace, chunks); err != nil {
		return nil, fmt.Errorf("index corpus for %q: %w", topic, err)
	}

	return &Verifier{
		method:    method,
		namespace: namespace,
		document:  document,
		warnings:  warnings,
		index:     idx,
		judge:     evaluator,
		tokenizer: tokenizer,
	}, nil
}

// Warnings returns non-fatal warnings recorded while resolving the corpus
func (v *Verifier) Warnings() []string {
	return v.warnings
}

// Document returns the resolved reference document
func (v *Verifier) Document() *model.ReferenceDocument {
	return v.document
}

// Namespace returns the index namespace derived from the topic
func (v *Verifier) Namespace() string {
	return v.namespace
}

// Validate checks value against the corpus. A failed Outcome means the
// content is unsupported; infrastructure failures (retrieval, judge)
// surface as errors instead.
func (v *Verifier) Validate(ctx context.Context, value string, metadata map[string]interface{}) (model.Outcome, error) {
	switch v.method {
	case model.MethodSentence:
		return v.validateEachSentence(ctx, value, metadata)
	case model.MethodFull:
		return v.validateFullText(ctx, value, metadata)
	default:
		return model.Outcome{}, &InvalidMethodError{Method: v.method}
	}
}

// validateEachSentence judges every sentence independently: each gets
// its own retrieval and its own verdict, so one unsupported sentence
// never taints its neighbors
func (v *Verifier) validateEachSentence(ctx context.Context, value string, metadata map[string]interface{}) (model.Outcome, error) {
	sentences := v.tokenizer.Segment(value)

	var supported, unsupported []string
	for _, sentence := range sentences {
		verdict, err := v.evaluate(ctx, sentence)
		if err != nil {
			return model.Outcome{}, err
		}
		if verdict == judge.Supported {
			supported = append(supported, sentence)
		} else {
			unsupported = append(unsupported, sentence)
		}
	}

	if len(unsupported) > 0 {
		message := fmt.Sprintf(
			"None of the following sentences in the response are supported by the provided context:\n- %s",
			strings.Join(unsupported, "\n- "))
		return model.Fail(metadata, message, strings.Join(supported, "\n")), nil
	}
	return model.Pass(metadata), nil
}

// validateFullText judges the whole value with a single verdict
func (v *Verifier) validateFullText(ctx context.Context, value string, metadata map[string]interface{}) (model.Outcome, error) {
	verdict, err := v.evaluate(ctx, value)
	if err != nil {
		return model.Outcome{}, err
	}

	if verdict == judge.Unsupported {
		return model.Fail(metadata,
			"The response is not supported by the provided context.", ""), nil
	}
	return model.Pass(metadata), nil
}

// evaluate retrieves the closest passages for a claim and asks the
// judge for a verdict
func (v *Verifier) evaluate(ctx context.Context, claim string) (judge.Verdict, error) {
	contexts, err := v.index.Query(ctx, v.namespace, claim, topK)
	if err != nil {
		return judge.Unsupported, fmt.Errorf("retrieve contexts: %w", err)
	}
	return v.judge.Evaluate(ctx, claim, contexts)
}
