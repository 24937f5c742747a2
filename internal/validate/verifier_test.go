package validate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/provenance/internal/corpus"
	"github.com/ppiankov/provenance/internal/judge"
	"github.com/ppiankov/provenance/internal/model"
	"github.com/ppiankov/provenance/internal/tokenize"
)

const appleExtract = `Apple Inc. is an American multinational technology company headquartered in Cupertino, California. As of March 2023, Apple is the world's largest technology company by revenue. The company was founded by Steve Jobs, Steve Wozniak and Ronald Wayne in 1976.
== History ==
Apple was incorporated in 1977. The Macintosh was introduced in 1984. The iPhone followed in 2007.`

// fakeResolver returns a scripted document or error
type fakeResolver struct {
	document *model.ReferenceDocument
	err      error
	calls    int
}

func (f *fakeResolver) Resolve(ctx context.Context, topic string) (*model.ReferenceDocument, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.document, nil
}

// fakeIndex records loads and serves queries from the loaded chunks
type fakeIndex struct {
	loaded   map[string][]model.Chunk
	queries  []string
	queryErr error
	loadErr  error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{loaded: map[string][]model.Chunk{}}
}

func (f *fakeIndex) Load(ctx context.Context, namespace string, chunks []model.Chunk) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loaded[namespace] = chunks
	return nil
}

func (f *fakeIndex) Query(ctx context.Context, namespace, text string, k int) ([]string, error) {
	f.queries = append(f.queries, text)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	chunks, ok := f.loaded[namespace]
	if !ok {
		return nil, errors.New("unknown namespace")
	}
	texts := make([]string, 0, k)
	for _, chunk := range chunks {
		if len(texts) == k {
			break
		}
		texts = append(texts, chunk.Text)
	}
	return texts, nil
}

// fakeEvaluator judges a claim supported unless it contains one of the
// fabricated markers
type fakeEvaluator struct {
	fabricated []string
	err        error
	claims     []string
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, claim string, contexts []string) (judge.Verdict, error) {
	f.claims = append(f.claims, claim)
	if f.err != nil {
		return judge.Unsupported, f.err
	}
	for _, marker := range f.fabricated {
		if strings.Contains(claim, marker) {
			return judge.Unsupported, nil
		}
	}
	return judge.Supported, nil
}

func newVerifier(t *testing.T, method string, evaluator *fakeEvaluator) *Verifier {
	t.Helper()

	resolver := &fakeResolver{document: &model.ReferenceDocument{
		Title:   "Apple Inc.",
		Content: appleExtract,
	}}
	v, err := New(context.Background(), "Apple Inc.", method,
		resolver, newFakeIndex(), evaluator, tokenize.NewSentenceSplitter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return v
}

func TestVerifier_SentenceMode_AllSupported(t *testing.T) {
	v := newVerifier(t, model.MethodSentence, &fakeEvaluator{})

	outcome, err := v.Validate(context.Background(),
		"Apple Inc. is an American multinational technology company. It is headquartered in Cupertino.",
		map[string]interface{}{"request_id": "r1"})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if !outcome.Passed {
		t.Errorf("Expected pass, got failure: %s", outcome.ErrorMessage)
	}
	if outcome.FixValue != "" {
		t.Errorf("Passing outcome should carry no fix, got %q", outcome.FixValue)
	}
	if outcome.Metadata["request_id"] != "r1" {
		t.Error("Metadata not passed through")
	}
}

func TestVerifier_SentenceMode_AllUnsupported(t *testing.T) {
	v := newVerifier(t, model.MethodSentence, &fakeEvaluator{fabricated: []string{"Indian", "Mumbai"}})

	outcome, err := v.Validate(context.Background(),
		"Apple Inc. is an Indian oil company headquartered in Mumbai, India.", nil)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if outcome.Passed {
		t.Fatal("Expected failure for a fabricated claim")
	}
	want := "None of the following sentences in the response are supported by the provided context:\n" +
		"- Apple Inc. is an Indian oil company headquartered in Mumbai, India."
	if outcome.ErrorMessage != want {
		t.Errorf("Error message = %q, want %q", outcome.ErrorMessage, want)
	}
	if outcome.FixValue != "" {
		t.Errorf("No sentence is supported, fix should be empty, got %q", outcome.FixValue)
	}
}

func TestVerifier_SentenceMode_PartialSupport(t *testing.T) {
	v := newVerifier(t, model.MethodSentence, &fakeEvaluator{fabricated: []string{"Ratan Tata"}})

	outcome, err := v.Validate(context.Background(),
		"As of March 2023, Apple is the world's largest technology company by revenue. It was founded in October 2001 by Ratan Tata.", nil)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if outcome.Passed {
		t.Fatal("Expected failure when one sentence is fabricated")
	}
	if !strings.Contains(outcome.ErrorMessage, "- It was founded in October 2001 by Ratan Tata.") {
		t.Errorf("Error message does not list the fabricated sentence: %q", outcome.ErrorMessage)
	}
	if strings.Contains(outcome.ErrorMessage, "largest technology company") {
		t.Errorf("Error message lists a supported sentence: %q", outcome.ErrorMessage)
	}
	if outcome.FixValue != "As of March 2023, Apple is the world's largest technology company by revenue." {
		t.Errorf("Fix should keep only the supported sentence, got %q", outcome.FixValue)
	}
}

func TestVerifier_SentenceMode_FixPreservesOrder(t *testing.T) {
	v := newVerifier(t, model.MethodSentence, &fakeEvaluator{fabricated: []string{"Mars"}})

	outcome, err := v.Validate(context.Background(),
		"First supported fact. Apple operates on Mars. Second supported fact. Third supported fact.", nil)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	want := "First supported fact.\nSecond supported fact.\nThird supported fact."
	if outcome.FixValue != want {
		t.Errorf("Fix = %q, want supported sentences in original order %q", outcome.FixValue, want)
	}
}

func TestVerifier_SentenceMode_EmptyValuePasses(t *testing.T) {
	evaluator := &fakeEvaluator{}
	v := newVerifier(t, model.MethodSentence, evaluator)

	outcome, err := v.Validate(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if !outcome.Passed {
		t.Error("Empty value has no sentences to refute, expected pass")
	}
	if len(evaluator.claims) != 0 {
		t.Errorf("Empty value should reach the judge zero times, got %d", len(evaluator.claims))
	}
}

func TestVerifier_SentenceMode_OneJudgeCallPerSentence(t *testing.T) {
	evaluator := &fakeEvaluator{}
	v := newVerifier(t, model.MethodSentence, evaluator)

	if _, err := v.Validate(context.Background(), "One. Two. Three.", nil); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(evaluator.claims) != 3 {
		t.Errorf("Expected 3 judge calls, got %d", len(evaluator.claims))
	}
}

func TestVerifier_FullMode_Supported(t *testing.T) {
	v := newVerifier(t, model.MethodFull, &fakeEvaluator{})

	outcome, err := v.Validate(context.Background(),
		"Apple Inc. is an American technology company.", nil)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !outcome.Passed {
		t.Errorf("Expected pass, got failure: %s", outcome.ErrorMessage)
	}
}

func TestVerifier_FullMode_Unsupported(t *testing.T) {
	evaluator := &fakeEvaluator{fabricated: []string{"Mumbai"}}
	v := newVerifier(t, model.MethodFull, evaluator)

	outcome, err := v.Validate(context.Background(),
		"Apple Inc. is headquartered in Mumbai. It makes phones.", nil)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if outcome.Passed {
		t.Fatal("Expected failure")
	}
	if outcome.ErrorMessage != "The response is not supported by the provided context." {
		t.Errorf("Unexpected error message: %q", outcome.ErrorMessage)
	}
	if outcome.FixValue != "" {
		t.Errorf("Full mode never proposes a fix, got %q", outcome.FixValue)
	}
	if len(evaluator.claims) != 1 {
		t.Errorf("Full mode should judge the value once, got %d calls", len(evaluator.claims))
	}
}

func TestVerifier_JudgeFailureIsAnError(t *testing.T) {
	cause := errors.New("backend down")
	v := newVerifier(t, model.MethodSentence, &fakeEvaluator{err: &judge.UnavailableError{Err: cause}})

	_, err := v.Validate(context.Background(), "Some claim.", nil)

	var unavailable *judge.UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("Expected *judge.UnavailableError, got %v", err)
	}
}

func TestVerifier_RetrievalFailureIsAnError(t *testing.T) {
	resolver := &fakeResolver{document: &model.ReferenceDocument{Title: "Apple Inc.", Content: appleExtract}}
	idx := newFakeIndex()
	v, err := New(context.Background(), "Apple Inc.", model.MethodSentence,
		resolver, idx, &fakeEvaluator{}, tokenize.NewSentenceSplitter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	idx.queryErr = errors.New("qdrant unreachable")
	if _, err := v.Validate(context.Background(), "Some claim.", nil); err == nil {
		t.Fatal("Expected retrieval failure to surface as an error")
	}
}

func TestNew_InvalidMethod(t *testing.T) {
	resolver := &fakeResolver{document: &model.ReferenceDocument{Title: "Apple Inc.", Content: appleExtract}}

	_, err := New(context.Background(), "Apple Inc.", "paragraph",
		resolver, newFakeIndex(), &fakeEvaluator{}, tokenize.NewSentenceSplitter())

	var invalid *InvalidMethodError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected *InvalidMethodError, got %v", err)
	}
	if invalid.Method != "paragraph" {
		t.Errorf("Error carries method %q, want %q", invalid.Method, "paragraph")
	}
	if resolver.calls != 0 {
		t.Error("Invalid method should fail before any corpus resolution")
	}
}

func TestNew_CorpusNotFoundIsFatal(t *testing.T) {
	resolver := &fakeResolver{err: &corpus.NotFoundError{Topic: "Zyxxyzzy"}}

	_, err := New(context.Background(), "Zyxxyzzy", model.MethodSentence,
		resolver, newFakeIndex(), &fakeEvaluator{}, tokenize.NewSentenceSplitter())

	var notFound *corpus.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected *corpus.NotFoundError, got %v", err)
	}
}

func TestNew_IndexesChunkedCorpus(t *testing.T) {
	resolver := &fakeResolver{document: &model.ReferenceDocument{Title: "Apple Inc.", Content: appleExtract}}
	idx := newFakeIndex()

	v, err := New(context.Background(), "Apple Inc.", model.MethodSentence,
		resolver, idx, &fakeEvaluator{}, tokenize.NewSentenceSplitter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	chunks, ok := idx.loaded[v.Namespace()]
	if !ok {
		t.Fatalf("No chunks loaded under namespace %q", v.Namespace())
	}
	if len(chunks) == 0 {
		t.Fatal("Expected the corpus to produce chunks")
	}
	for _, chunk := range chunks {
		if strings.HasPrefix(chunk.Text, "==") {
			t.Errorf("Section heading leaked into the index: %q", chunk.Text)
		}
	}
	if v.Document().Title != "Apple Inc." {
		t.Errorf("Document title = %q", v.Document().Title)
	}
}
