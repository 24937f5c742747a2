package corpus

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/provenance/internal/model"
	"github.com/ppiankov/provenance/internal/wiki"
)

// fakeSource scripts search hits and per-title fetch results
type fakeSource struct {
	hits    []wiki.SearchResult
	pages   map[string]*wiki.FetchResult
	fetched []string
	err     error
}

func (s *fakeSource) Search(ctx context.Context, query string, limit int) ([]wiki.SearchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.hits) > limit {
		return s.hits[:limit], nil
	}
	return s.hits, nil
}

func (s *fakeSource) Fetch(ctx context.Context, title string) (*wiki.FetchResult, error) {
	s.fetched = append(s.fetched, title)
	if result, ok := s.pages[title]; ok {
		return result, nil
	}
	return &wiki.FetchResult{Status: wiki.StatusNotFound}, nil
}

func found(title, content string) *wiki.FetchResult {
	return &wiki.FetchResult{
		Status: wiki.StatusFound,
		Page:   &model.ReferenceDocument{Title: title, Content: content},
	}
}

func TestFetcher_Resolve_FirstHitWins(t *testing.T) {
	source := &fakeSource{
		hits: []wiki.SearchResult{{Title: "Apple Inc."}, {Title: "Apple"}},
		pages: map[string]*wiki.FetchResult{
			"Apple Inc.": found("Apple Inc.", "Apple Inc. is a company."),
			"Apple":      found("Apple", "An apple is a fruit."),
		},
	}

	fetcher := NewFetcher(source)
	fetcher.Warn = nil

	doc, err := fetcher.Resolve(context.Background(), "Apple company")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if doc.Title != "Apple Inc." {
		t.Errorf("Expected Apple Inc., got %s", doc.Title)
	}
	if len(source.fetched) != 1 {
		t.Errorf("Expected a single fetch, got %v", source.fetched)
	}
	if len(fetcher.Warnings()) != 0 {
		t.Errorf("Expected no warnings, got %v", fetcher.Warnings())
	}
}

func TestFetcher_Resolve_SkipsMissingCandidates(t *testing.T) {
	source := &fakeSource{
		hits: []wiki.SearchResult{{Title: "Gone"}, {Title: "Also gone"}, {Title: "Here"}},
		pages: map[string]*wiki.FetchResult{
			"Here": found("Here", "Content."),
		},
	}

	fetcher := NewFetcher(source)
	fetcher.Warn = nil

	doc, err := fetcher.Resolve(context.Background(), "something")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if doc.Title != "Here" {
		t.Errorf("Expected Here, got %s", doc.Title)
	}
	if len(source.fetched) != 3 {
		t.Errorf("Expected 3 fetches, got %v", source.fetched)
	}
}

func TestFetcher_Resolve_DisambiguationFirstOption(t *testing.T) {
	source := &fakeSource{
		hits: []wiki.SearchResult{{Title: "Mercury"}},
		pages: map[string]*wiki.FetchResult{
			"Mercury": {
				Status:  wiki.StatusAmbiguous,
				Options: []string{"Mercury (planet)", "Mercury (element)"},
			},
			"Mercury (planet)": found("Mercury (planet)", "Mercury is the smallest planet."),
		},
	}

	fetcher := NewFetcher(source)
	fetcher.Warn = nil

	doc, err := fetcher.Resolve(context.Background(), "Mercury")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if doc.Title != "Mercury (planet)" {
		t.Errorf("Expected the first disambiguation option, got %s", doc.Title)
	}

	warnings := fetcher.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("Expected exactly one warning, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "Mercury (planet)") {
		t.Errorf("Warning does not name the chosen option: %q", warnings[0])
	}
}

func TestFetcher_Resolve_NotFound(t *testing.T) {
	source := &fakeSource{
		hits: []wiki.SearchResult{{Title: "A"}, {Title: "B"}},
	}

	fetcher := NewFetcher(source)
	fetcher.Warn = nil

	_, err := fetcher.Resolve(context.Background(), "gibberish xyzzy")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected *NotFoundError, got %v", err)
	}
	if notFound.Topic != "gibberish xyzzy" {
		t.Errorf("Error does not carry the topic: %+v", notFound)
	}
}

func TestFetcher_Resolve_NoSearchHits(t *testing.T) {
	fetcher := NewFetcher(&fakeSource{})
	fetcher.Warn = nil

	_, err := fetcher.Resolve(context.Background(), "nothing")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected *NotFoundError, got %v", err)
	}
}

func TestFetcher_Resolve_SearchError(t *testing.T) {
	fetcher := NewFetcher(&fakeSource{err: errors.New("api down")})
	fetcher.Warn = nil

	_, err := fetcher.Resolve(context.Background(), "anything")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		t.Error("Search failure must not be reported as NotFoundError")
	}
}
