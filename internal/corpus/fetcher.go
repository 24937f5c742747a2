package corpus

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/provenance/internal/model"
	"github.com/ppiankov/provenance/internal/wiki"
)

// searchLimit is how many candidate titles are considered per topic
const searchLimit = 3

// NotFoundError means no reference document could be resolved for a topic
type NotFoundError struct {
	Topic string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find a reference page for %q: try a more specific topic", e.Topic)
}

// Source is the search-and-fetch surface the fetcher consumes
type Source interface {
	Search(ctx context.Context, query string, limit int) ([]wiki.SearchResult, error)
	Fetch(ctx context.Context, title string) (*wiki.FetchResult, error)
}

// Fetcher resolves a topic name to a reference document
type Fetcher struct {
	source Source

	// Warn receives non-fatal resolution warnings; defaults to stderr
	Warn func(msg string)

	warnings []string
}

// NewFetcher creates a fetcher over the given source
func NewFetcher(source Source) *Fetcher {
	return &Fetcher{
		source: source,
		Warn: func(msg string) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
		},
	}
}

// Resolve finds the reference document for a topic.
//
// Candidates are tried in search rank order: the first fetch that finds
// a page wins. A disambiguation page is resolved to its first option,
// with a single warning recorded. Missing pages advance to the next
// candidate. When every candidate is exhausted the result is a
// *NotFoundError.
func (f *Fetcher) Resolve(ctx context.Context, topic string) (*model.ReferenceDocument, error) {
	hits, err := f.source.Search(ctx, topic, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search corpus for %q: %w", topic, err)
	}

	for _, hit := range hits {
		result, err := f.source.Fetch(ctx, hit.Title)
		if err != nil {
			return nil, fmt.Errorf("fetch %q: %w", hit.Title, err)
		}

		switch result.Status {
		case wiki.StatusFound:
			return result.Page, nil

		case wiki.StatusAmbiguous:
			if len(result.Options) == 0 {
				continue
			}
			choice := result.Options[0]
			f.warn(fmt.Sprintf(
				"resolving ambiguous title %q with the first option: %q; be more specific to pick a different page",
				hit.Title, choice))

			resolved, err := f.source.Fetch(ctx, choice)
			if err != nil {
				return nil, fmt.Errorf("fetch disambiguation option %q: %w", choice, err)
			}
			if resolved.Status != wiki.StatusFound {
				return nil, &NotFoundError{Topic: topic}
			}
			return resolved.Page, nil

		case wiki.StatusNotFound:
			continue
		}
	}

	return nil, &NotFoundError{Topic: topic}
}

// Warnings returns the non-fatal warnings recorded during resolution
func (f *Fetcher) Warnings() []string {
	return f.warnings
}

func (f *Fetcher) warn(msg string) {
	f.warnings = append(f.warnings, msg)
	if f.Warn != nil {
		f.Warn(msg)
	}
}
