package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/provenance/internal/cache"
	"github.com/ppiankov/provenance/internal/model"
	"github.com/ppiankov/provenance/internal/util"
)

// PageStatus tags the outcome of a page fetch
type PageStatus int

const (
	// StatusFound means the title resolved to a content page
	StatusFound PageStatus = iota
	// StatusAmbiguous means the title resolved to a disambiguation page
	StatusAmbiguous
	// StatusNotFound means no page exists for the title
	StatusNotFound
)

// FetchResult is the tagged result of fetching a title.
// Exactly one of Page or Options is populated, depending on Status.
type FetchResult struct {
	Status  PageStatus
	Page    *model.ReferenceDocument // set when Status == StatusFound
	Options []string                 // disambiguation candidates, set when Status == StatusAmbiguous
}

// SearchResult is one full-text search hit
type SearchResult struct {
	Title   string // Page title
	Snippet string // Match snippet with markup stripped
}

// Client talks to a MediaWiki Action API endpoint
type Client struct {
	apiURL     string
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *rate.Limiter
	pages      cache.Cache // optional response cache, nil disables
	cacheTTL   time.Duration
}

// NewClient creates a new MediaWiki API client.
// pages may be nil to disable response caching.
func NewClient(cfg model.WikiConfig, pages cache.Cache, cacheTTL time.Duration) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 4_000_000
	}

	return &Client{
		apiURL:     cfg.APIBaseURL,
		httpClient: util.NewHTTPClient(cfg.Timeout, cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		pages:      pages,
		cacheTTL:   cacheTTL,
	}
}

// API response structures (formatversion=2)

type searchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

type pagesResponse struct {
	Query struct {
		Pages []struct {
			Title     string            `json:"title"`
			Missing   bool              `json:"missing"`
			Invalid   bool              `json:"invalid"`
			PageProps map[string]string `json:"pageprops"`
			Extract   string            `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

type parseResponse struct {
	Parse struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	} `json:"parse"`
}

// Search runs a full-text title search and returns up to limit hits
// ordered by relevance
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(limit))
	params.Set("format", "json")
	params.Set("formatversion", "2")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("search %q: decode response: %w", query, err)
	}

	results := make([]SearchResult, 0, len(resp.Query.Search))
	for _, hit := range resp.Query.Search {
		results = append(results, SearchResult{
			Title:   hit.Title,
			Snippet: StripTags(hit.Snippet),
		})
	}
	return results, nil
}

// Fetch retrieves the plain-text extract for an exact title, following
// redirects. Disambiguation and missing pages are reported through the
// result status, not as errors.
func (c *Client) Fetch(ctx context.Context, title string) (*FetchResult, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts|pageprops")
	params.Set("ppprop", "disambiguation")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", title)
	params.Set("format", "json")
	params.Set("formatversion", "2")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", title, err)
	}

	var resp pagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("fetch %q: decode response: %w", title, err)
	}

	if len(resp.Query.Pages) == 0 {
		return &FetchResult{Status: StatusNotFound}, nil
	}

	page := resp.Query.Pages[0]
	if page.Missing || page.Invalid {
		return &FetchResult{Status: StatusNotFound}, nil
	}

	if _, ok := page.PageProps["disambiguation"]; ok {
		options, err := c.disambiguationOptions(ctx, page.Title)
		if err != nil {
			return nil, fmt.Errorf("fetch %q: disambiguation options: %w", title, err)
		}
		return &FetchResult{Status: StatusAmbiguous, Options: options}, nil
	}

	return &FetchResult{
		Status: StatusFound,
		Page: &model.ReferenceDocument{
			Title:   page.Title,
			Content: page.Extract,
		},
	}, nil
}

// disambiguationOptions lists the candidate pages a disambiguation page
// refers to, in page order
func (c *Client) disambiguationOptions(ctx context.Context, title string) ([]string, error) {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", title)
	params.Set("prop", "text")
	params.Set("format", "json")
	params.Set("formatversion", "2")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp parseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode parse response: %w", err)
	}

	return ParseDisambiguation(resp.Parse.Text), nil
}

// get performs one rate-limited API round trip, consulting the page
// cache first
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	requestURL := c.apiURL + "?" + params.Encode()
	key := cache.Key(requestURL)

	if c.pages != nil {
		if body, found := c.pages.Get(key); found {
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if c.pages != nil {
		_ = c.pages.Set(key, body, c.cacheTTL)
	}
	return body, nil
}
