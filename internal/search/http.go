package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultCacheSize = 128

	// batchConcurrency bounds the parallel fetches in BatchRetrieve.
	batchConcurrency = 5
)

// Config holds configuration for the HTTP search client.
type Config struct {
	TavilyBaseURL    string
	TavilyAPIKey     string
	FirecrawlBaseURL string
	FirecrawlAPIKey  string
	Timeout          time.Duration
	CacheSize        int
	HTTPClient       *http.Client
}

// HTTPClient implements Client against Tavily-compatible search and
// Firecrawl-compatible scrape endpoints. Identical search queries are
// served from a small LRU cache.
type HTTPClient struct {
	config Config
	cache  *lru.Cache[string, []Result]
}

// NewHTTPClient creates a search client with the given config.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	cache, err := lru.New[string, []Result](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("search: creating cache: %w", err)
	}

	return &HTTPClient{config: cfg, cache: cache}, nil
}

type tavilyRequest struct {
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth,omitempty"`
	IncludeAnswer     bool   `json:"include_answer,omitempty"`
	IncludeImages     bool   `json:"include_images,omitempty"`
	IncludeRawContent bool   `json:"include_raw_content,omitempty"`
	MaxResults        int    `json:"max_results,omitempty"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

func (c *HTTPClient) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	opts = opts.withDefaults()

	key := opts.cacheKey(query)
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	body, err := json.Marshal(tavilyRequest{
		Query:             query,
		SearchDepth:       opts.SearchDepth,
		IncludeAnswer:     opts.IncludeAnswer,
		IncludeImages:     opts.IncludeImages,
		IncludeRawContent: true,
		MaxResults:        opts.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("search: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.TavilyBaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.TavilyAPIKey)

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: unexpected status %d", resp.StatusCode)
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("search: decoding response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, Result{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
	}

	c.cache.Add(key, results)
	return results, nil
}

type firecrawlRequest struct {
	URL         string               `json:"url"`
	PageOptions firecrawlPageOptions `json:"pageOptions"`
	Formats     []string             `json:"formats,omitempty"`
}

type firecrawlPageOptions struct {
	OnlyMainContent bool     `json:"onlyMainContent"`
	Timeout         int      `json:"timeout,omitempty"`
	IncludeTags     []string `json:"includeTags,omitempty"`
	ExcludeTags     []string `json:"excludeTags,omitempty"`
}

type firecrawlResponse struct {
	Data firecrawlData `json:"data"`
}

type firecrawlData struct {
	Content string `json:"content"`
}

func (c *HTTPClient) Retrieve(ctx context.Context, url string, opts ScrapeOptions) (string, error) {
	formats := opts.ContentFormats
	if len(formats) == 0 {
		formats = []string{"markdown"}
	}

	body, err := json.Marshal(firecrawlRequest{
		URL: url,
		PageOptions: firecrawlPageOptions{
			OnlyMainContent: opts.OnlyMainContent,
			Timeout:         opts.TimeoutMillis,
			IncludeTags:     opts.IncludeTags,
			ExcludeTags:     opts.ExcludeTags,
		},
		Formats: formats,
	})
	if err != nil {
		return "", fmt.Errorf("retrieve: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.FirecrawlBaseURL+"/v0/scrape", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("retrieve: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.FirecrawlAPIKey)

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("retrieve: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("retrieve: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("retrieve: unexpected status %d", resp.StatusCode)
	}

	var parsed firecrawlResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("retrieve: decoding response: %w", err)
	}

	return parsed.Data.Content, nil
}

// BatchRetrieve fetches all URLs in parallel (bounded) and returns one
// page per URL in input order. Individual fetch failures degrade to an
// empty page so one bad URL does not sink the batch.
func (c *HTTPClient) BatchRetrieve(ctx context.Context, urls []string, opts ScrapeOptions) ([]Page, error) {
	pages := make([]Page, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, url := range urls {
		g.Go(func() error {
			content, err := c.Retrieve(gctx, url, opts)
			if err != nil {
				slog.Warn("batch retrieve failed for url", "url", url, "error", err)
				content = ""
			}
			pages[i] = Page{URL: url, Content: content}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}
