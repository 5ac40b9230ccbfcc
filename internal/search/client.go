// Package search provides the web search and content retrieval
// collaborator: ranked search via a Tavily-style API and page extraction
// via a Firecrawl-style API.
package search

import (
	"context"
	"fmt"
)

// Result is a single ranked search result.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// Page is extracted content for one URL.
type Page struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Options configures a search request.
type Options struct {
	SearchDepth   string
	MaxResults    int
	IncludeImages bool
	IncludeAnswer bool
}

func (o Options) withDefaults() Options {
	if o.SearchDepth == "" {
		o.SearchDepth = "advanced"
	}
	if o.MaxResults <= 0 {
		o.MaxResults = 10
	}
	return o
}

func (o Options) cacheKey(query string) string {
	return fmt.Sprintf("%s|%s|%d|%t|%t", query, o.SearchDepth, o.MaxResults, o.IncludeImages, o.IncludeAnswer)
}

// ScrapeOptions configures content retrieval.
type ScrapeOptions struct {
	ContentFormats  []string
	OnlyMainContent bool
	TimeoutMillis   int
	IncludeTags     []string
	ExcludeTags     []string
}

// Client is the search/retrieval collaborator interface.
type Client interface {
	Search(ctx context.Context, query string, opts Options) ([]Result, error)
	Retrieve(ctx context.Context, url string, opts ScrapeOptions) (string, error)
	BatchRetrieve(ctx context.Context, urls []string, opts ScrapeOptions) ([]Page, error)
}
