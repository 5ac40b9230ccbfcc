package agent

// CapabilityExternalPrefix marks capabilities backed by an externally
// registered MCP tool. Their id is "mcp_<serverID>_<toolName>" and their
// config carries the routing fields serverId and toolName.
const CapabilityExternalPrefix = "mcp_"

// Catalog returns the built-in capabilities with their default configs.
// Enabled is false everywhere; agents opt in per capability.
func Catalog() []Capability {
	return []Capability{
		{
			ID:          "web_search",
			Name:        "Web Search",
			Description: "Search the web with configurable depth and result count",
			Config: map[string]any{
				"searchDepth":   "advanced",
				"maxResults":    10,
				"includeImages": false,
				"includeAnswer": true,
			},
		},
		{
			ID:          "web_scraping",
			Name:        "Web Scraping",
			Description: "Scrape and extract content from websites",
			Config: map[string]any{
				"contentFormats":  []any{"markdown"},
				"onlyMainContent": true,
				"timeout":         30000,
				"includeTags":     []any{"article", "main", "content"},
				"excludeTags":     []any{"nav", "footer", "sidebar"},
			},
		},
		{
			ID:          "html_generation",
			Name:        "HTML Generation",
			Description: "Generate clean, semantic HTML code for web pages",
			Config: map[string]any{
				"includeCSS":    true,
				"responsive":    true,
				"accessibility": true,
			},
		},
		{
			ID:          "code_generation",
			Name:        "Code Generation",
			Description: "Generate code in various programming languages",
			Config: map[string]any{
				"languages":       []any{"javascript", "python", "html", "css", "react"},
				"includeComments": true,
				"codeStyle":       "clean",
			},
		},
		{
			ID:          "data_analysis",
			Name:        "Data Analysis",
			Description: "Analyze data, create reports, and generate insights",
			Config: map[string]any{
				"outputFormat":        "markdown",
				"includeCharts":       false,
				"statisticalAnalysis": true,
			},
		},
		{
			ID:          "content_creation",
			Name:        "Content Creation",
			Description: "Create articles, blogs, documentation, and marketing content",
			Config: map[string]any{
				"tone":           "professional",
				"length":         "medium",
				"includeOutline": true,
			},
		},
		{
			ID:          "research",
			Name:        "Research Assistant",
			Description: "Conduct comprehensive research on topics with citations",
			Config: map[string]any{
				"includeCitations": true,
				"researchDepth":    "comprehensive",
				"factCheck":        true,
			},
		},
		{
			ID:          "batch_processing",
			Name:        "Batch Processing",
			Description: "Process multiple items or URLs in one request",
			Config: map[string]any{
				"maxConcurrent": 5,
				"retryAttempts": 3,
				"timeout":       60000,
			},
		},
	}
}

// CatalogCapability returns the catalog entry with the given id.
func CatalogCapability(id string) (Capability, bool) {
	for _, c := range Catalog() {
		if c.ID == id {
			return c, true
		}
	}
	return Capability{}, false
}
