package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kolapsis/aide/internal/agent"
	"github.com/kolapsis/aide/internal/search"
)

func (d *Dispatcher) executeWebSearch(ctx context.Context, ag *agent.Agent, c agent.Capability, input, extra string) *Outcome {
	opts := search.Options{
		SearchDepth:   cfgString(c.Config, "searchDepth", "advanced"),
		MaxResults:    cfgInt(c.Config, "maxResults", 10),
		IncludeImages: cfgBool(c.Config, "includeImages", false),
		IncludeAnswer: cfgBool(c.Config, "includeAnswer", true),
	}

	results, err := d.search.Search(ctx, input, opts)
	if err != nil {
		return failure(err.Error())
	}

	var b strings.Builder
	writeHeader(&b, ag, extra)
	fmt.Fprintf(&b, "You have been asked to search for: %q\n\n", input)
	b.WriteString("Here are the search results:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "\n%d. %s\nURL: %s\nContent: %s\n", i+1, r.Title, r.URL, r.Content)
		if r.Score != 0 {
			fmt.Fprintf(&b, "Relevance Score: %g\n", r.Score)
		}
	}
	b.WriteString("\nPlease analyze these results and provide a comprehensive summary with key insights.")

	analysis, err := d.complete(ctx, ag, b.String())
	if err != nil {
		return failure(err.Error())
	}

	return &Outcome{Success: true, Result: map[string]any{
		"searchResults": results,
		"analysis":      analysis,
		"query":         input,
	}}
}

func (d *Dispatcher) executeWebScraping(ctx context.Context, ag *agent.Agent, c agent.Capability, input, extra string) *Outcome {
	urls := splitList(input)
	opts := search.ScrapeOptions{
		ContentFormats:  cfgStrings(c.Config, "contentFormats", []string{"markdown"}),
		OnlyMainContent: cfgBool(c.Config, "onlyMainContent", true),
		TimeoutMillis:   cfgInt(c.Config, "timeout", 30000),
		IncludeTags:     cfgStrings(c.Config, "includeTags", nil),
		ExcludeTags:     cfgStrings(c.Config, "excludeTags", nil),
	}

	pages, err := d.search.BatchRetrieve(ctx, urls, opts)
	if err != nil {
		return failure(err.Error())
	}

	var b strings.Builder
	writeHeader(&b, ag, extra)
	b.WriteString("You have been asked to scrape and analyze the following URLs:\n")
	b.WriteString(strings.Join(urls, ", "))
	b.WriteString("\n\nHere is the scraped content:\n")
	for i, p := range pages {
		fmt.Fprintf(&b, "\nURL %d: %s\nContent:\n%s\n---\n", i+1, p.URL, p.Content)
	}
	b.WriteString("\nPlease analyze this content and extract key information, insights, or perform the requested task.")

	analysis, err := d.complete(ctx, ag, b.String())
	if err != nil {
		return failure(err.Error())
	}

	return &Outcome{Success: true, Result: map[string]any{
		"scrapedContent": pages,
		"analysis":       analysis,
		"urls":           urls,
	}}
}

func (d *Dispatcher) executeHTMLGeneration(ctx context.Context, ag *agent.Agent, c agent.Capability, input, extra string) *Outcome {
	var b strings.Builder
	writeHeader(&b, ag, extra)
	b.WriteString("You are an expert HTML/CSS developer. Generate clean, semantic HTML code based on these requirements:\n\n")
	fmt.Fprintf(&b, "Requirements: %s\n\n", input)
	b.WriteString("Configuration:\n")
	fmt.Fprintf(&b, "- Include CSS: %t\n", cfgBool(c.Config, "includeCSS", true))
	fmt.Fprintf(&b, "- Responsive Design: %t\n", cfgBool(c.Config, "responsive", true))
	fmt.Fprintf(&b, "- Accessibility Features: %t\n", cfgBool(c.Config, "accessibility", true))
	b.WriteString("\nPlease provide:\n")
	b.WriteString("1. Complete HTML structure\n")
	b.WriteString("2. Embedded CSS styles (if requested)\n")
	b.WriteString("3. Brief explanation of the implementation\n")
	b.WriteString("4. Any accessibility features included\n\n")
	b.WriteString("Make sure the code is production-ready and follows best practices.")

	content, err := d.complete(ctx, ag, b.String())
	if err != nil {
		return failure(err.Error())
	}

	return &Outcome{Success: true, Result: map[string]any{
		"htmlCode":     content,
		"requirements": input,
		"config":       c.Config,
	}}
}

func (d *Dispatcher) executeCodeGeneration(ctx context.Context, ag *agent.Agent, c agent.Capability, input, extra string) *Outcome {
	var b strings.Builder
	writeHeader(&b, ag, extra)
	b.WriteString("You are an expert software developer. Generate clean, efficient code based on these requirements:\n\n")
	fmt.Fprintf(&b, "Requirements: %s\n\n", input)
	b.WriteString("Configuration:\n")
	fmt.Fprintf(&b, "- Languages: %s\n", strings.Join(cfgStrings(c.Config, "languages", nil), ", "))
	fmt.Fprintf(&b, "- Include Comments: %t\n", cfgBool(c.Config, "includeComments", true))
	fmt.Fprintf(&b, "- Code Style: %s\n", cfgString(c.Config, "codeStyle", "clean"))
	b.WriteString("\nPlease provide:\n")
	b.WriteString("1. Complete, working code\n")
	b.WriteString("2. Clear comments explaining the logic\n")
	b.WriteString("3. Usage examples if applicable\n")
	b.WriteString("4. Any dependencies or setup instructions\n\n")
	b.WriteString("Make sure the code follows best practices and is production-ready.")

	content, err := d.complete(ctx, ag, b.String())
	if err != nil {
		return failure(err.Error())
	}

	return &Outcome{Success: true, Result: map[string]any{
		"code":         content,
		"requirements": input,
		"config":       c.Config,
	}}
}

func (d *Dispatcher) executeDataAnalysis(ctx context.Context, ag *agent.Agent, c agent.Capability, input, extra string) *Outcome {
	var b strings.Builder
	writeHeader(&b, ag, extra)
	b.WriteString("You are a data analysis expert. Analyze the following data and provide insights:\n\n")
	fmt.Fprintf(&b, "Data: %s\n\n", input)
	b.WriteString("Configuration:\n")
	fmt.Fprintf(&b, "- Output Format: %s\n", cfgString(c.Config, "outputFormat", "markdown"))
	fmt.Fprintf(&b, "- Include Charts: %t\n", cfgBool(c.Config, "includeCharts", false))
	fmt.Fprintf(&b, "- Statistical Analysis: %t\n", cfgBool(c.Config, "statisticalAnalysis", true))
	b.WriteString("\nPlease provide:\n")
	b.WriteString("1. Data summary and overview\n")
	b.WriteString("2. Key insights and patterns\n")
	b.WriteString("3. Statistical analysis (if requested)\n")
	b.WriteString("4. Recommendations based on findings\n")
	b.WriteString("5. Visual representations (if charts requested)\n\n")
	b.WriteString("Present your analysis in a clear, professional format.")

	content, err := d.complete(ctx, ag, b.String())
	if err != nil {
		return failure(err.Error())
	}

	return &Outcome{Success: true, Result: map[string]any{
		"analysis": content,
		"data":     input,
		"config":   c.Config,
	}}
}

func (d *Dispatcher) executeContentCreation(ctx context.Context, ag *agent.Agent, c agent.Capability, input, extra string) *Outcome {
	var b strings.Builder
	writeHeader(&b, ag, extra)
	b.WriteString("You are a professional content creator. Create high-quality content on the following topic:\n\n")
	fmt.Fprintf(&b, "Topic: %s\n\n", input)
	b.WriteString("Configuration:\n")
	fmt.Fprintf(&b, "- Tone: %s\n", cfgString(c.Config, "tone", "professional"))
	fmt.Fprintf(&b, "- Length: %s\n", cfgString(c.Config, "length", "medium"))
	fmt.Fprintf(&b, "- Include Outline: %t\n", cfgBool(c.Config, "includeOutline", true))
	b.WriteString("\nPlease provide:\n")
	b.WriteString("1. Content outline (if requested)\n")
	b.WriteString("2. Complete, well-structured content\n")
	b.WriteString("3. Engaging introduction and conclusion\n")
	b.WriteString("4. Proper formatting and structure\n")
	b.WriteString("5. SEO-friendly elements if applicable\n\n")
	b.WriteString("Make sure the content is original, engaging, and valuable to readers.")

	content, err := d.complete(ctx, ag, b.String())
	if err != nil {
		return failure(err.Error())
	}

	return &Outcome{Success: true, Result: map[string]any{
		"content": content,
		"topic":   input,
		"config":  c.Config,
	}}
}

func (d *Dispatcher) executeResearch(ctx context.Context, ag *agent.Agent, c agent.Capability, input, extra string) *Outcome {
	results, err := d.search.Search(ctx, input, search.Options{
		SearchDepth:   cfgString(c.Config, "researchDepth", "comprehensive"),
		MaxResults:    15,
		IncludeAnswer: true,
	})
	if err != nil {
		return failure(err.Error())
	}

	var b strings.Builder
	writeHeader(&b, ag, extra)
	b.WriteString("You are a research expert. Conduct comprehensive research on the following topic:\n\n")
	fmt.Fprintf(&b, "Topic: %s\n\n", input)
	b.WriteString("Search Results:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "\n%d. %s\nURL: %s\nContent: %s\n", i+1, r.Title, r.URL, r.Content)
	}
	b.WriteString("\nConfiguration:\n")
	fmt.Fprintf(&b, "- Include Citations: %t\n", cfgBool(c.Config, "includeCitations", true))
	fmt.Fprintf(&b, "- Research Depth: %s\n", cfgString(c.Config, "researchDepth", "comprehensive"))
	fmt.Fprintf(&b, "- Fact Check: %t\n", cfgBool(c.Config, "factCheck", true))
	b.WriteString("\nPlease provide:\n")
	b.WriteString("1. Executive summary\n")
	b.WriteString("2. Detailed research findings\n")
	b.WriteString("3. Multiple perspectives on the topic\n")
	b.WriteString("4. Citations and sources (if requested)\n")
	b.WriteString("5. Fact-checked information\n")
	b.WriteString("6. Conclusions and recommendations\n\n")
	b.WriteString("Present your research in a professional, academic format.")

	content, err := d.complete(ctx, ag, b.String())
	if err != nil {
		return failure(err.Error())
	}

	return &Outcome{Success: true, Result: map[string]any{
		"research": content,
		"sources":  results,
		"topic":    input,
		"config":   c.Config,
	}}
}

// executeBatchProcessing batches at the prompt level: all items go into a
// single completion call. The maxConcurrent and retryAttempts config
// values are surfaced in the prompt but do not drive client-side
// parallelism.
func (d *Dispatcher) executeBatchProcessing(ctx context.Context, ag *agent.Agent, c agent.Capability, input, extra string) *Outcome {
	items := splitItems(input)

	var b strings.Builder
	writeHeader(&b, ag, extra)
	b.WriteString("You are processing multiple items in batch. Here are the items to process:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "\nItem %d: %s\n", i+1, item)
	}
	b.WriteString("\nConfiguration:\n")
	fmt.Fprintf(&b, "- Max Concurrent: %d\n", cfgInt(c.Config, "maxConcurrent", 5))
	fmt.Fprintf(&b, "- Retry Attempts: %d\n", cfgInt(c.Config, "retryAttempts", 3))
	fmt.Fprintf(&b, "- Timeout: %dms\n", cfgInt(c.Config, "timeout", 60000))
	b.WriteString("\nPlease process each item according to the instructions and provide results for each.")

	content, err := d.complete(ctx, ag, b.String())
	if err != nil {
		return failure(err.Error())
	}

	return &Outcome{Success: true, Result: map[string]any{
		"processedItems": content,
		"originalItems":  items,
		"config":         c.Config,
	}}
}

// writeHeader starts every composed prompt with the agent's own prompt
// and the optional extra instruction.
func writeHeader(b *strings.Builder, ag *agent.Agent, extra string) {
	b.WriteString(ag.Prompt)
	b.WriteString("\n\n")
	if extra != "" {
		b.WriteString(extra)
	}
	b.WriteString("\n\n")
}

// splitList splits free-form input into distinct entries, accepting
// newline or comma separators. A JSON array of strings is also accepted.
func splitList(input string) []string {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
			return arr
		}
	}

	var out []string
	for _, part := range strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '\n' || r == ','
	}) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitItems splits batch input into items, one per line, falling back
// to a JSON array when the input looks like one.
func splitItems(input string) []string {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
			return arr
		}
	}

	var out []string
	for _, line := range strings.Split(trimmed, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func cfgString(cfg map[string]any, key, fallback string) string {
	if v, ok := cfg[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func cfgBool(cfg map[string]any, key string, fallback bool) bool {
	if v, ok := cfg[key].(bool); ok {
		return v
	}
	return fallback
}

func cfgInt(cfg map[string]any, key string, fallback int) int {
	switch v := cfg[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func cfgStrings(cfg map[string]any, key string, fallback []string) []string {
	switch v := cfg[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
