package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/aide/internal/learning"
)

// LearningStats returns a handler that reports feedback statistics over
// all rated responses.
func LearningStats(engine *learning.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats := engine.Stats()

		if stats.TotalRatings == 0 {
			return mcp.NewToolResultText("No rated responses yet. Rate completed tasks to build learning statistics."), nil
		}

		var sb strings.Builder
		sb.WriteString("Learning statistics\n\n")
		fmt.Fprintf(&sb, "- Total ratings: %d\n", stats.TotalRatings)
		fmt.Fprintf(&sb, "- Average rating: %.1f/5.0\n", stats.AverageRating)
		fmt.Fprintf(&sb, "- Improvement rate: %+.1f%%\n", stats.ImprovementRate)

		if len(stats.RecentTrend) > 0 {
			parts := make([]string, len(stats.RecentTrend))
			for i, r := range stats.RecentTrend {
				parts[i] = fmt.Sprintf("%g", r)
			}
			fmt.Fprintf(&sb, "- Recent trend (last %d): %s\n", len(parts), strings.Join(parts, ", "))
		}

		sb.WriteString("\nDistribution:\n")
		buckets := make([]float64, 0, len(stats.Distribution))
		for r := range stats.Distribution {
			buckets = append(buckets, r)
		}
		sort.Float64s(buckets)
		for _, r := range buckets {
			if count := stats.Distribution[r]; count > 0 {
				fmt.Fprintf(&sb, "  %.1f stars: %d\n", r, count)
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

// LearningSummary returns a handler that renders the learning context
// block built from rated responses.
func LearningSummary(engine *learning.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary := engine.Summary()
		if summary == "" {
			return mcp.NewToolResultText("No rated responses yet, so there is no learning context to show."), nil
		}
		return mcp.NewToolResultText(summary), nil
	}
}
