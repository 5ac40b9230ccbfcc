package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/aide/internal/agent"
	"github.com/kolapsis/aide/internal/calendar"
	"github.com/kolapsis/aide/internal/task"
)

// DailySummary returns a handler that renders an agent's per-day task
// summaries with derived insights.
func DailySummary(agents *agent.Store, o *task.Orchestrator) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		agentID, _ := args["agent_id"].(string)
		if agentID == "" {
			return mcp.NewToolResultError("agent_id is required"), nil
		}

		ag, err := agents.Get(agentID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Agent error: %s", err)), nil
		}

		summaries := calendar.Summarize(ag, o.List(task.Filter{AgentID: agentID}))

		date, _ := args["date"].(string)
		if date != "" {
			summary, ok := summaries[date]
			if !ok {
				return mcp.NewToolResultText(fmt.Sprintf("No activity for %s on %s.", ag.Name, date)), nil
			}
			return mcp.NewToolResultText(formatDay(summary)), nil
		}

		if len(summaries) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No recorded activity for %s yet.", ag.Name)), nil
		}

		dates := make([]string, 0, len(summaries))
		for d := range summaries {
			dates = append(dates, d)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(dates)))

		var sb strings.Builder
		fmt.Fprintf(&sb, "Daily summaries for %s\n\n", ag.Name)
		for _, d := range dates {
			sb.WriteString(formatDay(summaries[d]))
			sb.WriteString("\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func formatDay(s calendar.DailySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s — %d tasks, %d completed", s.Date, s.TotalTasks, s.CompletedTasks)
	if s.AverageRating > 0 {
		fmt.Fprintf(&b, ", average rating %.1f", s.AverageRating)
	}
	b.WriteString("\n")
	for _, insight := range s.Insights {
		fmt.Fprintf(&b, "  - %s\n", insight)
	}
	return b.String()
}
