package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/aide/internal/task"
)

// ListTasks returns a handler that lists tasks with optional filters.
func ListTasks(o *task.Orchestrator) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		filter := task.Filter{
			Limit: 20,
		}

		if status, ok := args["status"].(string); ok {
			filter.Status = status
		}
		if agentID, ok := args["agent_id"].(string); ok {
			filter.AgentID = agentID
		}
		if limit, ok := args["limit"].(float64); ok && limit > 0 {
			filter.Limit = int(limit)
		}

		tasks := o.List(filter)

		if len(tasks) == 0 {
			return mcp.NewToolResultText("No tasks found matching the given filters."), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "📋 Tasks (%d found)\n\n", len(tasks))

		for _, t := range tasks {
			fmt.Fprintf(&sb, "%s **%s** — %s\n", statusIcon(t.Status), t.ID, t.Status)
			fmt.Fprintf(&sb, "  Agent: %s\n", t.AgentID)

			prompt := t.Prompt
			if len(prompt) > 120 {
				prompt = prompt[:120] + "..."
			}
			fmt.Fprintf(&sb, "  %q\n", prompt)

			if t.Rating != 0 {
				fmt.Fprintf(&sb, "  Rating: %g/5\n", t.Rating)
			}
			if t.Error != "" {
				fmt.Fprintf(&sb, "  Error: %s\n", t.Error)
			}

			sb.WriteString("\n")
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func statusIcon(s task.Status) string {
	switch s {
	case task.StatusPending:
		return "⏳"
	case task.StatusRunning:
		return "🔄"
	case task.StatusCompleted:
		return "✅"
	case task.StatusError:
		return "❌"
	default:
		return "❓"
	}
}
