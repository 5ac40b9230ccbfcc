package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/aide/internal/task"
)

// GetResult returns a handler that provides the full result of a
// finished task.
func GetResult(o *task.Orchestrator) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		taskID, _ := args["task_id"].(string)
		if taskID == "" {
			return mcp.NewToolResultError("task_id is required"), nil
		}

		t, err := o.Get(taskID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Task not found: %s", err)), nil
		}

		if !t.IsTerminal() {
			return mcp.NewToolResultText(
				fmt.Sprintf("Task %s is still %s. Use check_task to monitor progress.", taskID, t.Status),
			), nil
		}

		format := "summary"
		if f, ok := args["format"].(string); ok && f != "" {
			format = f
		}

		switch format {
		case "json":
			return formatJSON(t)
		case "full":
			return formatFull(t)
		default:
			return formatSummary(t)
		}
	}
}

func formatSummary(t *task.Task) (*mcp.CallToolResult, error) {
	var b strings.Builder

	switch t.Status {
	case task.StatusCompleted:
		b.WriteString("Task completed\n\n")
	case task.StatusError:
		b.WriteString("Task failed\n\n")
	}

	fmt.Fprintf(&b, "- ID: %s\n", t.ID)
	fmt.Fprintf(&b, "- Agent: %s\n", t.AgentID)
	if t.Capability != "" {
		fmt.Fprintf(&b, "- Capability: %s\n", t.Capability)
	}
	if t.Rating != 0 {
		fmt.Fprintf(&b, "- Rating: %g/5\n", t.Rating)
	}
	if t.Error != "" {
		fmt.Fprintf(&b, "- Error: %s\n", t.Error)
	}
	if t.Result != "" {
		fmt.Fprintf(&b, "\nResult:\n%s\n", truncateSummary(t.Result, 1000))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func formatFull(t *task.Task) (*mcp.CallToolResult, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Task %s — %s\n", t.ID, t.Status)
	fmt.Fprintf(&b, "Agent: %s | Prompt: %s\n\n", t.AgentID, t.Prompt)

	if t.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n\n", t.Error)
	}
	if t.Result != "" {
		fmt.Fprintf(&b, "--- Full result ---\n%s\n", t.Result)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func formatJSON(t *task.Task) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("JSON encoding error: %s", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func truncateSummary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n\n[... result truncated, use format='full' for complete output]"
}
