package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/aide/internal/task"
)

const longPollMaxWait = 30

// CheckTask returns a handler that reports a task's current status.
// When wait_seconds > 0 and the task is still active, it blocks until
// the run settles or the timeout expires.
func CheckTask(o *task.Orchestrator) server.ToolHandlerFunc {
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

		waitSeconds := 0
		if w, ok := args["wait_seconds"].(float64); ok && w > 0 {
			waitSeconds = int(w)
			if waitSeconds > longPollMaxWait {
				waitSeconds = longPollMaxWait
			}
		}

		if waitSeconds > 0 && !t.IsTerminal() {
			if done := o.Done(taskID); done != nil {
				select {
				case <-ctx.Done():
				case <-done:
				case <-time.After(time.Duration(waitSeconds) * time.Second):
				}
			}
			if refreshed, err := o.Get(taskID); err == nil {
				t = refreshed
			}
		}

		return mcp.NewToolResultText(formatCheckResponse(t)), nil
	}
}

func formatCheckResponse(t *task.Task) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Status: %s\n", t.Status)
	fmt.Fprintf(&b, "Agent: %s\n", t.AgentID)
	fmt.Fprintf(&b, "Prompt: %s\n", t.Prompt)
	fmt.Fprintf(&b, "Created: %s\n", t.Timestamp.Format(time.RFC3339))

	switch t.Status {
	case task.StatusCompleted:
		if t.Rating != 0 {
			fmt.Fprintf(&b, "Rating: %g/5\n", t.Rating)
		}
		b.WriteString("\nUse get_result for the full output.")
	case task.StatusError:
		if t.Error != "" {
			fmt.Fprintf(&b, "Error: %s\n", t.Error)
		}
	}

	return b.String()
}
