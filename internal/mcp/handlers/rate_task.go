package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/aide/internal/task"
)

// RateTask returns a handler that records a user rating on a completed
// task. Ratings feed the learning analytics.
func RateTask(o *task.Orchestrator) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		taskID, _ := args["task_id"].(string)
		if taskID == "" {
			return mcp.NewToolResultError("task_id is required"), nil
		}

		rating, ok := args["rating"].(float64)
		if !ok {
			return mcp.NewToolResultError("rating is required"), nil
		}

		rated, err := o.Rate(taskID, rating)
		switch {
		case errors.Is(err, task.ErrNotFound):
			return mcp.NewToolResultError(fmt.Sprintf("Task not found: %s", err)), nil
		case errors.Is(err, task.ErrInvalidRating), errors.Is(err, task.ErrNotRatable):
			return mcp.NewToolResultError(err.Error()), nil
		case err != nil:
			return mcp.NewToolResultError(fmt.Sprintf("Cannot rate task: %s", err)), nil
		}

		return mcp.NewToolResultText(
			fmt.Sprintf("Task %s rated %g/5. The rating feeds future learning summaries.", rated.ID, rated.Rating),
		), nil
	}
}
