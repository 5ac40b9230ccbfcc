// Package handlers implements one MCP tool handler per file. Handlers
// validate arguments, call into the orchestrator and stores, and render
// human-readable text results.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/aide/internal/agent"
	"github.com/kolapsis/aide/internal/task"
)

// StartTask returns a handler that initiates a background task for an
// agent. The task runs asynchronously; the handler responds as soon as
// the pending record is persisted.
func StartTask(o *task.Orchestrator) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		agentID, _ := args["agent_id"].(string)
		if agentID == "" {
			return mcp.NewToolResultError("agent_id is required"), nil
		}

		prompt, _ := args["prompt"].(string)
		capabilityID, _ := args["capability"].(string)
		capabilityInput, _ := args["capability_input"].(string)

		if capabilityID == "" && prompt == "" {
			return mcp.NewToolResultError("prompt is required for a general task"), nil
		}
		if capabilityID != "" && capabilityInput == "" {
			return mcp.NewToolResultError("capability_input is required when capability is set"), nil
		}

		initReq := task.Request{
			AgentID:         agentID,
			Prompt:          prompt,
			Capability:      capabilityID,
			CapabilityInput: capabilityInput,
		}

		// Capture MCP session for push notifications
		if sess := server.ClientSessionFromContext(ctx); sess != nil {
			initReq.MCPSessionID = sess.SessionID()
		}

		id, err := o.Initiate(ctx, initReq)
		if err != nil {
			if errors.Is(err, agent.ErrNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Agent error: %s", err)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Cannot start task: %s", err)), nil
		}

		var b strings.Builder
		b.WriteString("Task started\n\n")
		fmt.Fprintf(&b, "- ID: %s\n", id)
		fmt.Fprintf(&b, "- Agent: %s\n", agentID)
		if capabilityID != "" {
			fmt.Fprintf(&b, "- Capability: %s\n", capabilityID)
		}
		fmt.Fprintf(&b, "\nUse check_task with ID '%s' to monitor progress.", id)

		return mcp.NewToolResultText(b.String()), nil
	}
}
