package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/aide/internal/agent"
)

// ListAgents returns a handler that lists registered agents and their
// enabled capabilities.
func ListAgents(agents *agent.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		activeOnly, _ := args["active_only"].(bool)

		var list []agent.Agent
		if activeOnly {
			list = agents.ListActive()
		} else {
			list = agents.List()
		}

		if len(list) == 0 {
			return mcp.NewToolResultText("No agents registered. Seed agents via the configuration file."), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Agents (%d)\n\n", len(list))

		for _, a := range list {
			state := "inactive"
			if a.Active {
				state = "active"
			}
			fmt.Fprintf(&sb, "- %s (%s) — %s\n", a.Name, a.ID, state)

			var enabled []string
			for _, c := range a.Capabilities {
				if c.Enabled {
					enabled = append(enabled, c.ID)
				}
			}
			if len(enabled) > 0 {
				fmt.Fprintf(&sb, "  Capabilities: %s\n", strings.Join(enabled, ", "))
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
