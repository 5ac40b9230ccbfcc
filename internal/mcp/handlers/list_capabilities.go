package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/aide/internal/agent"
	"github.com/kolapsis/aide/internal/toolhost"
)

// ListCapabilities returns a handler that lists the built-in capability
// catalog plus capabilities derived from registered tool servers. A tool
// listing failure degrades to the built-in set.
func ListCapabilities(tools toolhost.Source) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var sb strings.Builder
		sb.WriteString("Built-in capabilities:\n\n")
		for _, c := range agent.Catalog() {
			fmt.Fprintf(&sb, "- %s: %s\n  %s\n", c.ID, c.Name, c.Description)
		}

		external, err := tools.ListTools(ctx)
		if err != nil {
			slog.Warn("listing external tools", "error", err)
		}
		if len(external) > 0 {
			sb.WriteString("\nExternal tool capabilities:\n\n")
			for _, tool := range external {
				id := fmt.Sprintf("%s%s_%s", agent.CapabilityExternalPrefix, tool.ServerID, tool.Name)
				fmt.Fprintf(&sb, "- %s: %s (%s)\n  %s\n", id, tool.Name, tool.ServerName, tool.Description)
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
