// Package mcp wires the MCP server surface: tool registration and the
// shared dependencies injected into handlers.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/aide/internal/agent"
	"github.com/kolapsis/aide/internal/learning"
	"github.com/kolapsis/aide/internal/task"
	"github.com/kolapsis/aide/internal/toolhost"
)

// Deps holds shared dependencies injected into MCP handlers.
type Deps struct {
	Agents       *agent.Store
	Orchestrator *task.Orchestrator
	Learning     *learning.Engine
	Tools        toolhost.Source
	Version      string
}

// NewServer creates and configures the MCP server with all tools registered.
func NewServer(deps *Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"Aide",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	registerTools(s, deps)

	return s
}
