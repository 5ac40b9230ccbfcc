// Package toolhost exposes externally registered tools to the capability
// layer. The Source interface is the seam where a real protocol client
// can be plugged in; the bundled implementation is a simulation.
package toolhost

import "context"

// Server is a registered tool server.
type Server struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Status  string            `json:"status"` // stopped | running | error
}

// Tool describes one invocable tool offered by a server.
type Tool struct {
	ServerID    string         `json:"serverId"`
	ServerName  string         `json:"serverName"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Source lists available tools and invokes them.
type Source interface {
	ListTools(ctx context.Context) ([]Tool, error)
	Invoke(ctx context.Context, serverID, toolName string, args map[string]any) (any, error)
}
