package notify

import (
	"log/slog"
)

// MCPSender abstracts the mcp-go server notification methods.
// Defined consumer-side per Go convention.
type MCPSender interface {
	SendNotificationToSpecificClient(sessionID string, method string, params map[string]any) error
	SendNotificationToAllClients(method string, params map[string]any)
}

// MCPNotifier pushes task updates to connected chat clients via MCP
// notifications.
type MCPNotifier struct {
	sender MCPSender
}

// NewMCPNotifier creates an MCPNotifier over the given sender.
func NewMCPNotifier(sender MCPSender) *MCPNotifier {
	return &MCPNotifier{sender: sender}
}

// Notify sends an MCP notification for the given event.
func (n *MCPNotifier) Notify(event Event) {
	var level string
	switch event.Type {
	case "task.started", "task.completed", "task.rated":
		level = "info"
	case "task.failed":
		level = "error"
	default:
		slog.Debug("mcp notifier: unknown event type", "type", event.Type)
		return
	}

	params := map[string]any{
		"level":  level,
		"logger": "aide",
		"data": map[string]any{
			"type":     event.Type,
			"task_id":  event.TaskID,
			"agent_id": event.AgentID,
			"message":  event.Message,
		},
	}

	n.send(event.MCPSessionID, "notifications/message", params)
}

// send dispatches to a specific client or broadcasts.
func (n *MCPNotifier) send(mcpSessionID, method string, params map[string]any) {
	if mcpSessionID != "" {
		if err := n.sender.SendNotificationToSpecificClient(mcpSessionID, method, params); err != nil {
			slog.Debug("mcp notification failed, falling back to broadcast",
				"session_id", mcpSessionID,
				"method", method,
				"error", err)
			n.sender.SendNotificationToAllClients(method, params)
		}
		return
	}
	n.sender.SendNotificationToAllClients(method, params)
}
