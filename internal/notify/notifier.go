// Package notify fans task lifecycle events out to interested sinks.
package notify

// Event represents a task lifecycle notification.
type Event struct {
	Type    string // "task.started", "task.completed", "task.failed", "task.rated"
	TaskID  string
	AgentID string
	Message string

	// MCPSessionID targets a specific MCP client session.
	// Empty means broadcast to all.
	MCPSessionID string
}

// Notifier sends task lifecycle notifications.
type Notifier interface {
	Notify(event Event)
}

// Hub dispatches events to multiple notifiers.
type Hub struct {
	notifiers []Notifier
}

// NewHub creates a Hub with the given notifiers.
func NewHub(notifiers ...Notifier) *Hub {
	return &Hub{notifiers: notifiers}
}

// Add registers an additional notifier. Not safe to call once
// events are flowing; wire everything up before starting tasks.
func (h *Hub) Add(n Notifier) {
	h.notifiers = append(h.notifiers, n)
}

// Notify sends an event to all registered notifiers.
func (h *Hub) Notify(event Event) {
	for _, n := range h.notifiers {
		go n.Notify(event)
	}
}
