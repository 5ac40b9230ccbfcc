package notify

import "log/slog"

// LogNotifier writes task lifecycle events to the structured log.
type LogNotifier struct{}

// Notify logs the event at a level matching its type.
func (LogNotifier) Notify(event Event) {
	attrs := []any{
		"type", event.Type,
		"task_id", event.TaskID,
		"agent_id", event.AgentID,
	}
	if event.Type == "task.failed" {
		slog.Error(event.Message, attrs...)
		return
	}
	slog.Info(event.Message, attrs...)
}
