// Package task holds the background task model, its persistent store and
// the orchestrator that drives tasks through their lifecycle.
package task

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Task is one background task record. Result and Error are mutually
// exclusive: a completed task carries a result, a failed one an error.
type Task struct {
	ID         string    `json:"id"`
	AgentID    string    `json:"agentId"`
	Prompt     string    `json:"prompt"`
	Capability string    `json:"capability,omitempty"`
	Status     Status    `json:"status"`
	Result     string    `json:"result,omitempty"`
	Error      string    `json:"error,omitempty"`
	Rating     float64   `json:"rating,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// GenerateID creates a new task ID in the format task-{8 hex chars}.
func GenerateID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return fmt.Sprintf("task-%x", b)
}

// IsTerminal returns true if the task is in a final state.
func (t Task) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusError
}
