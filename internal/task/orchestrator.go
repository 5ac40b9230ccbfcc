package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/kolapsis/aide/internal/agent"
	"github.com/kolapsis/aide/internal/capability"
	"github.com/kolapsis/aide/internal/llm"
	"github.com/kolapsis/aide/internal/notify"
)

// Extra instruction sent with every capability-backed task.
const capabilityTaskInstruction = "Please complete this task using your specialized capability."

var (
	// ErrInvalidRating is returned for ratings outside [0.5, 5.0] or not
	// on a half-point step.
	ErrInvalidRating = errors.New("rating must be between 0.5 and 5.0 in half-point steps")

	// ErrNotRatable is returned when rating a task that has not completed.
	ErrNotRatable = errors.New("only completed tasks can be rated")
)

// AgentSource resolves agents. Defined consumer-side per Go convention.
type AgentSource interface {
	Get(id string) (*agent.Agent, error)
}

// Executor runs one capability for an agent.
type Executor interface {
	Execute(ctx context.Context, ag *agent.Agent, capabilityID, input, extra string) (*capability.Outcome, error)
}

// Records is the persistence seam for task state.
type Records interface {
	List() []Task
	Get(id string) (*Task, error)
	Save(t Task) error
}

// Request describes a task to initiate. Capability empty means a generic
// completion task driven by Prompt; otherwise CapabilityInput feeds the
// named capability and Prompt is ignored.
type Request struct {
	AgentID         string
	Prompt          string
	Capability      string
	CapabilityInput string
	MCPSessionID    string
}

// Orchestrator drives tasks from initiation to a terminal state. Runs
// are detached goroutines; initiation returns as soon as the pending
// record is persisted.
type Orchestrator struct {
	tasks    Records
	agents   AgentSource
	executor Executor
	llm      llm.Client
	notifier notify.Notifier

	mu       sync.Mutex
	inflight map[string]chan struct{}
}

// NewOrchestrator creates an Orchestrator over the given collaborators.
func NewOrchestrator(tasks Records, agents AgentSource, executor Executor, llmClient llm.Client, notifier notify.Notifier) *Orchestrator {
	return &Orchestrator{
		tasks:    tasks,
		agents:   agents,
		executor: executor,
		llm:      llmClient,
		notifier: notifier,
		inflight: make(map[string]chan struct{}),
	}
}

// Initiate resolves the agent, persists a pending task and starts
// execution in the background. The task ID is returned immediately;
// callers poll or wait for completion. An unknown agent fails
// synchronously and persists nothing.
func (o *Orchestrator) Initiate(_ context.Context, req Request) (string, error) {
	ag, err := o.agents.Get(req.AgentID)
	if err != nil {
		return "", err
	}

	t := Task{
		ID:        GenerateID(),
		AgentID:   ag.ID,
		Status:    StatusPending,
		Timestamp: time.Now().UTC(),
	}
	if req.Capability != "" {
		t.Capability = req.Capability
		t.Prompt = fmt.Sprintf("Use %s capability: %s", req.Capability, req.CapabilityInput)
	} else {
		t.Prompt = req.Prompt
	}

	if err := o.tasks.Save(t); err != nil {
		return "", fmt.Errorf("persisting task: %w", err)
	}

	o.mu.Lock()
	o.inflight[t.ID] = make(chan struct{})
	o.mu.Unlock()

	slog.Info("task initiated",
		"task_id", t.ID,
		"agent_id", ag.ID,
		"capability", t.Capability)

	// Background context so the task survives the initiating request.
	go o.run(context.Background(), t, ag, req.CapabilityInput, req.MCPSessionID)

	return t.ID, nil
}

func (o *Orchestrator) run(ctx context.Context, t Task, ag *agent.Agent, capabilityInput, mcpSessionID string) {
	defer o.finish(t.ID)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("task panicked", "task_id", t.ID, "panic", r)
			t.Status = StatusError
			t.Error = fmt.Sprintf("internal panic: %v", r)
			t.Result = ""
			o.persist(t)
			o.emit(t, mcpSessionID, "task.failed", t.Error)
		}
	}()

	t.Status = StatusRunning
	o.persist(t)
	o.emit(t, mcpSessionID, "task.started", "task execution started")

	var result string
	var runErr error
	if t.Capability != "" {
		result, runErr = o.runCapability(ctx, ag, t.Capability, capabilityInput)
	} else {
		result, runErr = o.llm.Complete(ctx, llm.Request{
			Prompt: ag.Prompt + "\n\nTask: " + t.Prompt,
			APIKey: ag.APIKey,
			Model:  ag.Model,
		})
	}

	if runErr != nil {
		t.Status = StatusError
		t.Error = runErr.Error()
		o.persist(t)
		o.emit(t, mcpSessionID, "task.failed", t.Error)
		return
	}

	t.Status = StatusCompleted
	t.Result = result
	o.persist(t)
	o.emit(t, mcpSessionID, "task.completed", "task completed successfully")
}

// runCapability executes the capability and renders a successful outcome
// as indented JSON for storage.
func (o *Orchestrator) runCapability(ctx context.Context, ag *agent.Agent, capabilityID, input string) (string, error) {
	out, err := o.executor.Execute(ctx, ag, capabilityID, input, capabilityTaskInstruction)
	if err != nil {
		return "", err
	}
	if !out.Success {
		return "", errors.New(out.Error)
	}

	data, err := json.MarshalIndent(out.Result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding capability result: %w", err)
	}
	return string(data), nil
}

// Get returns a task by ID.
func (o *Orchestrator) Get(id string) (*Task, error) {
	return o.tasks.Get(id)
}

// Filter specifies criteria for listing tasks.
type Filter struct {
	Status  string
	AgentID string
	Limit   int
}

// List returns tasks matching the filter, newest first.
func (o *Orchestrator) List(filter Filter) []Task {
	var results []Task
	for _, t := range o.tasks.List() {
		if filter.Status != "" && filter.Status != "all" && t.Status != Status(filter.Status) {
			continue
		}
		if filter.AgentID != "" && t.AgentID != filter.AgentID {
			continue
		}
		results = append(results, t)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})

	if filter.Limit > 0 && len(results) > filter.Limit {
		results = results[:filter.Limit]
	}
	return results
}

// Rate records a user rating on a completed task.
func (o *Orchestrator) Rate(taskID string, rating float64) (*Task, error) {
	if rating < 0.5 || rating > 5 || math.Mod(rating*2, 1) != 0 {
		return nil, fmt.Errorf("rating %g: %w", rating, ErrInvalidRating)
	}

	t, err := o.tasks.Get(taskID)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusCompleted {
		return nil, fmt.Errorf("task %q is %s: %w", taskID, t.Status, ErrNotRatable)
	}

	t.Rating = rating
	if err := o.tasks.Save(*t); err != nil {
		return nil, fmt.Errorf("persisting rating: %w", err)
	}

	o.emit(*t, "", "task.rated", fmt.Sprintf("task rated %g", rating))
	return t, nil
}

// Done returns a channel closed when the task's execution finishes, or
// nil when no execution is in flight (unknown ID or already settled).
func (o *Orchestrator) Done(id string) <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	if ch, ok := o.inflight[id]; ok {
		return ch
	}
	return nil
}

func (o *Orchestrator) finish(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if ch, ok := o.inflight[id]; ok {
		close(ch)
		delete(o.inflight, id)
	}
}

// persist saves task state; a failed save is logged, not fatal, so the
// run can still report its terminal event.
func (o *Orchestrator) persist(t Task) {
	if err := o.tasks.Save(t); err != nil {
		slog.Error("persisting task state",
			"task_id", t.ID,
			"status", string(t.Status),
			"error", err)
	}
}

func (o *Orchestrator) emit(t Task, mcpSessionID, eventType, message string) {
	if o.notifier == nil {
		return
	}
	o.notifier.Notify(notify.Event{
		Type:         eventType,
		TaskID:       t.ID,
		AgentID:      t.AgentID,
		Message:      message,
		MCPSessionID: mcpSessionID,
	})
}
