package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolapsis/aide/internal/agent"
	"github.com/kolapsis/aide/internal/capability"
	"github.com/kolapsis/aide/internal/learning"
	"github.com/kolapsis/aide/internal/llm"
	"github.com/kolapsis/aide/internal/task"
	"github.com/kolapsis/aide/internal/toolhost"
)

type memKV struct {
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (m *memKV) Get(key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *memKV) List(string) (map[string][]byte, error) { return nil, nil }

func (m *memKV) Close() error { return nil }

type stubExecutor struct{}

func (stubExecutor) Execute(context.Context, *agent.Agent, string, string, string) (*capability.Outcome, error) {
	return &capability.Outcome{Success: true, Result: map[string]any{"ok": true}}, nil
}

type stubLLM struct{}

func (stubLLM) Complete(context.Context, llm.Request) (string, error) {
	return "stub completion", nil
}

type testDeps struct {
	agents       *agent.Store
	tasks        *task.Store
	orchestrator *task.Orchestrator
	learning     *learning.Engine
	tools        *toolhost.SimulatedSource
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()

	agents := agent.NewStore(newMemKV())
	require.NoError(t, agents.Save(agent.Agent{
		ID:     "writer",
		Name:   "Writer",
		Prompt: "You write things.",
		Active: true,
		Capabilities: []agent.Capability{
			{ID: "content_creation", Enabled: true},
		},
	}))

	tasks := task.NewStore(newMemKV())
	return &testDeps{
		agents:       agents,
		tasks:        tasks,
		orchestrator: task.NewOrchestrator(tasks, agents, stubExecutor{}, stubLLM{}, nil),
		learning:     learning.NewEngine(learning.NewMessageStore(newMemKV())),
		tools:        toolhost.NewSimulatedSource(newMemKV()),
	}
}

func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	return result.Content[0].(mcp.TextContent).Text
}

// --- StartTask ---

func TestStartTask_WhenMissingAgentID_ReturnsError(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	handler := StartTask(deps.orchestrator)

	result, err := handler(context.Background(), makeReq(map[string]any{"prompt": "write"}))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, result), "agent_id is required")
}

func TestStartTask_WhenUnknownAgent_ReturnsError(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	handler := StartTask(deps.orchestrator)

	result, err := handler(context.Background(), makeReq(map[string]any{
		"agent_id": "ghost",
		"prompt":   "write",
	}))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, result), "Agent error")
}

func TestStartTask_WhenCapabilityWithoutInput_ReturnsError(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	handler := StartTask(deps.orchestrator)

	result, err := handler(context.Background(), makeReq(map[string]any{
		"agent_id":   "writer",
		"capability": "content_creation",
	}))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, result), "capability_input is required")
}

func TestStartTask_ReturnsTaskID(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	handler := StartTask(deps.orchestrator)

	result, err := handler(context.Background(), makeReq(map[string]any{
		"agent_id": "writer",
		"prompt":   "write a haiku",
	}))
	require.NoError(t, err)

	text := textOf(t, result)
	assert.Contains(t, text, "Task started")
	assert.Contains(t, text, "Use check_task")

	require.Len(t, deps.orchestrator.List(task.Filter{}), 1)
}

// --- CheckTask ---

func TestCheckTask_WhenTaskNotFound_ReturnsError(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	handler := CheckTask(deps.orchestrator)

	result, err := handler(context.Background(), makeReq(map[string]any{"task_id": "task-none"}))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, result), "not found")
}

func TestCheckTask_ShowsStatusAndRating(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	handler := CheckTask(deps.orchestrator)

	require.NoError(t, deps.tasks.Save(task.Task{
		ID:        "task-1",
		AgentID:   "writer",
		Prompt:    "write",
		Status:    task.StatusCompleted,
		Result:    "a haiku",
		Rating:    4.5,
		Timestamp: time.Now().UTC(),
	}))

	result, err := handler(context.Background(), makeReq(map[string]any{"task_id": "task-1"}))
	require.NoError(t, err)

	text := textOf(t, result)
	assert.Contains(t, text, "Status: completed")
	assert.Contains(t, text, "Rating: 4.5/5")
	assert.Contains(t, text, "Use get_result")
}

func TestCheckTask_WaitOnTerminalTaskReturnsImmediately(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	handler := CheckTask(deps.orchestrator)

	require.NoError(t, deps.tasks.Save(task.Task{
		ID: "task-1", Status: task.StatusError, Error: "boom", Timestamp: time.Now().UTC(),
	}))

	start := time.Now()
	result, err := handler(context.Background(), makeReq(map[string]any{
		"task_id":      "task-1",
		"wait_seconds": float64(10),
	}))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, textOf(t, result), "Error: boom")
}

// --- GetResult ---

func TestGetResult_WhenStillActive_SaysSo(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	handler := GetResult(deps.orchestrator)

	require.NoError(t, deps.tasks.Save(task.Task{
		ID: "task-1", Status: task.StatusRunning, Timestamp: time.Now().UTC(),
	}))

	result, err := handler(context.Background(), makeReq(map[string]any{"task_id": "task-1"}))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, result), "still running")
}

func TestGetResult_SummaryShowsResult(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	handler := GetResult(deps.orchestrator)

	require.NoError(t, deps.tasks.Save(task.Task{
		ID: "task-1", AgentID: "writer", Status: task.StatusCompleted,
		Result: "the final haiku", Timestamp: time.Now().UTC(),
	}))

	result, err := handler(context.Background(), makeReq(map[string]any{"task_id": "task-1"}))
	require.NoError(t, err)

	text := textOf(t, result)
	assert.Contains(t, text, "Task completed")
	assert.Contains(t, text, "the final haiku")
}

// --- RateTask ---

func TestRateTask_ValidatesRating(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	handler := RateTask(deps.orchestrator)

	require.NoError(t, deps.tasks.Save(task.Task{
		ID: "task-1", Status: task.StatusCompleted, Result: "ok", Timestamp: time.Now().UTC(),
	}))

	result, err := handler(context.Background(), makeReq(map[string]any{
		"task_id": "task-1",
		"rating":  float64(3.3),
	}))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, result), "half-point")

	result, err = handler(context.Background(), makeReq(map[string]any{
		"task_id": "task-1",
		"rating":  float64(4.5),
	}))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, result), "rated 4.5/5")
}

// --- ListAgents / ListCapabilities ---

func TestListAgents_ShowsEnabledCapabilities(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	handler := ListAgents(deps.agents)

	result, err := handler(context.Background(), makeReq(map[string]any{}))
	require.NoError(t, err)

	text := textOf(t, result)
	assert.Contains(t, text, "Writer (writer) — active")
	assert.Contains(t, text, "content_creation")
}

func TestListCapabilities_IncludesCatalogAndExternalTools(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	require.NoError(t, deps.tools.SaveServer(toolhost.Server{
		ID: "fs", Name: "filesystem", Command: "server-filesystem", Status: "running",
	}))
	handler := ListCapabilities(deps.tools)

	result, err := handler(context.Background(), makeReq(map[string]any{}))
	require.NoError(t, err)

	text := textOf(t, result)
	assert.Contains(t, text, "web_search")
	assert.Contains(t, text, "batch_processing")
	assert.Contains(t, text, "mcp_fs_read_file")
}

// --- Learning ---

func TestLearningStats_EmptyAndPopulated(t *testing.T) {
	t.Parallel()
	store := learning.NewMessageStore(newMemKV())
	engine := learning.NewEngine(store)
	handler := LearningStats(engine)

	result, err := handler(context.Background(), makeReq(map[string]any{}))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, result), "No rated responses")

	require.NoError(t, store.Save(learning.Message{ID: "m1", Content: "a", Rating: 2, Timestamp: time.Now().UTC()}))
	require.NoError(t, store.Save(learning.Message{ID: "m2", Content: "b", Rating: 4, Timestamp: time.Now().UTC()}))

	result, err = handler(context.Background(), makeReq(map[string]any{}))
	require.NoError(t, err)

	text := textOf(t, result)
	assert.Contains(t, text, "Total ratings: 2")
	assert.Contains(t, text, "Average rating: 3.0/5.0")
	assert.Contains(t, text, "Improvement rate: +100.0%")
}

// --- DailySummary ---

func TestDailySummary_RendersInsights(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	handler := DailySummary(deps.agents, deps.orchestrator)

	day := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	require.NoError(t, deps.tasks.Save(task.Task{
		ID: "task-1", AgentID: "writer", Status: task.StatusCompleted, Timestamp: day,
	}))

	result, err := handler(context.Background(), makeReq(map[string]any{
		"agent_id": "writer",
		"date":     "2025-06-03",
	}))
	require.NoError(t, err)

	text := textOf(t, result)
	assert.Contains(t, text, "2025-06-03 — 1 tasks, 1 completed")
	assert.Contains(t, text, "Perfect completion rate")
}

func TestDailySummary_UnknownAgent(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	handler := DailySummary(deps.agents, deps.orchestrator)

	result, err := handler(context.Background(), makeReq(map[string]any{"agent_id": "ghost"}))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, result), "Agent error")
}
