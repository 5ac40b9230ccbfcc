package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolapsis/aide/internal/agent"
	"github.com/kolapsis/aide/internal/capability"
	"github.com/kolapsis/aide/internal/llm"
)

type fakeAgents struct {
	agents map[string]*agent.Agent
}

func (f *fakeAgents) Get(id string) (*agent.Agent, error) {
	if a, ok := f.agents[id]; ok {
		return a, nil
	}
	return nil, agent.ErrNotFound
}

type fakeExecutor struct {
	executeFunc func(ctx context.Context, ag *agent.Agent, capabilityID, input, extra string) (*capability.Outcome, error)
}

func (f *fakeExecutor) Execute(ctx context.Context, ag *agent.Agent, capabilityID, input, extra string) (*capability.Outcome, error) {
	if f.executeFunc != nil {
		return f.executeFunc(ctx, ag, capabilityID, input, extra)
	}
	return &capability.Outcome{Success: true, Result: map[string]any{"ok": true}}, nil
}

type fakeLLM struct {
	completeFunc func(ctx context.Context, req llm.Request) (string, error)
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	if f.completeFunc != nil {
		return f.completeFunc(ctx, req)
	}
	return "generic result", nil
}

func researchAgent() *agent.Agent {
	return &agent.Agent{
		ID:     "researcher",
		Name:   "Researcher",
		Prompt: "You are a researcher.",
		Active: true,
		Capabilities: []agent.Capability{
			{ID: "web_search", Enabled: true},
		},
	}
}

func newTestOrchestrator(executor Executor, completer llm.Client) (*Orchestrator, *Store) {
	store := NewStore(newMemKV())
	agents := &fakeAgents{agents: map[string]*agent.Agent{"researcher": researchAgent()}}
	return NewOrchestrator(store, agents, executor, completer, nil), store
}

// waitSettled blocks until the task's background run finishes.
func waitSettled(t *testing.T, o *Orchestrator, id string) {
	t.Helper()
	ch := o.Done(id)
	if ch == nil {
		return
	}
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("task %s did not settle", id)
	}
}

func TestInitiate_GenericTaskCompletes(t *testing.T) {
	t.Parallel()

	completer := &fakeLLM{
		completeFunc: func(_ context.Context, req llm.Request) (string, error) {
			assert.Equal(t, "You are a researcher.\n\nTask: summarize the news", req.Prompt)
			return "here is a summary", nil
		},
	}
	o, store := newTestOrchestrator(&fakeExecutor{}, completer)

	id, err := o.Initiate(context.Background(), Request{AgentID: "researcher", Prompt: "summarize the news"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	waitSettled(t, o, id)

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, "here is a summary", got.Result)
	assert.Empty(t, got.Error)
}

func TestInitiate_UnknownAgentPersistsNothing(t *testing.T) {
	t.Parallel()

	o, store := newTestOrchestrator(&fakeExecutor{}, &fakeLLM{})

	_, err := o.Initiate(context.Background(), Request{AgentID: "ghost", Prompt: "anything"})
	require.Error(t, err)
	assert.ErrorIs(t, err, agent.ErrNotFound)
	assert.Empty(t, store.List())
}

func TestInitiate_CapabilityTaskSynthesizesPrompt(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{
		executeFunc: func(_ context.Context, _ *agent.Agent, capabilityID, input, extra string) (*capability.Outcome, error) {
			assert.Equal(t, "web_search", capabilityID)
			assert.Equal(t, "golang news", input)
			assert.Equal(t, capabilityTaskInstruction, extra)
			return &capability.Outcome{Success: true, Result: map[string]any{"analysis": "findings"}}, nil
		},
	}
	o, store := newTestOrchestrator(executor, &fakeLLM{})

	id, err := o.Initiate(context.Background(), Request{
		AgentID:         "researcher",
		Capability:      "web_search",
		CapabilityInput: "golang news",
	})
	require.NoError(t, err)

	waitSettled(t, o, id)

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Use web_search capability: golang news", got.Prompt)
	assert.Equal(t, "web_search", got.Capability)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.JSONEq(t, `{"analysis":"findings"}`, got.Result)
}

func TestRun_FailedOutcomeBecomesErrorState(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{
		executeFunc: func(context.Context, *agent.Agent, string, string, string) (*capability.Outcome, error) {
			return &capability.Outcome{Success: false, Error: "search api unreachable"}, nil
		},
	}
	o, store := newTestOrchestrator(executor, &fakeLLM{})

	id, err := o.Initiate(context.Background(), Request{
		AgentID:         "researcher",
		Capability:      "web_search",
		CapabilityInput: "anything",
	})
	require.NoError(t, err)

	waitSettled(t, o, id)

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "search api unreachable", got.Error)
	assert.Empty(t, got.Result)
}

func TestRun_CompletionErrorBecomesErrorState(t *testing.T) {
	t.Parallel()

	completer := &fakeLLM{
		completeFunc: func(context.Context, llm.Request) (string, error) {
			return "", errors.New("model overloaded")
		},
	}
	o, store := newTestOrchestrator(&fakeExecutor{}, completer)

	id, err := o.Initiate(context.Background(), Request{AgentID: "researcher", Prompt: "anything"})
	require.NoError(t, err)

	waitSettled(t, o, id)

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "model overloaded", got.Error)
	assert.Empty(t, got.Result)
}

func TestRun_PanicIsRecoveredIntoErrorState(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{
		executeFunc: func(context.Context, *agent.Agent, string, string, string) (*capability.Outcome, error) {
			panic("handler blew up")
		},
	}
	o, store := newTestOrchestrator(executor, &fakeLLM{})

	id, err := o.Initiate(context.Background(), Request{
		AgentID:         "researcher",
		Capability:      "web_search",
		CapabilityInput: "anything",
	})
	require.NoError(t, err)

	waitSettled(t, o, id)

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusError, got.Status)
	assert.Contains(t, got.Error, "internal panic")
}

func TestRate_ValidatesRatingAndState(t *testing.T) {
	t.Parallel()

	o, store := newTestOrchestrator(&fakeExecutor{}, &fakeLLM{})
	require.NoError(t, store.Save(Task{ID: "done", Status: StatusCompleted, Result: "ok"}))
	require.NoError(t, store.Save(Task{ID: "pending", Status: StatusPending}))

	_, err := o.Rate("done", 5.5)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = o.Rate("done", 0.3)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = o.Rate("done", 1.7)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = o.Rate("pending", 4)
	assert.ErrorIs(t, err, ErrNotRatable)

	_, err = o.Rate("ghost", 4)
	assert.ErrorIs(t, err, ErrNotFound)

	rated, err := o.Rate("done", 4.5)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, rated.Rating, 0.001)

	got, err := store.Get("done")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, got.Rating, 0.001)
}

func TestList_FiltersAndSortsNewestFirst(t *testing.T) {
	t.Parallel()

	o, store := newTestOrchestrator(&fakeExecutor{}, &fakeLLM{})
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(Task{ID: "t1", AgentID: "a1", Status: StatusCompleted, Timestamp: base}))
	require.NoError(t, store.Save(Task{ID: "t2", AgentID: "a2", Status: StatusError, Timestamp: base.Add(time.Hour)}))
	require.NoError(t, store.Save(Task{ID: "t3", AgentID: "a1", Status: StatusCompleted, Timestamp: base.Add(2 * time.Hour)}))

	all := o.List(Filter{})
	require.Len(t, all, 3)
	assert.Equal(t, "t3", all[0].ID)
	assert.Equal(t, "t1", all[2].ID)

	completed := o.List(Filter{Status: "completed", AgentID: "a1"})
	require.Len(t, completed, 2)

	limited := o.List(Filter{Limit: 1})
	require.Len(t, limited, 1)
	assert.Equal(t, "t3", limited[0].ID)
}
