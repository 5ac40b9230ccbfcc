package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/aide/internal/mcp/handlers"
)

func registerTools(s *server.MCPServer, deps *Deps) {
	// start_task — Launch a background agent task
	s.AddTool(
		mcp.NewTool("start_task",
			mcp.WithDescription("Start a background task for an agent. Returns immediately with a task ID. The task runs asynchronously — use check_task to monitor progress."),
			mcp.WithString("agent_id",
				mcp.Required(),
				mcp.Description("ID of the agent that should run the task"),
			),
			mcp.WithString("prompt",
				mcp.Description("Task instructions for a general task"),
			),
			mcp.WithString("capability",
				mcp.Description("Capability ID to execute instead of a general prompt (e.g. 'web_search')"),
			),
			mcp.WithString("capability_input",
				mcp.Description("Input for the capability (query, URLs, requirements...)"),
			),
		),
		handlers.StartTask(deps.Orchestrator),
	)

	// check_task — Check task status
	s.AddTool(
		mcp.NewTool("check_task",
			mcp.WithDescription("Check the current status of a task. Supports long-polling with wait_seconds to reduce polling overhead."),
			mcp.WithString("task_id",
				mcp.Required(),
				mcp.Description("The task ID returned by start_task"),
			),
			mcp.WithNumber("wait_seconds",
				mcp.Description("Wait up to N seconds for the task to settle before responding (long-poll). 0 for immediate response."),
			),
		),
		handlers.CheckTask(deps.Orchestrator),
	)

	// get_result — Get full task result
	s.AddTool(
		mcp.NewTool("get_result",
			mcp.WithDescription("Get the complete result of a finished task."),
			mcp.WithString("task_id",
				mcp.Required(),
				mcp.Description("The task ID returned by start_task"),
			),
			mcp.WithString("format",
				mcp.Description("Output format: summary (truncated), full (complete result), json (raw record)"),
				mcp.Enum("summary", "full", "json"),
			),
		),
		handlers.GetResult(deps.Orchestrator),
	)

	// list_tasks — List tasks
	s.AddTool(
		mcp.NewTool("list_tasks",
			mcp.WithDescription("List tasks with optional filters, newest first."),
			mcp.WithString("status",
				mcp.Description("Filter by status"),
				mcp.Enum("all", "pending", "running", "completed", "error"),
			),
			mcp.WithString("agent_id",
				mcp.Description("Filter by agent ID"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of tasks to return (default: 20)"),
			),
		),
		handlers.ListTasks(deps.Orchestrator),
	)

	// rate_task — Rate a completed task
	s.AddTool(
		mcp.NewTool("rate_task",
			mcp.WithDescription("Rate a completed task from 0.5 to 5 stars in half-point steps. Ratings feed the learning analytics."),
			mcp.WithString("task_id",
				mcp.Required(),
				mcp.Description("The task ID to rate"),
			),
			mcp.WithNumber("rating",
				mcp.Required(),
				mcp.Description("Rating between 0.5 and 5.0 in half-point steps"),
			),
		),
		handlers.RateTask(deps.Orchestrator),
	)

	// list_agents — List registered agents
	s.AddTool(
		mcp.NewTool("list_agents",
			mcp.WithDescription("List registered agents with their enabled capabilities."),
			mcp.WithBoolean("active_only",
				mcp.Description("Only list agents marked active"),
			),
		),
		handlers.ListAgents(deps.Agents),
	)

	// list_capabilities — List available capabilities
	s.AddTool(
		mcp.NewTool("list_capabilities",
			mcp.WithDescription("List the built-in capability catalog plus capabilities derived from registered tool servers."),
		),
		handlers.ListCapabilities(deps.Tools),
	)

	// learning_stats — Feedback statistics
	s.AddTool(
		mcp.NewTool("learning_stats",
			mcp.WithDescription("Show feedback statistics over rated responses: average, trend, improvement rate and rating distribution."),
		),
		handlers.LearningStats(deps.Learning),
	)

	// learning_summary — Learning context block
	s.AddTool(
		mcp.NewTool("learning_summary",
			mcp.WithDescription("Render the learning context block derived from rated responses, as injected into agent prompts."),
		),
		handlers.LearningSummary(deps.Learning),
	)

	// daily_summary — Per-day agent activity
	s.AddTool(
		mcp.NewTool("daily_summary",
			mcp.WithDescription("Show an agent's per-day task summaries with completion counts, ratings and derived insights."),
			mcp.WithString("agent_id",
				mcp.Required(),
				mcp.Description("Agent to summarize"),
			),
			mcp.WithString("date",
				mcp.Description("Single day to show (format: 2006-01-02). If omitted, lists all days, newest first."),
			),
		),
		handlers.DailySummary(deps.Agents, deps.Orchestrator),
	)
}
