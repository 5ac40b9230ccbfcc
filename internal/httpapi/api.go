// Package httpapi exposes a read-only JSON API for dashboards and
// polling clients. All writes go through the MCP tools.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kolapsis/aide/internal/agent"
	"github.com/kolapsis/aide/internal/calendar"
	"github.com/kolapsis/aide/internal/learning"
	"github.com/kolapsis/aide/internal/task"
)

// API serves the read-only endpoints.
type API struct {
	agents       *agent.Store
	orchestrator *task.Orchestrator
	learning     *learning.Engine
}

// New creates an API over the given collaborators.
func New(agents *agent.Store, orchestrator *task.Orchestrator, engine *learning.Engine) *API {
	return &API{agents: agents, orchestrator: orchestrator, learning: engine}
}

// Routes returns the router for mounting under /api.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/tasks", a.handleListTasks)
	r.Get("/tasks/{id}", a.handleGetTask)
	r.Get("/agents", a.handleListAgents)
	r.Get("/agents/{id}/calendar", a.handleAgentCalendar)
	r.Get("/learning/stats", a.handleLearningStats)
	return r
}

func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filter := task.Filter{
		Status:  r.URL.Query().Get("status"),
		AgentID: r.URL.Query().Get("agent_id"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	tasks := a.orchestrator.List(filter)
	if tasks == nil {
		tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (a *API) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := a.orchestrator.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents := a.agents.List()
	if agents == nil {
		agents = []agent.Agent{}
	}
	writeJSON(w, http.StatusOK, agents)
}

func (a *API) handleAgentCalendar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ag, err := a.agents.Get(id)
	if err != nil {
		if errors.Is(err, agent.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summaries := calendar.Summarize(ag, a.orchestrator.List(task.Filter{AgentID: id}))
	writeJSON(w, http.StatusOK, summaries)
}

func (a *API) handleLearningStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.learning.Stats())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encoding api response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
