// Package calendar aggregates an agent's task history into per-day
// summaries with derived insights. Summaries are computed on demand and
// never cached.
package calendar

import (
	"fmt"

	"github.com/kolapsis/aide/internal/agent"
	"github.com/kolapsis/aide/internal/task"
)

// DailySummary is one agent's activity for one UTC day.
type DailySummary struct {
	AgentID        string      `json:"agentId"`
	AgentName      string      `json:"agentName"`
	Date           string      `json:"date"` // 2006-01-02
	TotalTasks     int         `json:"totalTasks"`
	CompletedTasks int         `json:"completedTasks"`
	AverageRating  float64     `json:"averageRating"`
	Tasks          []task.Task `json:"tasks"`
	Insights       []string    `json:"learningInsights"`
}

// Summarize groups the agent's tasks by UTC calendar day and derives the
// per-day insight lines. Tasks belonging to other agents are ignored.
func Summarize(ag *agent.Agent, tasks []task.Task) map[string]DailySummary {
	byDate := make(map[string]DailySummary)

	for _, t := range tasks {
		if t.AgentID != ag.ID {
			continue
		}
		date := t.Timestamp.UTC().Format("2006-01-02")

		summary, ok := byDate[date]
		if !ok {
			summary = DailySummary{
				AgentID:   ag.ID,
				AgentName: ag.Name,
				Date:      date,
			}
		}

		summary.TotalTasks++
		summary.Tasks = append(summary.Tasks, t)
		if t.Status == task.StatusCompleted {
			summary.CompletedTasks++
		}

		byDate[date] = summary
	}

	for date, summary := range byDate {
		var ratingSum float64
		var rated int
		for _, t := range summary.Tasks {
			if t.Rating != 0 {
				ratingSum += t.Rating
				rated++
			}
		}
		if rated > 0 {
			summary.AverageRating = ratingSum / float64(rated)
		}
		summary.Insights = insights(summary)
		byDate[date] = summary
	}

	return byDate
}

// insights derives the day's insight lines. Rule order is fixed: one
// completion-rate line, then one rating line, then an error count.
func insights(summary DailySummary) []string {
	var out []string

	switch {
	case summary.CompletedTasks == 0:
		out = append(out, "No completed tasks - check for configuration issues")
	case float64(summary.CompletedTasks)/float64(summary.TotalTasks) < 0.5:
		out = append(out, "Low completion rate - may need prompt optimization")
	case summary.CompletedTasks == summary.TotalTasks:
		out = append(out, "Perfect completion rate - agent performing well")
	}

	switch {
	case summary.AverageRating >= 4:
		out = append(out, "High quality outputs - maintain current approach")
	case summary.AverageRating <= 2 && summary.AverageRating > 0:
		out = append(out, "Low ratings - review and improve prompts")
	case summary.AverageRating > 0:
		out = append(out, "Moderate performance - room for improvement")
	}

	errors := 0
	for _, t := range summary.Tasks {
		if t.Status == task.StatusError {
			errors++
		}
	}
	if errors > 0 {
		out = append(out, fmt.Sprintf("%d errors encountered - investigate common issues", errors))
	}

	return out
}
