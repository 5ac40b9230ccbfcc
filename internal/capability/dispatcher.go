// Package capability routes task execution to capability handlers. Each
// built-in handler composes a capability-specific instruction and
// delegates to the completion collaborator; externally registered tools
// are forwarded to the tool host.
package capability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kolapsis/aide/internal/agent"
	"github.com/kolapsis/aide/internal/llm"
	"github.com/kolapsis/aide/internal/search"
	"github.com/kolapsis/aide/internal/toolhost"
)

// ErrNotFound is returned when a capability is absent from the agent's
// set or present but disabled. Execution never falls back to the generic
// completion path in that case.
var ErrNotFound = errors.New("capability not found or not enabled")

// Outcome is the result of one capability execution. Exactly one of
// Result/Error is meaningful depending on Success.
type Outcome struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Dispatcher executes capabilities against the external collaborators.
// It holds no mutable state; every call is independent.
type Dispatcher struct {
	llm    llm.Client
	search search.Client
	tools  toolhost.Source
}

// NewDispatcher creates a Dispatcher over the given collaborators.
func NewDispatcher(llmClient llm.Client, searchClient search.Client, tools toolhost.Source) *Dispatcher {
	return &Dispatcher{llm: llmClient, search: searchClient, tools: tools}
}

// Execute runs the capability with the given id for the agent. The extra
// instruction is appended to the composed prompt. Collaborator failures
// are converted into a failed Outcome, never propagated as errors; the
// only error return is capability resolution.
func (d *Dispatcher) Execute(ctx context.Context, ag *agent.Agent, capabilityID, input, extra string) (*Outcome, error) {
	c, ok := ag.FindCapability(capabilityID)
	if !ok {
		return nil, fmt.Errorf("capability %q: %w", capabilityID, ErrNotFound)
	}

	if strings.HasPrefix(capabilityID, agent.CapabilityExternalPrefix) {
		return d.executeExternal(ctx, ag, c, input, extra), nil
	}

	switch capabilityID {
	case "web_search":
		return d.executeWebSearch(ctx, ag, c, input, extra), nil
	case "web_scraping":
		return d.executeWebScraping(ctx, ag, c, input, extra), nil
	case "html_generation":
		return d.executeHTMLGeneration(ctx, ag, c, input, extra), nil
	case "code_generation":
		return d.executeCodeGeneration(ctx, ag, c, input, extra), nil
	case "data_analysis":
		return d.executeDataAnalysis(ctx, ag, c, input, extra), nil
	case "content_creation":
		return d.executeContentCreation(ctx, ag, c, input, extra), nil
	case "research":
		return d.executeResearch(ctx, ag, c, input, extra), nil
	case "batch_processing":
		return d.executeBatchProcessing(ctx, ag, c, input, extra), nil
	default:
		return failure(fmt.Sprintf("unknown capability: %s", capabilityID)), nil
	}
}

// executeExternal forwards to the tool host using the routing fields from
// the capability config. When an extra instruction is present, the raw
// tool result is post-processed through a second completion call.
func (d *Dispatcher) executeExternal(ctx context.Context, ag *agent.Agent, c agent.Capability, input, extra string) *Outcome {
	serverID := cfgString(c.Config, "serverId", "")
	toolName := cfgString(c.Config, "toolName", "")
	if serverID == "" || toolName == "" {
		return failure(fmt.Sprintf("capability %s has no tool routing config", c.ID))
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		// Non-JSON input becomes the single "input" argument.
		args = map[string]any{"input": input}
	}

	result, err := d.tools.Invoke(ctx, serverID, toolName, args)
	if err != nil {
		return failure(err.Error())
	}

	if extra == "" {
		return &Outcome{Success: true, Result: result}
	}

	rendered, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		rendered = fmt.Appendf(nil, "%v", result)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n\n", ag.Prompt, extra)
	fmt.Fprintf(&b, "Tool Result from %s:\n%s\n\n", toolName, rendered)
	b.WriteString("Please analyze this result and provide a helpful response.")

	analysis, err := d.complete(ctx, ag, b.String())
	if err != nil {
		return failure(err.Error())
	}

	return &Outcome{Success: true, Result: map[string]any{
		"mcpResult": result,
		"analysis":  analysis,
		"toolName":  toolName,
	}}
}

// complete sends a composed prompt with the agent's own system prompt
// and credentials.
func (d *Dispatcher) complete(ctx context.Context, ag *agent.Agent, prompt string) (string, error) {
	return d.llm.Complete(ctx, llm.Request{
		Prompt:       prompt,
		SystemPrompt: ag.Prompt,
		APIKey:       ag.APIKey,
		Model:        ag.Model,
	})
}

func failure(msg string) *Outcome {
	return &Outcome{Success: false, Error: msg}
}
