// Package agent defines the agent data model: a named configuration
// bundling a system prompt, model selector and an enabled capability set.
// Agents are read-only inputs to the task subsystem; execution never
// mutates an agent.
package agent

// Agent is a named assistant configuration.
type Agent struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Prompt       string       `json:"prompt"`
	APIKey       string       `json:"apiKey,omitempty"`
	Model        string       `json:"model,omitempty"`
	Active       bool         `json:"isActive"`
	Capabilities []Capability `json:"capabilities,omitempty"`
}

// Capability is a named, independently configurable behavior an agent
// may expose.
type Capability struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Enabled     bool           `json:"enabled"`
	Config      map[string]any `json:"config,omitempty"`
}

// FindCapability returns the agent's capability with the given id, but
// only when it is enabled. The second return is false when the capability
// is absent or disabled.
func (a *Agent) FindCapability(id string) (Capability, bool) {
	for _, c := range a.Capabilities {
		if c.ID == id && c.Enabled {
			return c, true
		}
	}
	return Capability{}, false
}
