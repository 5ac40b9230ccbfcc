package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kolapsis/aide/internal/config"
	"github.com/kolapsis/aide/internal/kv"
)

// ErrNotFound is returned when an agent id cannot be resolved.
var ErrNotFound = errors.New("agent not found")

const collectionKey = "agents"

// Store persists agents as one whole-collection value in the key-value
// store. Writes are read-modify-write over the full collection.
type Store struct {
	kv kv.Store
}

// NewStore creates an agent Store over the given key-value store.
func NewStore(kvs kv.Store) *Store {
	return &Store{kv: kvs}
}

// List returns all agents. A malformed collection degrades to an empty
// list; the failure is logged but not surfaced to callers.
func (s *Store) List() []Agent {
	data, ok, err := s.kv.Get(collectionKey)
	if err != nil || !ok {
		if err != nil {
			slog.Warn("reading agents collection", "error", err)
		}
		return nil
	}

	var agents []Agent
	if err := json.Unmarshal(data, &agents); err != nil {
		slog.Warn("malformed agents collection, treating as empty", "error", err)
		return nil
	}
	return agents
}

// ListActive returns only agents with the active flag set.
func (s *Store) ListActive() []Agent {
	var active []Agent
	for _, a := range s.List() {
		if a.Active {
			active = append(active, a)
		}
	}
	return active
}

// Get resolves an agent by id.
func (s *Store) Get(id string) (*Agent, error) {
	for _, a := range s.List() {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("agent %q: %w", id, ErrNotFound)
}

// Save upserts an agent into the collection.
func (s *Store) Save(a Agent) error {
	agents := s.List()

	replaced := false
	for i := range agents {
		if agents[i].ID == a.ID {
			agents[i] = a
			replaced = true
			break
		}
	}
	if !replaced {
		agents = append(agents, a)
	}

	data, err := json.Marshal(agents)
	if err != nil {
		return fmt.Errorf("encoding agents: %w", err)
	}
	if err := s.kv.Put(collectionKey, data); err != nil {
		return fmt.Errorf("writing agents collection: %w", err)
	}
	return nil
}

// Seed upserts agents declared in the configuration. Capability entries
// start from the catalog defaults and apply per-agent config overrides.
func (s *Store) Seed(seeds []config.AgentSeed) error {
	for _, seed := range seeds {
		a := Agent{
			ID:     seed.ID,
			Name:   seed.Name,
			Prompt: seed.Prompt,
			APIKey: seed.APIKey,
			Model:  seed.Model,
			Active: seed.Active,
		}
		for _, cs := range seed.Capabilities {
			entry, ok := CatalogCapability(cs.ID)
			if !ok {
				// External tool capabilities have no catalog entry.
				entry = Capability{ID: cs.ID, Name: cs.ID}
			}
			entry.Enabled = cs.Enabled
			if len(cs.Config) > 0 {
				merged := make(map[string]any, len(entry.Config)+len(cs.Config))
				for k, v := range entry.Config {
					merged[k] = v
				}
				for k, v := range cs.Config {
					merged[k] = v
				}
				entry.Config = merged
			}
			a.Capabilities = append(a.Capabilities, entry)
		}
		if err := s.Save(a); err != nil {
			return fmt.Errorf("seeding agent %q: %w", seed.ID, err)
		}
	}
	return nil
}
