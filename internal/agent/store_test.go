package agent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolapsis/aide/internal/config"
)

// memKV is an in-memory kv.Store for tests.
type memKV struct {
	data map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *memKV) List(prefix string) (map[string][]byte, error) {
	out := make(map[string][]byte)
	for k, v := range m.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			out[k] = v
		}
	}
	return out, nil
}

func (m *memKV) Close() error { return nil }

func TestStore_SaveAndGet(t *testing.T) {
	t.Parallel()
	s := NewStore(newMemKV())

	require.NoError(t, s.Save(Agent{ID: "researcher", Name: "Researcher", Active: true}))

	got, err := s.Get("researcher")
	require.NoError(t, err)
	assert.Equal(t, "Researcher", got.Name)
	assert.True(t, got.Active)
}

func TestStore_Get_UnknownReturnsNotFound(t *testing.T) {
	t.Parallel()
	s := NewStore(newMemKV())

	_, err := s.Get("ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_Save_UpsertsByID(t *testing.T) {
	t.Parallel()
	s := NewStore(newMemKV())

	require.NoError(t, s.Save(Agent{ID: "a1", Name: "First"}))
	require.NoError(t, s.Save(Agent{ID: "a1", Name: "Second"}))

	agents := s.List()
	require.Len(t, agents, 1)
	assert.Equal(t, "Second", agents[0].Name)
}

func TestStore_List_MalformedCollectionIsEmpty(t *testing.T) {
	t.Parallel()
	mem := newMemKV()
	mem.data[collectionKey] = []byte("{not json")
	s := NewStore(mem)

	assert.Empty(t, s.List())
}

func TestStore_ListActive_FiltersInactive(t *testing.T) {
	t.Parallel()
	s := NewStore(newMemKV())

	require.NoError(t, s.Save(Agent{ID: "on", Active: true}))
	require.NoError(t, s.Save(Agent{ID: "off", Active: false}))

	active := s.ListActive()
	require.Len(t, active, 1)
	assert.Equal(t, "on", active[0].ID)
}

func TestStore_Seed_MergesCatalogDefaults(t *testing.T) {
	t.Parallel()
	s := NewStore(newMemKV())

	err := s.Seed([]config.AgentSeed{{
		ID:     "researcher",
		Name:   "Researcher",
		Prompt: "You research things.",
		Active: true,
		Capabilities: []config.CapabilitySeed{
			{ID: "web_search", Enabled: true, Config: map[string]any{"maxResults": 3}},
		},
	}})
	require.NoError(t, err)

	got, err := s.Get("researcher")
	require.NoError(t, err)
	require.Len(t, got.Capabilities, 1)

	c := got.Capabilities[0]
	assert.True(t, c.Enabled)
	assert.Equal(t, "Web Search", c.Name)
	assert.Equal(t, 3, c.Config["maxResults"])
	// untouched defaults survive the override merge
	assert.Equal(t, "advanced", c.Config["searchDepth"])
}

func TestFindCapability_DisabledIsNotFound(t *testing.T) {
	t.Parallel()

	a := Agent{Capabilities: []Capability{
		{ID: "web_search", Enabled: false},
		{ID: "research", Enabled: true},
	}}

	_, ok := a.FindCapability("web_search")
	assert.False(t, ok)

	_, ok = a.FindCapability("research")
	assert.True(t, ok)

	_, ok = a.FindCapability("absent")
	assert.False(t, ok)
}
