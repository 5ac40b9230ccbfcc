package toolhost

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func (m *memKV) List(prefix string) (map[string][]byte, error) {
	return nil, nil
}

func (m *memKV) Close() error { return nil }

func newSourceWithServers(t *testing.T, servers ...Server) *SimulatedSource {
	t.Helper()
	src := NewSimulatedSource(newMemKV())
	for _, srv := range servers {
		require.NoError(t, src.SaveServer(srv))
	}
	return src
}

func TestListTools_OnlyRunningServers(t *testing.T) {
	t.Parallel()

	src := newSourceWithServers(t,
		Server{ID: "fs", Name: "filesystem", Command: "server-filesystem", Status: "running"},
		Server{ID: "gh", Name: "github", Command: "server-github", Status: "stopped"},
	)

	tools, err := src.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 3) // filesystem set only

	for _, tool := range tools {
		assert.Equal(t, "fs", tool.ServerID)
		assert.Equal(t, "filesystem", tool.ServerName)
	}
}

func TestListTools_DiscoveryBySubstring(t *testing.T) {
	t.Parallel()

	src := newSourceWithServers(t,
		Server{ID: "s1", Name: "my search helper", Command: "node brave-server", Status: "running"},
		Server{ID: "s2", Name: "mystery", Command: "whatever", Status: "running"},
	)

	tools, err := src.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)

	names := []string{tools[0].Name, tools[1].Name}
	assert.Contains(t, names, "brave_search")
	assert.Contains(t, names, "generic_tool")
}

func TestInvoke_UnknownServer(t *testing.T) {
	t.Parallel()

	src := newSourceWithServers(t)

	_, err := src.Invoke(context.Background(), "ghost", "read_file", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestInvoke_StoppedServer(t *testing.T) {
	t.Parallel()

	src := newSourceWithServers(t,
		Server{ID: "fs", Name: "filesystem", Command: "server-filesystem", Status: "stopped"},
	)

	_, err := src.Invoke(context.Background(), "fs", "read_file", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not running")
}

func TestInvoke_ReturnsCannedResult(t *testing.T) {
	t.Parallel()

	src := newSourceWithServers(t,
		Server{ID: "fs", Name: "filesystem", Command: "server-filesystem", Status: "running"},
	)

	result, err := src.Invoke(context.Background(), "fs", "read_file", map[string]any{"path": "/etc/hosts"})
	require.NoError(t, err)

	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/etc/hosts", m["path"])
	assert.Contains(t, m["content"], "/etc/hosts")
}

func TestSaveServer_Upserts(t *testing.T) {
	t.Parallel()

	src := newSourceWithServers(t,
		Server{ID: "fs", Name: "filesystem", Status: "stopped"},
	)
	require.NoError(t, src.SaveServer(Server{ID: "fs", Name: "filesystem", Status: "running"}))

	servers := src.Servers()
	require.Len(t, servers, 1)
	assert.Equal(t, "running", servers[0].Status)
}
