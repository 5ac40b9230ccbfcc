package toolhost

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kolapsis/aide/internal/kv"
)

const serversKey = "tool-servers"

// SimulatedSource fakes a tool protocol: discovery is keyed by naive
// substring matches on server name/command and invocations return canned
// results. Not a faithful protocol implementation — it exists so the
// capability layer can be exercised without live servers.
type SimulatedSource struct {
	kv kv.Store
}

// NewSimulatedSource creates a SimulatedSource reading its server
// registry from the key-value store.
func NewSimulatedSource(kvs kv.Store) *SimulatedSource {
	return &SimulatedSource{kv: kvs}
}

// Servers returns the registered tool servers. A malformed registry
// degrades to empty, logged.
func (s *SimulatedSource) Servers() []Server {
	data, ok, err := s.kv.Get(serversKey)
	if err != nil || !ok {
		if err != nil {
			slog.Warn("reading tool server registry", "error", err)
		}
		return nil
	}

	var servers []Server
	if err := json.Unmarshal(data, &servers); err != nil {
		slog.Warn("malformed tool server registry, treating as empty", "error", err)
		return nil
	}
	return servers
}

// SaveServer upserts a server registration.
func (s *SimulatedSource) SaveServer(srv Server) error {
	servers := s.Servers()

	replaced := false
	for i := range servers {
		if servers[i].ID == srv.ID {
			servers[i] = srv
			replaced = true
			break
		}
	}
	if !replaced {
		servers = append(servers, srv)
	}

	data, err := json.Marshal(servers)
	if err != nil {
		return fmt.Errorf("encoding tool servers: %w", err)
	}
	if err := s.kv.Put(serversKey, data); err != nil {
		return fmt.Errorf("writing tool server registry: %w", err)
	}
	return nil
}

// ListTools returns tools from all running servers.
func (s *SimulatedSource) ListTools(_ context.Context) ([]Tool, error) {
	var tools []Tool
	for _, srv := range s.Servers() {
		if srv.Status != "running" {
			continue
		}
		for _, t := range serverTools(srv) {
			t.ServerID = srv.ID
			t.ServerName = srv.Name
			tools = append(tools, t)
		}
	}
	return tools, nil
}

// serverTools fakes tool discovery by substring matches on the server
// name/command, mirroring the tool sets commonly exposed by such servers.
func serverTools(srv Server) []Tool {
	name := strings.ToLower(srv.Name)
	command := strings.ToLower(srv.Command)

	switch {
	case strings.Contains(command, "filesystem") || strings.Contains(name, "filesystem"):
		return []Tool{
			{
				Name:        "read_file",
				Description: "Read the contents of a file",
				Parameters: objectSchema(map[string]any{
					"path": stringParam("Path to the file to read"),
				}, "path"),
			},
			{
				Name:        "write_file",
				Description: "Write content to a file",
				Parameters: objectSchema(map[string]any{
					"path":    stringParam("Path to the file to write"),
					"content": stringParam("Content to write to the file"),
				}, "path", "content"),
			},
			{
				Name:        "list_directory",
				Description: "List contents of a directory",
				Parameters: objectSchema(map[string]any{
					"path": stringParam("Path to the directory to list"),
				}, "path"),
			},
		}

	case strings.Contains(command, "brave") || strings.Contains(name, "search"):
		return []Tool{
			{
				Name:        "brave_search",
				Description: "Search the web using Brave Search",
				Parameters: objectSchema(map[string]any{
					"query": stringParam("Search query"),
					"count": map[string]any{"type": "number", "description": "Number of results to return", "default": 10},
				}, "query"),
			},
		}

	case strings.Contains(command, "github") || strings.Contains(name, "github"):
		return []Tool{
			{
				Name:        "search_repositories",
				Description: "Search GitHub repositories",
				Parameters: objectSchema(map[string]any{
					"query":    stringParam("Search query"),
					"language": stringParam("Programming language filter"),
				}, "query"),
			},
			{
				Name:        "get_repository_info",
				Description: "Get information about a GitHub repository",
				Parameters: objectSchema(map[string]any{
					"owner": stringParam("Repository owner"),
					"repo":  stringParam("Repository name"),
				}, "owner", "repo"),
			},
		}

	default:
		return []Tool{
			{
				Name:        "generic_tool",
				Description: "A generic tool provided by this server",
				Parameters: objectSchema(map[string]any{
					"input": stringParam("Input for the tool"),
				}, "input"),
			},
		}
	}
}

// Invoke simulates a tool call. The server must exist and be running.
func (s *SimulatedSource) Invoke(_ context.Context, serverID, toolName string, args map[string]any) (any, error) {
	var srv *Server
	for _, candidate := range s.Servers() {
		if candidate.ID == serverID {
			srv = &candidate
			break
		}
	}
	if srv == nil {
		return nil, fmt.Errorf("tool server %q not found", serverID)
	}
	if srv.Status != "running" {
		return nil, fmt.Errorf("tool server %q is not running", srv.Name)
	}

	return simulateInvocation(toolName, args), nil
}

func simulateInvocation(toolName string, args map[string]any) any {
	switch toolName {
	case "read_file":
		path, _ := args["path"].(string)
		return map[string]any{
			"content": fmt.Sprintf("Simulated file content from %s", path),
			"path":    path,
			"size":    1024,
		}

	case "write_file":
		path, _ := args["path"].(string)
		content, _ := args["content"].(string)
		return map[string]any{
			"success":      true,
			"path":         path,
			"bytesWritten": len(content),
		}

	case "list_directory":
		path, _ := args["path"].(string)
		return map[string]any{
			"path": path,
			"files": []map[string]any{
				{"name": "file1.txt", "type": "file", "size": 1024},
				{"name": "file2.js", "type": "file", "size": 2048},
				{"name": "subdirectory", "type": "directory"},
			},
		}

	case "brave_search":
		query, _ := args["query"].(string)
		return map[string]any{
			"query": query,
			"results": []map[string]any{
				{
					"title":   fmt.Sprintf("Search result for %q", query),
					"url":     "https://example.com/result1",
					"snippet": "This is a simulated search result snippet...",
				},
				{
					"title":   fmt.Sprintf("Another result for %q", query),
					"url":     "https://example.com/result2",
					"snippet": "This is another simulated search result...",
				},
			},
		}

	case "search_repositories":
		query, _ := args["query"].(string)
		language, _ := args["language"].(string)
		if language == "" {
			language = "JavaScript"
		}
		return map[string]any{
			"query": query,
			"repositories": []map[string]any{
				{
					"name":        "example-repo",
					"owner":       "example-user",
					"description": fmt.Sprintf("Repository related to %s", query),
					"stars":       1234,
					"language":    language,
				},
			},
		}

	case "get_repository_info":
		owner, _ := args["owner"].(string)
		repo, _ := args["repo"].(string)
		return map[string]any{
			"name":        repo,
			"owner":       owner,
			"description": "A simulated repository",
			"stars":       5678,
			"forks":       123,
			"language":    "TypeScript",
		}

	default:
		return map[string]any{
			"toolName":  toolName,
			"args":      args,
			"result":    "Simulated tool execution completed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
	}
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func stringParam(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}
