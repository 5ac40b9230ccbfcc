package config

import "time"

// Config is the root configuration for aide.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Search   SearchConfig   `yaml:"search"`
	Agents   []AgentSeed    `yaml:"agents"`
}

type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LLMConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type SearchConfig struct {
	TavilyBaseURL    string        `yaml:"tavily_base_url"`
	TavilyAPIKey     string        `yaml:"tavily_api_key"`
	FirecrawlBaseURL string        `yaml:"firecrawl_base_url"`
	FirecrawlAPIKey  string        `yaml:"firecrawl_api_key"`
	Timeout          time.Duration `yaml:"timeout"`
	CacheSize        int           `yaml:"cache_size"`
}

// AgentSeed describes an agent loaded into the store at startup.
type AgentSeed struct {
	ID           string           `yaml:"id"`
	Name         string           `yaml:"name"`
	Prompt       string           `yaml:"prompt"`
	APIKey       string           `yaml:"api_key"`
	Model        string           `yaml:"model"`
	Active       bool             `yaml:"active"`
	Capabilities []CapabilitySeed `yaml:"capabilities"`
}

// CapabilitySeed enables a capability for a seeded agent. Config overrides
// the catalog defaults; omitted keys keep their default values.
type CapabilitySeed struct {
	ID      string         `yaml:"id"`
	Enabled bool           `yaml:"enabled"`
	Config  map[string]any `yaml:"config"`
}

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "127.0.0.1",
			Port:     8430,
			LogLevel: "info",
		},
		Database: DatabaseConfig{
			Path: "~/.config/aide/aide.db",
		},
		LLM: LLMConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "google/gemini-2.5-pro-preview",
			Timeout: 2 * time.Minute,
		},
		Search: SearchConfig{
			TavilyBaseURL:    "https://api.tavily.com",
			FirecrawlBaseURL: "https://api.firecrawl.dev",
			Timeout:          30 * time.Second,
			CacheSize:        128,
		},
	}
}
