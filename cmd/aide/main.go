package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/aide/internal/agent"
	"github.com/kolapsis/aide/internal/capability"
	"github.com/kolapsis/aide/internal/config"
	"github.com/kolapsis/aide/internal/httpapi"
	"github.com/kolapsis/aide/internal/kv"
	"github.com/kolapsis/aide/internal/learning"
	"github.com/kolapsis/aide/internal/llm"
	aidemcp "github.com/kolapsis/aide/internal/mcp"
	"github.com/kolapsis/aide/internal/notify"
	"github.com/kolapsis/aide/internal/search"
	"github.com/kolapsis/aide/internal/task"
	"github.com/kolapsis/aide/internal/toolhost"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "version":
		fmt.Printf("aide %s\n", version)
	case "check":
		cmdCheck(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: aide <command> [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve     Start the Aide server\n")
	fmt.Fprintf(os.Stderr, "  check     Validate configuration\n")
	fmt.Fprintf(os.Stderr, "  version   Print version\n")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args) // ExitOnError handles errors

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	slog.Info("starting aide",
		"version", version,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args) // ExitOnError handles errors

	_, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("configuration is valid")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch cfg.Server.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlers := []slog.Handler{
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	}

	if cfg.Server.LogFile != "" {
		f, err := os.OpenFile(cfg.Server.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			slog.Warn("failed to open log file, using stdout only", "path", cfg.Server.LogFile, "error", err)
		} else {
			handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		}
	}

	logger := slog.New(slog.NewMultiHandler(handlers...))
	slog.SetDefault(logger)
}

func run(ctx context.Context, cfg *config.Config) error {
	// --- SQLite key-value store ---
	dbPath := config.ExpandHome(cfg.Database.Path)
	db, err := kv.NewSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	slog.Info("database opened", "path", dbPath)

	// --- Record stores ---
	agents := agent.NewStore(db)
	if err := agents.Seed(cfg.Agents); err != nil {
		return fmt.Errorf("seeding agents: %w", err)
	}
	tasks := task.NewStore(db)
	messages := learning.NewMessageStore(db)

	// --- Collaborator clients ---
	completer := llm.NewHTTPClient(llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})

	searcher, err := search.NewHTTPClient(search.Config{
		TavilyBaseURL:    cfg.Search.TavilyBaseURL,
		TavilyAPIKey:     cfg.Search.TavilyAPIKey,
		FirecrawlBaseURL: cfg.Search.FirecrawlBaseURL,
		FirecrawlAPIKey:  cfg.Search.FirecrawlAPIKey,
		Timeout:          cfg.Search.Timeout,
		CacheSize:        cfg.Search.CacheSize,
	})
	if err != nil {
		return fmt.Errorf("creating search client: %w", err)
	}

	tools := toolhost.NewSimulatedSource(db)

	// --- Dispatcher + Orchestrator ---
	dispatcher := capability.NewDispatcher(completer, searcher, tools)
	engine := learning.NewEngine(messages)

	hub := notify.NewHub(notify.LogNotifier{})
	orchestrator := task.NewOrchestrator(tasks, agents, dispatcher, completer, hub)

	// --- MCP Server ---
	mcpServer := aidemcp.NewServer(&aidemcp.Deps{
		Agents:       agents,
		Orchestrator: orchestrator,
		Learning:     engine,
		Tools:        tools,
		Version:      version,
	})

	// The MCP notifier needs the server, which needs the orchestrator,
	// which needs the hub. Attach it after the server exists.
	hub.Add(notify.NewMCPNotifier(mcpServer))

	mcpHTTP := server.NewStreamableHTTPServer(mcpServer)

	// --- HTTP Router ---
	r := chi.NewRouter()
	r.Handle("/mcp", mcpHTTP)
	r.Mount("/api", httpapi.New(agents, orchestrator, engine).Routes())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// --- HTTP Server ---
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("aide is ready", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
