package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tidy/internal/adapters/driven/watch"
	"github.com/custodia-labs/tidy/internal/adapters/driving/mcp"
	"github.com/custodia-labs/tidy/internal/core/services"
	"github.com/custodia-labs/tidy/internal/logger"
)

// shutdownTimeout bounds how long serve waits for running tasks on exit.
const shutdownTimeout = 30 * time.Second

// Range searched by --http when no port is configured.
const (
	httpPortStart = 8080
	httpPortEnd   = 8099
)

var (
	servePort  int
	serveHTTP  bool
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and the MCP server",
	Long: `Start the scheduler and serve tasks and operations as MCP tools.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port (or the mcp.port setting) to serve streamable HTTP instead.
Use --http without a port to pick the first free port from 8080-8099.
Use --watch to pick up task changes made by other tidy processes.

Examples:
  # Stdio mode (default)
  tidy serve

  # HTTP mode, reloading when the task document changes
  tidy serve --port 8080 --watch

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "tidy": {
        "command": "/path/to/tidy",
        "args": ["serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (0 = use mcp.port setting, else stdio)")
	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "serve HTTP, picking a free port if none is configured")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "reload tasks when the task document changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if schedulerService == nil {
		return errors.New("scheduler not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Tasks:      taskService,
		Operations: operationCatalog,
		Resolver:   nameResolver,
	})
	if err != nil {
		return err
	}

	port, err := resolveServePort()
	if err != nil {
		return err
	}

	logger.SetTimestamps(true)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := schedulerService.Start(ctx); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer stopScheduler()

	if serveWatch {
		if err := startWatch(ctx); err != nil {
			return err
		}
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		logger.Info("MCP server listening on http://localhost%s", addr)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

// resolveServePort returns the HTTP port to listen on, or 0 for stdio.
func resolveServePort() (int, error) {
	port := servePort
	if port == 0 && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			port = settings.MCP.Port
		}
	}
	if port == 0 && serveHTTP {
		free, err := services.FindAvailablePort(httpPortStart, httpPortEnd)
		if err != nil {
			return 0, err
		}
		port = free
	}
	return port, nil
}

func startWatch(ctx context.Context) error {
	if taskDocument == "" {
		return errors.New("--watch needs a file-backed storage backend (json or sqlite)")
	}

	w, err := watch.New(taskDocument, schedulerService.Reload)
	if err != nil {
		return fmt.Errorf("watching tasks: %w", err)
	}
	go func() {
		if err := w.Watch(ctx); err != nil {
			logger.Warn("task watcher stopped: %v", err)
		}
	}()
	return nil
}

func stopScheduler() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := schedulerService.Stop(ctx); err != nil {
		logger.Error("scheduler stop: %v", err)
	}
}
